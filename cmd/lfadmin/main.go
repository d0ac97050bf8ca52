// Command lfadmin bootstraps the first admin and manages the CNIC allow-list.
// It reads the same configuration as the server (JSON file, LF_* environment,
// flags) and talks to PostgreSQL directly.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/lostfound/internal/admincli"
	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	creds := services.NewCredentialStore(db, rm)
	auth := services.NewAuthService(db, rm, creds, services.AuthMode(cfg.AuthMode), logger)

	app := admincli.NewApp(auth, creds, os.Stdout)
	if err := app.Run(ctx, admincli.SplitCommand(os.Args[1:])); err != nil {
		if !errors.Is(err, admincli.ErrUsage) {
			log.Printf("lfadmin: %v", err)
		}
		db.Close()
		os.Exit(1)
	}

}
