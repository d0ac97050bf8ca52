// Package server wires the lostfound components together and runs them:
// the PostgreSQL store, the session backend, the HTTP API, the gRPC health
// endpoint and the item cleanup worker. It also owns graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/logging"
	"github.com/dmitrijs2005/lostfound/internal/server/config"
	"github.com/dmitrijs2005/lostfound/internal/server/httpapi"
	"github.com/dmitrijs2005/lostfound/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
	"github.com/dmitrijs2005/lostfound/internal/server/session"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/lostfound/internal/server/grpc"
)

const (
	shutdownTimeout     = 10 * time.Second
	memorySweepInterval = time.Minute
	sessionPurgeEvery   = time.Hour
	healthCheckEvery    = 15 * time.Second
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	sessionStore session.Store
	sessions     *session.Manager
	handler      *httpapi.Handler
	cleanup      *services.CleanupWorker
	closers      []func() error
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}
	app.closers = append(app.closers, db.Close)

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	store, err := app.newSessionStore(db, rm)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.sessionStore = store

	var photos services.PhotoStorage
	if c.PhotosEnabled() {
		s3, err := services.NewS3PhotoStorage(ctx, c)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("photo storage: %w", err)
		}
		photos = s3
	} else {
		logger.Warn(ctx, "photo storage disabled, no bucket configured")
	}

	creds := services.NewCredentialStore(db, rm)
	auth := services.NewAuthService(db, rm, creds, services.AuthMode(c.AuthMode), logger)
	items := services.NewItemService(db, rm, photos, logger)

	app.sessions = session.NewManager(store, creds, c.SessionSecret, c.SessionTTL, logger)
	app.handler = httpapi.NewHandler(auth, creds, items, app.sessions, session.CookieOptions{Secure: c.CookieSecure}, logger)
	app.cleanup = services.NewCleanupWorker(items, c.ItemRetention, c.CleanupInterval, logger)

	return app, nil
}

func (app *App) newSessionStore(db *sql.DB, rm repomanager.RepositoryManager) (session.Store, error) {
	switch app.config.SessionBackend {
	case config.SessionBackendRedis:
		rs := session.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     app.config.RedisAddr,
			Password: app.config.RedisPassword,
		}))
		app.closers = append(app.closers, rs.Close)
		return rs, nil
	case config.SessionBackendPostgres:
		return session.NewPostgresStore(db, rm), nil
	case config.SessionBackendMemory:
		ms := session.NewMemoryStore(memorySweepInterval)
		app.closers = append(app.closers, ms.Close)
		return ms, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", app.config.SessionBackend)
	}
}

// Close releases everything NewApp opened, newest first.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) healthChecks() []gs.Check {
	checks := []gs.Check{{Name: "database", Ping: app.db.PingContext}}
	if p, ok := app.sessionStore.(session.Pinger); ok {
		checks = append(checks, gs.Check{Name: "sessions", Ping: p.Ping})
	}
	return checks
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.HealthAddrGRPC, healthCheckEvery, app.logger, app.healthChecks()...)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if app.config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := httpapi.NewRouter(app.handler, app.config.TrustedProxies)
	if err != nil {
		app.logger.Error(ctx, "router init failed", "error", err)
		cancelFunc()
		return
	}

	srv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr, "auth_mode", app.config.AuthMode)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// purgeExpiredSessions keeps the sessions table small; Redis and the memory
// store expire keys on their own.
func (app *App) purgeExpiredSessions(ctx context.Context, ps *session.PostgresStore) {
	ticker := time.NewTicker(sessionPurgeEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := ps.DeleteExpired(ctx)
			if err != nil {
				app.logger.Error(ctx, "session purge failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "expired sessions purged", "count", n)
			}
		}
	}
}

// Run serves until a signal arrives or a server fails, then shuts
// everything down.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.HealthAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.cleanup.Run(ctx)
	}()

	if ps, ok := app.sessionStore.(*session.PostgresStore); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.purgeExpiredSessions(ctx, ps)
		}()
	}

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}
