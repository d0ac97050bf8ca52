// Package admincli implements lfadmin, the operator tool that bootstraps the
// first admin and manages the CNIC allow-list directly against the store.
package admincli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/cryptox"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
	"github.com/dmitrijs2005/lostfound/internal/server/services"
)

var ErrUsage = errors.New("usage")

const usage = `Usage:
  lfadmin [config flags] bootstrap <username> <cnic>
  lfadmin [config flags] authorize <admin-username> <cnic>
  lfadmin [config flags] revoke <admin-username> <cnic>
  lfadmin [config flags] list <admin-username>`

// Commands lists the subcommands in the order they are documented.
var Commands = []string{"bootstrap", "authorize", "revoke", "list"}

type Bootstrapper interface {
	RegisterAdmin(ctx context.Context, req services.RegisterAdminRequest) (*models.User, error)
}

type Credentials interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListAuthorizedCNICs(ctx context.Context) ([]*models.AuthorizedCnic, error)
	AuthorizeCNIC(ctx context.Context, cnic string, addedBy int64) (*models.AuthorizedCnic, error)
	RevokeCNIC(ctx context.Context, cnic string) error
}

type App struct {
	auth  Bootstrapper
	creds Credentials
	out   io.Writer
}

func NewApp(auth Bootstrapper, creds Credentials, out io.Writer) *App {
	return &App{auth: auth, creds: creds, out: out}
}

// getPassword is a test seam for GetPassword.
var getPassword = GetPassword

// SplitCommand drops the config flags from args and returns the subcommand
// followed by its arguments, or nil when no subcommand is present.
func SplitCommand(args []string) []string {
	for i, a := range args {
		if slices.Contains(Commands, a) {
			return args[i:]
		}
	}
	return nil
}

// Run executes one subcommand. args[0] is the subcommand name.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.usage()
	}

	cmd, rest := args[0], args[1:]
	switch {
	case cmd == "bootstrap" && len(rest) == 2:
		return a.bootstrap(ctx, rest[0], rest[1])
	case cmd == "authorize" && len(rest) == 2:
		return a.authorize(ctx, rest[0], rest[1])
	case cmd == "revoke" && len(rest) == 2:
		return a.revoke(ctx, rest[0], rest[1])
	case cmd == "list" && len(rest) == 1:
		return a.list(ctx, rest[0])
	default:
		return a.usage()
	}
}

func (a *App) usage() error {
	fmt.Fprintln(a.out, usage)
	return ErrUsage
}

func (a *App) bootstrap(ctx context.Context, username, cnic string) error {
	pw, err := getPassword(a.out, "Admin password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	confirm, err := getPassword(a.out, "Repeat password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(pw, confirm) {
		return errors.New("passwords do not match")
	}

	u, err := a.auth.RegisterAdmin(ctx, services.RegisterAdminRequest{
		Username: username,
		Password: string(pw),
		CNIC:     cnic,
	})
	if errors.Is(err, common.ErrConflict) {
		return errors.New("an admin already exists or the username is taken")
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Admin %q created (id %d)\n", username, u.ID)
	return nil
}

// verifyAdmin checks the operator's admin password before any allow-list change.
func (a *App) verifyAdmin(ctx context.Context, username string) (*models.User, error) {
	pw, err := getPassword(a.out, "Password for "+username)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(pw)

	u, err := a.creds.FindUserByUsername(ctx, username)
	if errors.Is(err, common.ErrorNotFound) {
		cryptox.BurnPasswordCheck(string(pw))
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.HasPassword() || !cryptox.ComparePasswords(string(pw), *u.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}
	if !u.IsAdmin {
		return nil, common.ErrForbidden
	}
	return u, nil
}

func (a *App) authorize(ctx context.Context, adminName, cnic string) error {
	admin, err := a.verifyAdmin(ctx, adminName)
	if err != nil {
		return err
	}
	entry, err := a.creds.AuthorizeCNIC(ctx, cnic, admin.ID)
	if errors.Is(err, common.ErrConflict) {
		return fmt.Errorf("cnic %s is already authorized", cnic)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Authorized %s\n", entry.CNIC)
	return nil
}

func (a *App) revoke(ctx context.Context, adminName, cnic string) error {
	if _, err := a.verifyAdmin(ctx, adminName); err != nil {
		return err
	}
	if err := a.creds.RevokeCNIC(ctx, cnic); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Revoked %s\n", cnic)
	return nil
}

func (a *App) list(ctx context.Context, adminName string) error {
	if _, err := a.verifyAdmin(ctx, adminName); err != nil {
		return err
	}
	list, err := a.creds.ListAuthorizedCNICs(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CNIC\tADDED BY\tADDED AT")
	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", e.CNIC, e.AddedBy, e.AddedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
