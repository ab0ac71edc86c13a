// Command adminctl creates a storefront administrator or promotes an existing
// account to the admin role.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/shopfront/shopfront/internal/config"
	"github.com/shopfront/shopfront/internal/infra"
	"github.com/shopfront/shopfront/internal/users"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	email := flag.String("email", "", "admin email address")
	name := flag.String("name", "Admin", "display name for a new admin")
	flag.Parse()

	if err := run(*email, *name, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "adminctl: %v\n", err)
		os.Exit(1)
	}
}

func run(email, name string, w io.Writer) error {
	if email == "" {
		return errors.New("-email is required")
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := infra.NewMongoClient(ctx, cfg.MongoURL)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background()) // nolint:errcheck

	repo, err := users.NewMongoRepository(ctx, client.Database(cfg.MongoDatabase))
	if err != nil {
		return err
	}
	return ensureAdmin(ctx, users.NewService(repo), email, name, w)
}

// ensureAdmin promotes the account owning email, or registers a new admin
// after prompting for its password.
func ensureAdmin(ctx context.Context, svc *users.Service, email, name string, w io.Writer) error {
	user, err := svc.Promote(ctx, email)
	if err == nil {
		fmt.Fprintf(w, "promoted %s (%s) to admin\n", user.Email, user.ID)
		return nil
	}
	if !errors.Is(err, users.ErrNotFound) {
		return err
	}

	password, err := promptPassword(w)
	if err != nil {
		return err
	}
	if len(password) < users.MinPasswordLength || len(password) > users.MaxPasswordBytes {
		return fmt.Errorf("password must be between %d and %d bytes long", users.MinPasswordLength, users.MaxPasswordBytes)
	}

	user, err = svc.Register(ctx, users.RegisterInput{Name: name, Email: email, Password: password, Role: users.RoleAdmin})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "created admin %s (%s)\n", user.Email, user.ID)
	return nil
}

func promptPassword(w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
