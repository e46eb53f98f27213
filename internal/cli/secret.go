package cli

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/streaks/internal/keyring"
	"github.com/julianstephens/streaks/internal/storage/postgres"
)

type SecretCmd struct {
	SetConnection    SecretSetConnectionCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	DeleteConnection SecretDeleteConnectionCmd `cmd:"" help:"Remove the stored PostgreSQL connection string."`
	SetJWT           SecretSetJWTCmd           `cmd:"" name:"set-jwt" help:"Store the API token signing secret in the OS keyring."`
	Status           SecretStatusCmd           `cmd:"" help:"Show keyring availability and stored secrets."`
}

type SecretSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
}

func (c *SecretSetConnectionCmd) Run(ctx *Context) error {
	if !postgres.IsConnString(c.ConnectionString) && !strings.Contains(c.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(c.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.println("⚠️  Connection string contains embedded credentials; storing it in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	ctx.println("✓ Connection string stored in OS keyring")
	ctx.println(`  Set store = "postgres" in the config file to use it`)
	return nil
}

type SecretDeleteConnectionCmd struct{}

func (c *SecretDeleteConnectionCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return fmt.Errorf("failed to delete connection string from keyring: %w", err)
	}
	ctx.println("✓ Connection string deleted from OS keyring")
	return nil
}

type SecretSetJWTCmd struct {
	Secret   string `arg:"" optional:"" help:"Signing secret (at least 32 characters)."`
	Generate bool   `help:"Generate a random secret instead."`
}

func (c *SecretSetJWTCmd) Run(ctx *Context) error {
	secret := c.Secret
	switch {
	case c.Generate && secret != "":
		return errors.New("pass either a secret or --generate, not both")
	case c.Generate:
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return fmt.Errorf("failed to generate secret: %w", err)
		}
		secret = hex.EncodeToString(buf)
	case len(secret) < 32:
		return errors.New("secret must be at least 32 characters; use --generate for a random one")
	}

	if err := keyring.SetJWTSecret(secret); err != nil {
		return fmt.Errorf("failed to store JWT secret in keyring: %w", err)
	}
	ctx.println("✓ JWT secret stored in OS keyring")
	ctx.println("  Tokens issued with the previous secret are no longer valid")
	return nil
}

type SecretStatusCmd struct{}

func (c *SecretStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.println("✓ OS keyring is available")

	report := func(label string, get func() (string, error)) {
		_, err := get()
		switch {
		case err == nil:
			ctx.printf("✓ %s is stored\n", label)
		case errors.Is(err, keyring.ErrNotFound):
			ctx.printf("ℹ No %s stored\n", label)
		default:
			ctx.printf("❌ %s: %v\n", label, err)
		}
	}
	report("connection string", keyring.GetConnectionString)
	report("JWT secret", keyring.GetJWTSecret)
	return nil
}
