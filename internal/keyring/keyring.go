package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/streaks/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for an account
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(account string) (string, error) {
	secret, err := keyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func set(account, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", account)
	}
	if err := keyring.Set(constants.AppName, account, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", account, err)
	}
	return nil
}

func remove(account string) error {
	if err := keyring.Delete(constants.AppName, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", account, err)
	}
	return nil
}

// GetConnectionString returns the PostgreSQL connection string, or
// ErrNotFound when none is stored.
func GetConnectionString() (string, error) {
	return get(constants.KeyringConnectionUser)
}

func SetConnectionString(connStr string) error {
	return set(constants.KeyringConnectionUser, connStr)
}

func DeleteConnectionString() error {
	return remove(constants.KeyringConnectionUser)
}

// GetJWTSecret returns the key used to sign API tokens.
func GetJWTSecret() (string, error) {
	return get(constants.KeyringJWTUser)
}

func SetJWTSecret(secret string) error {
	return set(constants.KeyringJWTUser, secret)
}

func DeleteJWTSecret() error {
	return remove(constants.KeyringJWTUser)
}

// IsAvailable is a best-effort probe of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
