package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/streaks/internal/config"
	apperrors "github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/keyring"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/storage/postgres"
	"github.com/julianstephens/streaks/internal/storage/sqlite"
)

// keyringStore selects the PostgreSQL connection string saved in the OS keyring.
const keyringStore = "postgres"

// OpenStore builds the provider described by cfg. A configured legacy store
// is wrapped behind the primary with a FallbackStore.
func OpenStore(cfg *config.Config) (storage.Provider, error) {
	primary, err := newProvider(cfg.Store)
	if err != nil {
		return nil, err
	}
	if cfg.LegacyStore == "" {
		return primary, nil
	}
	legacy, err := newProvider(cfg.LegacyStore)
	if err != nil {
		return nil, fmt.Errorf("legacy store: %w", err)
	}
	return storage.NewFallbackStore(primary, legacy), nil
}

func newProvider(target string) (storage.Provider, error) {
	switch {
	case target == keyringStore:
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, apperrors.WithHint(
					fmt.Errorf("no PostgreSQL connection string in the keyring"),
					"run 'streaks secret set-connection <connection-string>'",
				)
			}
			return nil, err
		}
		return postgres.New(connStr), nil

	case postgres.IsConnString(target) || strings.Contains(target, "host="):
		if _, err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, apperrors.WithHint(err,
					"store the full connection string with 'streaks secret set-connection' and set store = \"postgres\", or use PGPASSWORD/.pgpass")
			}
			return nil, err
		}
		return postgres.New(target), nil

	case strings.HasSuffix(target, ".json"):
		return storage.NewJSONStore(target), nil

	default:
		return sqlite.NewStore(target), nil
	}
}
