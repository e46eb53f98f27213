package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/utils"
)

// Config is the resolved application configuration.
type Config struct {
	Store       string `toml:"store"`
	LegacyStore string `toml:"legacy_store,omitempty"`
	Timezone    string `toml:"timezone"`
	Debug       bool   `toml:"debug"`

	Server ServerConfig `toml:"server"`

	// Path is the file the configuration was read from, empty when none was found.
	Path string `toml:"-"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	TokenTTL       string   `toml:"token_ttl"`
	AllowedOrigins []string `toml:"allowed_origins"`
	JWTSecret      string   `toml:"jwt_secret,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store:    constants.DefaultStorePath,
		Timezone: constants.DefaultTimezone,
		Server: ServerConfig{
			Addr:           constants.DefaultServerAddr,
			TokenTTL:       constants.DefaultTokenTTL.String(),
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
	}
}

// Load resolves configuration from defaults, the TOML file at path, and the
// environment, in that order. An empty path means the default location,
// which may be absent; an explicit path must exist.
func Load(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = constants.DefaultConfigPath
	}
	path = ExpandPath(path)

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else {
		cfg.Path = path
	}

	if err := loadFromEnv(cfg, getenv); err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFromEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("STREAKS_STORE"); v != "" {
		cfg.Store = v
	}
	if v := getenv("STREAKS_LEGACY_STORE"); v != "" {
		cfg.LegacyStore = v
	}
	if v := getenv("STREAKS_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := getenv("STREAKS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv("STREAKS_JWT_SECRET"); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := getenv("STREAKS_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STREAKS_DEBUG: %w", err)
		}
		cfg.Debug = debug
	}
	return nil
}

func (c *Config) finalize() error {
	c.Store = ExpandPath(c.Store)
	c.LegacyStore = ExpandPath(c.LegacyStore)
	return c.Validate()
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return fmt.Errorf("store must not be empty")
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	if _, err := c.TokenTTL(); err != nil {
		return err
	}
	return nil
}

// TokenTTL returns the lifetime of issued API tokens.
func (c *Config) TokenTTL() (time.Duration, error) {
	if c.Server.TokenTTL == "" {
		return constants.DefaultTokenTTL, nil
	}
	ttl, err := time.ParseDuration(c.Server.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid server.token_ttl %q: %w", c.Server.TokenTTL, err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("server.token_ttl must be positive")
	}
	return ttl, nil
}

// Location returns the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// Dir is the directory holding logs and backups.
func (c *Config) Dir() string {
	if c.Path != "" {
		return filepath.Dir(c.Path)
	}
	return ExpandPath(constants.DefaultConfigDir)
}

// Write saves c as TOML at path, creating parent directories. Secrets are
// never written.
func (c *Config) Write(path string) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *c
	out.Server.JWTSecret = ""

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory. Connection
// strings pass through unchanged.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
