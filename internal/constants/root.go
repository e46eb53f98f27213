package constants

import "time"

const (
	AppName           = "streaks"
	Version           = "v0.1.0"
	DefaultConfigDir  = "~/.config/streaks"
	DefaultConfigPath = "~/.config/streaks/config.toml"
	DefaultStorePath  = "~/.config/streaks/streaks.db"
	DefaultTimezone   = "Local" // Use system local timezone by default
	DefaultServerAddr = ":8080"
	DefaultTokenTTL   = 24 * time.Hour

	// Keyring accounts
	KeyringConnectionUser = "database-connection"
	KeyringJWTUser        = "jwt-secret"

	// LocalUserID owns the collections used by the CLI and TUI.
	LocalUserID = "local"

	// Storage keys
	StoragePrefix  = "streaks"
	HabitsKey      = "habits"
	TasksKey       = "tasks"
	UsersKey       = "users"
	ExportVersion  = 1
	ExportFileMode = 0600

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "streaks-"
	BackupFileSuffix = ".db"
)
