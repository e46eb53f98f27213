package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/streaks/internal/backup"
	"github.com/julianstephens/streaks/internal/config"
	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/habits"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/storage/postgres"
	"github.com/julianstephens/streaks/internal/tasks"
	"github.com/julianstephens/streaks/internal/utils"
)

// Context is handed to every command's Run method.
type Context struct {
	Config *config.Config
	Store  storage.Provider
	// Out receives command output; os.Stdout when nil.
	Out io.Writer
	// Now defaults to time.Now.
	Now func() time.Time
	// Interactive allows commands to fall back to forms for missing input.
	Interactive bool

	habits *habits.Service
	tasks  *tasks.Service
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) clock() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Location is the timezone that decides what "today" is.
func (c *Context) Location() *time.Location {
	if c.Config == nil {
		return time.Local
	}
	loc, err := c.Config.Location()
	if err != nil {
		logger.Warn("Falling back to local timezone", "timezone", c.Config.Timezone, "error", err)
		return time.Local
	}
	return loc
}

// Today returns the current day in the configured timezone.
func (c *Context) Today() string {
	return c.clock().In(c.Location()).Format(constants.DateFormat)
}

// Habits returns the habit service for the local user.
func (c *Context) Habits() *habits.Service {
	if c.habits == nil {
		c.habits = habits.NewService(c.Store, constants.LocalUserID,
			habits.WithClock(c.clock),
			habits.WithLocation(c.Location()),
		)
	}
	return c.habits
}

// Tasks returns the calendar service for the local user.
func (c *Context) Tasks() *tasks.Service {
	if c.tasks == nil {
		c.tasks = tasks.NewService(c.Store, constants.LocalUserID,
			tasks.WithClock(c.clock),
			tasks.WithLocation(c.Location()),
		)
	}
	return c.tasks
}

// backupManager returns a manager for file-backed stores. PostgreSQL has
// its own backup tooling.
func (c *Context) backupManager() (*backup.Manager, error) {
	path := c.Store.GetConfigPath()
	if fb, ok := c.Store.(*storage.FallbackStore); ok {
		path = fb.Primary().GetConfigPath()
	}
	if path == "" || path == postgres.ConfigPath {
		return nil, fmt.Errorf("backups are only available for file-based stores; use pg_dump for PostgreSQL")
	}
	return backup.NewManager(path), nil
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.backupManager()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// resolveDay turns a user-supplied day into YYYY-MM-DD, defaulting to today.
// Unlike the services, the CLI rejects input it cannot parse.
func (c *Context) resolveDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "today":
		return c.Today(), nil
	case "yesterday":
		return utils.AddDays(c.Today(), -1)
	}
	day, err := utils.ParseDay(s, c.Location())
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return day, nil
}

// resolveHabit finds a habit by ID or case-insensitive name.
func (c *Context) resolveHabit(ref string) (models.Habit, error) {
	h, err := c.Habits().Resolve(ref)
	if errors.Is(err, habits.ErrNotFound) {
		return models.Habit{}, fmt.Errorf("habit %q not found", ref)
	}
	return h, err
}

// NeedsStore reports whether the command path selected by kong needs the
// store loaded before it runs.
func NeedsStore(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return true
	}
	switch fields[0] {
	case "init", "secret":
		return false
	}
	return true
}
