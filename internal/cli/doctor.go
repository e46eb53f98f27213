package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/streaks/internal/keyring"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/storage"
	"github.com/julianstephens/streaks/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(ctx *Context) error
	warning bool
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	checks := []check{
		{name: "Store reachable", run: checkStoreReachable},
		{name: "Schema version", run: checkSchemaVersion},
		{name: "Data validation", run: checkValidation},
		{name: "Timezone", run: checkTimezone},
		{name: "Backups present", run: checkBackupsPresent, warning: true},
		{name: "OS keyring", run: checkKeyring, warning: true},
		{name: "Log directory", run: checkLogDir, warning: true},
	}

	failed := false
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", c.name)
		case c.warning:
			ctx.printf("⚠ %s: WARNING\n   %v\n", c.name, err)
		default:
			ctx.printf("❌ %s: FAIL\n   Error: %v\n", c.name, err)
			failed = true
		}
	}

	ctx.println()
	if failed {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *Context) error {
	store := ctx.Store
	if fb, ok := store.(*storage.FallbackStore); ok {
		store = fb.Primary()
	}
	versioned, ok := store.(storage.Versioned)
	if !ok {
		// JSON stores have no schema
		return nil
	}

	current, latest, err := versioned.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("schema version %d is newer than supported version %d", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: at version %d, latest is %d", current, latest)
	}
	return nil
}

func checkValidation(ctx *Context) error {
	habits, err := ctx.Habits().List()
	if err != nil {
		return err
	}
	cal, err := ctx.Tasks().All()
	if err != nil {
		return err
	}

	v := validation.New()
	n := len(v.ValidateHabits(habits, ctx.Today()).Conflicts) + len(v.ValidateTasks(cal).Conflicts)
	if n > 0 {
		return fmt.Errorf("%d problem(s) found, run 'streaks validate' for details", n)
	}
	return nil
}

func checkTimezone(ctx *Context) error {
	if ctx.Config == nil {
		return nil
	}
	if _, err := ctx.Config.Location(); err != nil {
		return err
	}
	now := ctx.clock()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format("2006-01-02 15:04"))
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := ctx.backupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'streaks backup create'")
	}
	return nil
}

func checkKeyring(ctx *Context) error {
	if !keyring.IsAvailable() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}

func checkLogDir(ctx *Context) error {
	if ctx.Config == nil {
		return nil
	}
	path := logger.LogPath(ctx.Config.Dir())
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no log file at %s yet", path)
	}
	return nil
}
