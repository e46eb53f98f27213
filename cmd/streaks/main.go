package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/streaks/internal/cli"
	"github.com/julianstephens/streaks/internal/config"
	"github.com/julianstephens/streaks/internal/constants"
	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (default: ~/.config/streaks/config.toml)." type:"path"`
	Store   string `help:"Store location: a .db or .json path, a PostgreSQL URL, or 'postgres' to use the keyring."`
	Debug   bool   `help:"Enable debug logging."`

	Init     cli.InitCmd     `cmd:"" help:"Initialize streaks storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit    cli.HabitCmd    `cmd:"" help:"Manage habits and their streaks."`
	Task     cli.TaskCmd     `cmd:"" help:"Manage calendar tasks."`
	Serve    cli.ServeCmd    `cmd:"" help:"Run the HTTP API."`
	Export   cli.ExportCmd   `cmd:"" help:"Export habits and tasks as JSON."`
	Import   cli.ImportCmd   `cmd:"" help:"Replace habits and tasks from an export file."`
	Backup   cli.BackupCmd   `cmd:"" help:"Create, list and restore store backups."`
	Secret   cli.SecretCmd   `cmd:"" help:"Manage secrets in the OS keyring."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored data for problems."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run health checks."`
	DebugCmd cli.DebugCmd    `cmd:"" name:"debug" help:"Inspect raw store contents."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit streak tracker with a task calendar"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config, os.Getenv)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Store != "" {
		cfg.Store = CLI.Store
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: cfg.Dir(),
		Console:   ctx.Command() == "serve",
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("Starting", "version", constants.Version, "command", ctx.Command(), "config", cfg.Path)

	store, err := cli.OpenStore(cfg)
	if err != nil {
		errors.Fatal(err)
	}
	if cli.NeedsStore(ctx.Command()) {
		if err := store.Load(); err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Config:      cfg,
		Store:       store,
		Interactive: cli.IsInteractive(),
	}

	err = ctx.Run(appCtx)
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	errors.Fatal(err)
}
