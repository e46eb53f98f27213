package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/streaks/internal/logger"
)

type DebugCmd struct {
	StorePath DebugStorePathCmd `cmd:"" help:"Show the store location and log file."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit as JSON."`
	DumpDay   DebugDumpDayCmd   `cmd:"" help:"Dump every habit and task for a day as JSON."`
	Keys      DebugKeysCmd      `cmd:"" help:"List the keys held by the store."`
}

func (ctx *Context) printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(out))
	return nil
}

type DebugStorePathCmd struct{}

func (cmd *DebugStorePathCmd) Run(ctx *Context) error {
	output := map[string]string{
		"store": ctx.Store.GetConfigPath(),
	}
	if ctx.Config != nil {
		output["config"] = ctx.Config.Path
		output["log"] = logger.LogPath(ctx.Config.Dir())
	}
	return ctx.printJSON(output)
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	h, err := ctx.resolveHabit(cmd.Habit)
	if err != nil {
		return err
	}
	return ctx.printJSON(h)
}

type DebugDumpDayCmd struct {
	Date string `arg:"" help:"Day to dump (YYYY-MM-DD or 'today')." default:"today"`
}

func (cmd *DebugDumpDayCmd) Run(ctx *Context) error {
	day, err := ctx.resolveDay(cmd.Date)
	if err != nil {
		return err
	}
	habits, err := ctx.Habits().ForDay(day)
	if err != nil {
		return err
	}
	list, err := ctx.Tasks().ForDay(day)
	if err != nil {
		return err
	}
	return ctx.printJSON(map[string]interface{}{
		"day":    day,
		"habits": habits,
		"tasks":  list,
	})
}

type DebugKeysCmd struct{}

func (cmd *DebugKeysCmd) Run(ctx *Context) error {
	keys, err := ctx.Store.Keys()
	if err != nil {
		return err
	}
	return ctx.printJSON(keys)
}
