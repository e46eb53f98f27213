package cli

import (
	"os"

	"github.com/julianstephens/streaks/internal/config"
	"github.com/julianstephens/streaks/internal/constants"
)

type InitCmd struct {
	WriteConfig bool `help:"Also write the resolved settings to the config file if none exists." default:"true" negatable:""`
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized streaks storage at: %s\n", ctx.Store.GetConfigPath())

	if !c.WriteConfig || ctx.Config == nil || ctx.Config.Path != "" {
		return nil
	}
	path := config.ExpandPath(constants.DefaultConfigPath)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := ctx.Config.Write(path); err != nil {
		return err
	}
	ctx.printf("Wrote config: %s\n", path)
	return nil
}
