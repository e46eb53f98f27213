package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/streaks/internal/api"
	"github.com/julianstephens/streaks/internal/logger"
)

type ServeCmd struct {
	Addr string `help:"Listen address (default from config)."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	addr := c.Addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ttl, err := cfg.TokenTTL()
	if err != nil {
		return err
	}
	secret, err := api.ResolveSecret(cfg.Server.JWTSecret)
	if err != nil {
		return err
	}

	srv := api.NewServer(ctx.Store, api.Config{
		Secret:         secret,
		TokenTTL:       ttl,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Location:       ctx.Location(),
		Now:            ctx.Now,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting API server", "addr", addr, "store", ctx.Store.GetConfigPath())
	return srv.ListenAndServe(runCtx, addr)
}
