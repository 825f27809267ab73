package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"flowstatus/bot"
	"flowstatus/command"
	"flowstatus/presence"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and answer /status interactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	rt, err := bootstrap(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	session, err := bot.NewSession(rt.cfg.Discord.Token)
	if err != nil {
		return err
	}

	handler := command.NewStatusHandler(
		rt.service,
		presence.NewDiscord(session),
		rt.cfg.Status.ClearPolicy,
		rt.logger.Named("command"),
	)
	router := bot.NewRouter(handler, rt.cfg.Discord.InteractionTimeout, rt.logger.Named("router"))
	b := bot.New(session, router, rt.logger.Named("bot"))
	sweeper := bot.NewSweeper(rt.service, rt.cfg.Status.SweepInterval, rt.logger.Named("sweeper"))

	rt.logger.Info("starting flowstatus",
		zap.Duration("status_ttl", rt.cfg.Status.TTL),
		zap.String("clear_policy", string(rt.cfg.Status.ClearPolicy)),
		zap.Duration("sweep_interval", rt.cfg.Status.SweepInterval),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(gctx) })
	g.Go(func() error { return sweeper.Run(gctx) })
	return g.Wait()
}
