package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flowstatus/config"
	"flowstatus/db"
	"flowstatus/logging"
	"flowstatus/status"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "flowstatus",
		Short: "Flow Status - Discord /status bot",
		Long: `flowstatus lets guild members declare a working status with /status.
The status is stored for a limited time and mirrored as a tag on the
member's nickname.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newPurgeCmd())
	return root
}

// app holds the pieces shared by every subcommand.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	pool    *pgxpool.Pool
	service *status.Service
}

func (r *app) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
	_ = r.logger.Sync()
}

// bootstrap loads configuration and opens the status store. requireToken is
// false for subcommands that never talk to Discord.
func bootstrap(ctx context.Context, requireToken bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if requireToken {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	} else if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	policy, err := status.NewPolicy(cfg.Status.TTL)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	pool, err := db.NewPool(ctx, cfg.Database.URL, db.Options{
		MaxConns:         cfg.Database.MaxConns,
		ConnectTimeout:   cfg.Database.ConnectTimeout,
		IdleTimeout:      cfg.Database.IdleTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("bootstrap database pool: %w", err)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		service: status.NewService(status.NewRepository(pool), policy),
	}, nil
}
