package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"open-producten/internal/config"
	"open-producten/internal/db"
	"open-producten/internal/logger"
	"open-producten/internal/migrate"
)

func main() {
	cfg := config.FromEnv()
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	sugar := log.Sugar().Named("migrate")

	if err := newRootCmd(cfg, sugar).ExecuteContext(context.Background()); err != nil {
		sugar.Errorw("migrate failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config, log *zap.SugaredLogger) *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the catalog database schema",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				if err := migrate.Apply(ctx, pool); err != nil {
					return err
				}
				log.Info("migrations applied")
				return nil
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				if err := migrate.Rollback(ctx, pool, steps); err != nil {
					return err
				}
				log.Infow("migrations reverted", "steps", steps)
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPool(cmd.Context(), cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				v, dirty, err := migrate.Version(ctx, pool)
				if err != nil {
					return err
				}
				log.Infow("schema version", "version", v, "dirty", dirty)
				return nil
			})
		},
	}

	root.AddCommand(down, version)
	return root
}

func withPool(ctx context.Context, cfg config.Config, fn func(ctx context.Context, pool *pgxpool.Pool) error) error {
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, pool)
}
