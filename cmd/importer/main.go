package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"open-producten/internal/config"
	"open-producten/internal/db"
	"open-producten/internal/importer"
	"open-producten/internal/logger"
	upnrepo "open-producten/internal/repository/upn"
)

func main() {
	var filePath string

	cmd := &cobra.Command{
		Use:          "importer",
		Short:        "Load the uniform product name list from a CSV file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), filePath)
		},
	}
	cmd.Flags().StringVar(&filePath, "file", "", "path to the UPN CSV (columns URI, UniformeProductnaam)")
	_ = cmd.MarkFlagRequired("file")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, filePath string) error {
	cfg := config.FromEnv()
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	sugar := log.Sugar().Named("importer")

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, upnrepo.NewPostgres(pool, sugar))

	start := time.Now()
	res, err := imp.Run(ctx)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	sugar.Infow("upn import finished", "read", res.Read, "created", res.Created, "took", time.Since(start).Truncate(time.Millisecond))
	return nil
}
