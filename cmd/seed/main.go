package main

import (
	"context"

	"open-producten/internal/config"
	"open-producten/internal/db"
	"open-producten/internal/logger"
	"open-producten/internal/metrics"
	categoryrepo "open-producten/internal/repository/category"
	producttyperepo "open-producten/internal/repository/producttype"
	upnrepo "open-producten/internal/repository/upn"
	"open-producten/internal/seed"
	categorysvc "open-producten/internal/service/category"
	producttypesvc "open-producten/internal/service/producttype"
)

func main() {
	cfg := config.FromEnv()
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	sugar := log.Sugar().Named("seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		sugar.Fatalw("connect db", "error", err)
	}
	defer pool.Close()

	m := metrics.Nop()
	upns := upnrepo.NewPostgres(pool, sugar)
	cats := categorysvc.New(categoryrepo.NewPostgres(pool, sugar), m)
	types := producttypesvc.New(producttyperepo.NewPostgres(pool, sugar), upns, m)

	if err := seed.Apply(ctx, cats, types, upns, sugar); err != nil {
		sugar.Fatalw("seed apply", "error", err)
	}
	sugar.Info("seed applied")
}
