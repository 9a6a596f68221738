package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"open-producten/internal/config"
	"open-producten/internal/db"
	"open-producten/internal/httpserver"
	"open-producten/internal/logger"
	"open-producten/internal/metrics"
	attachmentrepo "open-producten/internal/repository/attachment"
	categoryrepo "open-producten/internal/repository/category"
	conditionrepo "open-producten/internal/repository/condition"
	locationrepo "open-producten/internal/repository/location"
	pricerepo "open-producten/internal/repository/price"
	productrepo "open-producten/internal/repository/product"
	producttyperepo "open-producten/internal/repository/producttype"
	questionrepo "open-producten/internal/repository/question"
	tagrepo "open-producten/internal/repository/tag"
	upnrepo "open-producten/internal/repository/upn"
	attachmentsvc "open-producten/internal/service/attachment"
	categorysvc "open-producten/internal/service/category"
	conditionsvc "open-producten/internal/service/condition"
	locationsvc "open-producten/internal/service/location"
	pricesvc "open-producten/internal/service/price"
	productsvc "open-producten/internal/service/product"
	producttypesvc "open-producten/internal/service/producttype"
	questionsvc "open-producten/internal/service/question"
	tagsvc "open-producten/internal/service/tag"
)

func main() {
	cfg := config.FromEnv()
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	sugar := log.Sugar().Named("api")

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		sugar.Fatalw("connect to db", "error", err)
	}
	defer dbpool.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	categoryService := categorysvc.New(categoryrepo.NewPostgres(dbpool, sugar.Named("category")), m)
	productTypeService := producttypesvc.New(
		producttyperepo.NewPostgres(dbpool, sugar.Named("producttype")),
		upnrepo.NewPostgres(dbpool, sugar.Named("upn")),
		m,
	)
	productService := productsvc.New(productrepo.NewPostgres(dbpool, sugar.Named("product")), productTypeService, m)
	priceService := pricesvc.New(pricerepo.NewPostgres(dbpool, sugar.Named("price")), productTypeService, m)
	questionService := questionsvc.New(
		questionrepo.NewPostgres(dbpool, sugar.Named("question")),
		questionsvc.Lookup{Categories: categoryService, ProductTypes: productTypeService},
		m,
	)

	srv := httpserver.New(cfg.HTTPAddr, log, dbpool, httpserver.Deps{
		CategorySvc:    categoryService,
		ProductTypeSvc: productTypeService,
		ProductSvc:     productService,
		PriceSvc:       priceService,
		QuestionSvc:    questionService,
		TagSvc:         tagsvc.New(tagrepo.NewPostgres(dbpool, sugar.Named("tag")), m),
		ConditionSvc:   conditionsvc.New(conditionrepo.NewPostgres(dbpool, sugar.Named("condition")), m),
		LocationSvc:    locationsvc.New(locationrepo.NewPostgres(dbpool, sugar.Named("location")), m),
		FileSvc:        attachmentsvc.New(attachmentrepo.NewPostgres(dbpool, sugar.Named("file")), productTypeService, m),
		Gatherer:       reg,
		CORSOrigins:    cfg.CORSAllowedOrigins,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		sugar.Infow("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		sugar.Errorw("server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	} else {
		sugar.Info("server stopped")
	}
}
