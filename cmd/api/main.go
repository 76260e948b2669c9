package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tillpoint/tillpoint-backend/api/routes"
	"github.com/tillpoint/tillpoint-backend/internal/cart"
	"github.com/tillpoint/tillpoint-backend/internal/catalog"
	"github.com/tillpoint/tillpoint-backend/internal/checkout"
	"github.com/tillpoint/tillpoint-backend/internal/ledger"
	"github.com/tillpoint/tillpoint-backend/pkg/config"
	"github.com/tillpoint/tillpoint-backend/pkg/db"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/metrics"
	"github.com/tillpoint/tillpoint-backend/pkg/migrate"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	fmtr, err := money.NewFormatter(cfg.Locale.Language, cfg.Locale.Currency)
	if err != nil {
		logg.Error(context.Background(), "failed to build money formatter", err)
		os.Exit(1)
	}

	var (
		dbClient    *db.Client
		dbPinger    db.Pinger
		ledgerStore ledger.Store
		catalogRepo catalog.Repository
	)

	if cfg.Ledger.UsesDatabase() {
		dbClient, err = db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()

		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}

		dbPinger = dbClient
		ledgerStore = ledger.NewSQLStore(dbClient.DB())
		catalogRepo = catalog.NewRepository(dbClient.DB())
	} else {
		fileStore, err := ledger.NewFileStore(cfg.Ledger.FilePath, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to open ledger file", err)
			os.Exit(1)
		}
		ledgerStore = fileStore
		catalogRepo = catalog.NewMemoryRepository()
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(ledgerStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	cartContainer := cart.New()
	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	checkoutService, err := checkout.NewService(cartContainer, ledgerService, logg, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": ledgerStore.Name(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbPinger, fmtr, catalogService, cartContainer, checkoutService, ledgerService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
