package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/prasetyadi/biltrack/internal/billing"
	billingStore "github.com/prasetyadi/biltrack/internal/billing/store"
	"github.com/prasetyadi/biltrack/internal/config"
	"github.com/prasetyadi/biltrack/internal/database"
	biltrackHttp "github.com/prasetyadi/biltrack/internal/http"
	edcHandler "github.com/prasetyadi/biltrack/internal/http/edc"
	inventoryHandler "github.com/prasetyadi/biltrack/internal/http/inventory"
	monthlyHandler "github.com/prasetyadi/biltrack/internal/http/monthly"
	unitKerjaHandler "github.com/prasetyadi/biltrack/internal/http/unitkerja"
	"github.com/prasetyadi/biltrack/internal/inventory"
	inventoryStore "github.com/prasetyadi/biltrack/internal/inventory/store"
	"github.com/prasetyadi/biltrack/internal/summary"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(database.Config{
		ConnString:      cfg.ConnectionString(),
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		unitKerjaService = billing.NewService(billingStore.New(db, billingStore.UnitKerja))
		edcService       = billing.NewService(billingStore.New(db, billingStore.EDC))
		summaryService   = summary.NewService(unitKerjaService, edcService)
		inventoryService = inventory.NewService(inventoryStore.New(db))
	)

	var (
		unitKerjaH = unitKerjaHandler.NewHandler(unitKerjaService)
		edcH       = edcHandler.NewHandler(edcService)
		monthlyH   = monthlyHandler.NewHandler(summaryService)
		inventoryH = inventoryHandler.NewHandler(inventoryService)
	)

	router := biltrackHttp.New(unitKerjaH, edcH, monthlyH, inventoryH, biltrackHttp.Options{
		AuthSecret:     cfg.Auth.Secret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "addr", addr)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
