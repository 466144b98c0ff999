package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/config"
	"github.com/albaehandicraft/umkmpos/internal/repository/mongodb"
	"github.com/albaehandicraft/umkmpos/internal/repository/sheets"
	"github.com/albaehandicraft/umkmpos/internal/repository/supabase"
	"github.com/albaehandicraft/umkmpos/internal/scheduler"
	"github.com/albaehandicraft/umkmpos/internal/server/handlers"
	"github.com/albaehandicraft/umkmpos/internal/server/router"
	"github.com/albaehandicraft/umkmpos/internal/service/checkout"
	"github.com/albaehandicraft/umkmpos/internal/service/identity"
	"github.com/albaehandicraft/umkmpos/internal/service/inventory"
	reportingsvc "github.com/albaehandicraft/umkmpos/internal/service/reporting"
	settingssvc "github.com/albaehandicraft/umkmpos/internal/service/settings"
	"github.com/albaehandicraft/umkmpos/pkg/clients/anthropic"
	backend "github.com/albaehandicraft/umkmpos/pkg/clients/supabase"
	"github.com/albaehandicraft/umkmpos/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	apiClient := backend.NewClient(cfg.Backend)
	gateway := supabase.NewGateway(apiClient, baseLogger.Named("repo.supabase"))

	authProvider := identity.NewProvider(apiClient, gateway, cfg.Auth.JWTSecret, baseLogger.Named("svc.identity"))
	directory := identity.NewDirectory(gateway, baseLogger.Named("svc.users"))
	inventorySvc := inventory.NewService(gateway, baseLogger.Named("svc.inventory"))
	settingsSvc := settingssvc.NewService(gateway, baseLogger.Named("svc.settings"))

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, sales insights disabled")
	}
	reportingSvc := reportingsvc.NewService(gateway, aiClient, cfg.Reporting.Location(), baseLogger.Named("svc.reporting"))

	sessions := checkout.NewSessionManager(gateway, baseLogger.Named("svc.checkout"))

	// Optional sinks stay nil interfaces when not configured.
	var (
		archive       scheduler.Archive
		reportArchive handlers.ReportArchive
		exporter      scheduler.Exporter
	)

	if cfg.MongoDB.Enabled() {
		reportStore, err := mongodb.NewReportArchive(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := reportStore.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive, reportArchive = reportStore, reportStore
	} else {
		baseLogger.Warn("mongodb uri missing, report archive disabled")
	}

	if cfg.Sheets.Enabled() {
		spreadsheet, err := sheets.NewSpreadsheet(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init google sheets client", zap.Error(err))
		}
		exporter = sheets.NewDailyReportExporter(spreadsheet, baseLogger.Named("repo.sheets.export"))
	} else {
		baseLogger.Warn("google sheets credentials missing, report export disabled")
	}

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, inventorySvc, archive, exporter, baseLogger.Named("scheduler")).
		WithSessionSweeper(sessions)
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authProvider, baseLogger.Named("handlers.auth")),
		Checkout:  handlers.NewCheckoutHandler(sessions, inventorySvc, baseLogger.Named("handlers.checkout")),
		Inventory: handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory")),
		Reports:   handlers.NewReportHandler(reportingSvc, gateway, reportArchive, baseLogger.Named("handlers.reports")),
		Settings:  handlers.NewSettingsHandler(settingsSvc, baseLogger.Named("handlers.settings")),
		Users:     handlers.NewUserHandler(directory, baseLogger.Named("handlers.users")),
	}, authProvider, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
