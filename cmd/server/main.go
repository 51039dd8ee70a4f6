package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/config"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/cache"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/memory"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/mongodb"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/sheets"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/scheduler"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/server/handlers"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/server/router"
	batchsvc "github.com/taffyrocks/wg-nursery-system-sub000/internal/service/batches"
	catalogsvc "github.com/taffyrocks/wg-nursery-system-sub000/internal/service/catalog"
	commandsvc "github.com/taffyrocks/wg-nursery-system-sub000/internal/service/commands"
	procurementsvc "github.com/taffyrocks/wg-nursery-system-sub000/internal/service/procurement"
	reportingsvc "github.com/taffyrocks/wg-nursery-system-sub000/internal/service/reporting"
	salesvc "github.com/taffyrocks/wg-nursery-system-sub000/internal/service/sales"
	whatsappsvc "github.com/taffyrocks/wg-nursery-system-sub000/internal/service/whatsapp"
	"github.com/taffyrocks/wg-nursery-system-sub000/pkg/clients/anthropic"
	whatsappclient "github.com/taffyrocks/wg-nursery-system-sub000/pkg/clients/whatsapp"
	"github.com/taffyrocks/wg-nursery-system-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var st store.Store
	if cfg.MongoDB.URI != "" {
		mongoStore, err := mongodb.NewStore(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
		if err != nil {
			baseLogger.Fatal("failed to init mongodb store", zap.Error(err))
		}
		defer func() {
			if err := mongoStore.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		st = mongoStore
	} else {
		baseLogger.Warn("MONGODB_URI missing, records are kept in memory only")
		st = memory.NewStore()
	}

	var saleOpts []salesvc.Option
	var batchOpts []batchsvc.Option

	if cfg.Redis.Addr != "" {
		redisClient, err := cache.New(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			baseLogger.Fatal("failed to init redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		saleOpts = append(saleOpts, salesvc.WithIdempotencyGuard(cache.NewIdempotencyGuard(redisClient, cfg.Redis.IdempotencyTTL)))
		baseLogger.Info("sale idempotency guard enabled", zap.Duration("ttl", cfg.Redis.IdempotencyTTL))
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		bookkeeper := sheets.NewBookkeeper(sheetsRepo)
		saleOpts = append(saleOpts, salesvc.WithExporter(bookkeeper))
		batchOpts = append(batchOpts, batchsvc.WithExporter(bookkeeper))
		baseLogger.Info("google sheets bookkeeping enabled")
	}

	batchSvc := batchsvc.NewService(st, baseLogger.Named("svc.batches"), batchOpts...)
	saleSvc := salesvc.NewService(st, baseLogger.Named("svc.sales"), saleOpts...)
	catalogSvc := catalogsvc.NewService(st, baseLogger.Named("svc.catalog"))
	procurementSvc := procurementsvc.NewService(st, baseLogger.Named("svc.procurement"))

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid TIMEZONE", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}
	reportingSvc := reportingsvc.NewService(st, cfg.Reporting.LowStockThreshold, loc, baseLogger.Named("svc.reporting"))

	routes := router.Handlers{
		Batches:     handlers.NewBatchHandler(batchSvc, baseLogger.Named("handlers.batches")),
		Sales:       handlers.NewSaleHandler(saleSvc, baseLogger.Named("handlers.sales")),
		Catalog:     handlers.NewCatalogHandler(catalogSvc, baseLogger.Named("handlers.catalog")),
		Procurement: handlers.NewProcurementHandler(procurementSvc, baseLogger.Named("handlers.procurement")),
		Reports:     handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
	}

	var messagingSvc whatsappsvc.MessagingService
	if cfg.WhatsApp.Enabled() {
		// Initialize AI Client
		var aiClient anthropic.Client
		if cfg.AI.AnthropicKey != "" {
			aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
			baseLogger.Info("anthropic ai client enabled")
		} else {
			baseLogger.Warn("anthropic api key missing, natural language processing disabled")
		}

		commandDispatcher := commandsvc.NewService(batchSvc, saleSvc, reportingSvc, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc = whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, aiClient, baseLogger.Named("svc.whatsapp"))
		routes.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
	} else {
		baseLogger.Warn("whatsapp not configured, webhook disabled")
	}

	engine := router.New(routes, baseLogger.Named("router"))

	// Initialize Scheduler
	sched := scheduler.NewScheduler(*cfg, reportingSvc, messagingSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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
