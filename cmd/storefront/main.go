package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/application/service"
	"github.com/sangkips/scanpay/internal/config"
	"github.com/sangkips/scanpay/internal/infrastructure/catalog"
	"github.com/sangkips/scanpay/internal/infrastructure/kvstore"
	"github.com/sangkips/scanpay/internal/infrastructure/repository"
	"github.com/sangkips/scanpay/internal/presentation/http/handler"
	"github.com/sangkips/scanpay/internal/presentation/http/middleware"
	"github.com/sangkips/scanpay/internal/presentation/http/routes"
	"github.com/sangkips/scanpay/pkg/logger"
	"github.com/sangkips/scanpay/pkg/printer"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	zapLogger, err := logger.New(logger.Options{
		Production: cfg.App.IsProduction(),
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := kvstore.Open(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to open receipt store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	receiptRepo := repository.NewReceiptRepository(store, cfg.Store.Key, zapLogger)
	defer receiptRepo.Close()

	catalogClient := catalog.NewClient(&cfg.Catalog, zapLogger)

	thermalPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		zapLogger.Warn("Failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	printerService := service.NewPrinterService(thermalPrinter, receiptRepo, service.PrinterOptions{
		Type:      cfg.Printer.Type,
		Width:     cfg.Printer.Width,
		StoreName: cfg.Printer.StoreName,
	}, zapLogger)
	scanService := service.NewScanService(catalogClient, zapLogger)
	paymentService := service.NewPaymentService(catalogClient, receiptRepo, zapLogger)
	if cfg.Printer.PrintOnPurchase {
		paymentService.WithPrinter(printerService)
	}
	historyService := service.NewHistoryService(receiptRepo, catalogClient, zapLogger)
	catalogService := service.NewCatalogService(catalogClient, zapLogger)

	handlers := &routes.Handlers{
		Catalog: handler.NewCatalogHandler(catalogService),
		Scan:    handler.NewScanHandler(scanService),
		Payment: handler.NewPaymentHandler(paymentService),
		History: handler.NewHistoryHandler(historyService),
		Printer: handler.NewPrinterHandler(printerService),
	}

	limiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfigFrom(cfg.RateLimit.Requests, cfg.RateLimit.Duration))
	defer limiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		Cfg:         cfg,
		Log:         zapLogger,
		RateLimiter: limiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// a payment waits for the catalog call plus the receipt write
		WriteTimeout: cfg.Catalog.Timeout + 30*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		zapLogger.Info("Starting storefront gateway",
			zap.String("app", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("catalog", cfg.Catalog.BaseURL),
			zap.String("store_driver", cfg.Store.Driver),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Error("Failed to start server", zap.Error(err))
			stop <- syscall.SIGTERM
		}
	}()

	<-stop
	zapLogger.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server shutdown error", zap.Error(err))
	}

	zapLogger.Info("Storefront gateway stopped")
}
