package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/shopledger/backend/src/config"
	"github.com/username/shopledger/backend/src/database"
	"github.com/username/shopledger/backend/src/handlers"
	"github.com/username/shopledger/backend/src/logger"
	"github.com/username/shopledger/backend/src/model"
	"github.com/username/shopledger/backend/src/processors"
	"github.com/username/shopledger/backend/src/security/validation"
	"github.com/username/shopledger/backend/src/services"
	"golang.org/x/time/rate"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Shop ledger backend starting...", "timezone", config.Cfg.Timezone)

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations()
	defer database.DB.Close()

	store := model.NewStore(database.DB)

	rateCache := cache.New(cache.NoExpiration, services.CacheCleanupInterval)
	reportCache := cache.New(config.Cfg.SummaryCacheTTL, services.CacheCleanupInterval)

	rateService := services.NewRateService(
		store,
		processors.MustRate(config.Cfg.DefaultUSDToIQD),
		rateCache,
		validation.NewRateBounds(config.Cfg.MinUSDToIQD, config.Cfg.MaxUSDToIQD),
	)

	profitProcessor := processors.NewProfitProcessor()
	debtProcessor := processors.NewDebtProcessor()

	financialService := services.NewFinancialService(
		store,
		rateService,
		profitProcessor,
		processors.NewSalesProcessor(profitProcessor),
		debtProcessor,
		processors.NewNetWorthProcessor(debtProcessor),
		reportCache,
		config.Cfg.Location,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler, err := services.StartRefreshScheduler(ctx, financialService, config.Cfg.BalanceRefreshInterval)
	if err != nil {
		stdlog.Fatalf("Failed to start refresh scheduler: %v", err)
	}
	defer scheduler.Stop()

	router := handlers.NewRouter(handlers.RouterDeps{
		Summary:        handlers.NewSummaryHandler(financialService),
		Sales:          handlers.NewSalesHandler(financialService, rateService),
		Settings:       handlers.NewSettingsHandler(rateService, financialService),
		Ledger:         handlers.NewLedgerHandler(financialService),
		Cash:           handlers.NewCashHandler(),
		Limiter:        rate.NewLimiter(rate.Limit(config.Cfg.RateLimitRPS), config.Cfg.RateLimitBurst),
		AllowedOrigins: config.Cfg.AllowedOrigins,
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.L.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("Server shutdown failed", "error", err)
		}
	}()

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
	logger.L.Info("Server stopped")
}
