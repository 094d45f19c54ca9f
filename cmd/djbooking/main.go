package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dj-booking/internal/bot"
	"dj-booking/internal/config"
	"dj-booking/internal/httpapi"
	"dj-booking/internal/metrics"
	"dj-booking/internal/pricing"
	"dj-booking/internal/storage"
	"dj-booking/pkg/logger"
	"dj-booking/pkg/payment"
	"dj-booking/pkg/redis"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// ENTRY POINT

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	redisClient := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.StateTTL)
	defer redisClient.Close()

	if err := redisClient.Ping(ctx); err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	pgStorage, err := storage.NewPostgresStorage(ctx, storage.Config{
		Database:   cfg.Database,
		ReportsDir: cfg.Reports.Dir,
	}, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to init PostgreSQL storage", zap.Error(err))
	}
	defer pgStorage.Close()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrateCommand(ctx, os.Args[2:], pgStorage, zapLogger); err != nil {
			zapLogger.Fatal("Migration command failed", zap.Error(err))
		}
		return
	}

	if err := storage.RunMigrations(ctx, pgStorage.DB().DB, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	calc, err := newCalculator(ctx, cfg, pgStorage, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to build rate table", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	paymentClient := payment.NewClient(cfg.Payment.IntentURL, cfg.Payment.APIKey, cfg.Payment.Timeout, zapLogger)
	if !paymentClient.Enabled() {
		zapLogger.Warn("Payment intent URL not configured, deposit endpoint disabled")
	}

	server := httpapi.NewServer(calc, pgStorage, paymentClient, appMetrics, registry, httpapi.Options{
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		QuoteRateLimit:    cfg.HTTP.QuoteRateLimit,
		QuoteRateWindow:   cfg.HTTP.QuoteRateWindow,
		Currency:          cfg.Payment.Currency,
		AdminToken:        cfg.Admin.APIToken,
		TrustProxyHeaders: cfg.HTTP.TrustProxy,
	}, zapLogger)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTP.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 2)

	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.Telegram.Token != "" {
		tgBot, err := bot.New(
			cfg.Telegram.Token,
			bot.NewStateStorage(redisClient),
			pgStorage,
			calc,
			appMetrics,
			bot.Options{
				AdminIDs:  cfg.Admin.IDs,
				ChannelID: cfg.Admin.ChannelID,
				Debug:     cfg.Telegram.Debug,
			},
			zapLogger,
		)
		if err != nil {
			zapLogger.Fatal("Failed to create bot", zap.Error(err))
		}

		go func() {
			if err := tgBot.Start(ctx); err != nil {
				errCh <- fmt.Errorf("bot: %w", err)
			}
		}()
	} else {
		zapLogger.Info("Telegram token not set, bot disabled")
	}

	select {
	case <-ctx.Done():
		zapLogger.Info("Shutdown signal received")
	case err := <-errCh:
		zapLogger.Error("Service stopped with error", zap.Error(err))
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Service shutdown gracefully")
}

func newCalculator(ctx context.Context, cfg *config.Config, store *storage.PostgresStorage, logger *zap.Logger) (*pricing.Calculator, error) {
	stored, err := store.LoadPackagePrices(ctx)
	if err != nil {
		logger.Warn("Failed to load package prices, using defaults", zap.Error(err))
		stored = nil
	}

	table, err := cfg.RateTable(stored)
	if err != nil {
		return nil, err
	}

	logger.Info("Rate table loaded",
		zap.Int("packages", len(table.Packages())),
		zap.Int64("base_fee", table.Rates().BaseFee))
	return pricing.NewCalculator(table), nil
}

func runMigrateCommand(ctx context.Context, args []string, store *storage.PostgresStorage, logger *zap.Logger) error {
	action := "up"
	if len(args) > 0 {
		action = args[0]
	}

	db := store.DB().DB
	switch action {
	case "up":
		return storage.RunMigrations(ctx, db, logger)
	case "down":
		return storage.RollbackMigration(ctx, db, logger)
	case "status":
		return storage.Status(ctx, db, logger)
	default:
		return fmt.Errorf("unknown migrate action %q (want up, down or status)", action)
	}
}
