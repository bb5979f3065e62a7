// Larder API server.
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

	"github.com/gin-gonic/gin"

	"larder/internal/core/clock"
	"larder/internal/domain/auth"
	"larder/internal/domain/catalog/item"
	"larder/internal/domain/ledger"
	"larder/internal/domain/reports"
	"larder/internal/domain/settings"
	"larder/internal/infrastructure/cache"
	"larder/internal/infrastructure/config"
	v1 "larder/internal/infrastructure/http/v1"
	"larder/internal/infrastructure/http/v1/handlers"
	"larder/internal/infrastructure/storage/postgres"
	"larder/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := logger.WithLogger(context.Background(), log)

	gin.SetMode(cfg.Server.Mode)

	// Database
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.DSN)
	if cfg.DB.MaxConns > 0 {
		poolCfg.MaxConns = cfg.DB.MaxConns
	}
	if cfg.DB.MinConns > 0 {
		poolCfg.MinConns = cfg.DB.MinConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)

	// Business clock. The service date is the restaurant's date, not
	// the server's.
	loc := time.Local
	if cfg.Inventory.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Inventory.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", cfg.Inventory.Timezone, err)
		}
	}
	clk := clock.System(loc)

	// Day-view cache, optional.
	var dayCache *cache.DayViewCache
	if cfg.Cache.Enabled {
		dayCache, err = cache.New(ctx, cache.Config{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = dayCache.Close() }()
	}

	// Repositories
	itemRepo := postgres.NewItemRepo(txm)
	movementRepo := postgres.NewMovementRepo(txm)
	settingsRepo := postgres.NewSettingsRepo(txm)
	reportRepo := postgres.NewReportRepo(txm)

	// Services
	itemSvc := item.NewService(itemRepo, txm)
	settingsSvc := settings.NewService(settingsRepo)

	ledgerCfg := ledger.Config{
		BackdateWindowDays: cfg.Inventory.BackdateWindowDays,
		MaxLookbackDays:    cfg.Inventory.MaxLookbackDays,
	}
	var ledgerCache ledger.DayCache
	var reportsCache reports.DayViewCache
	if dayCache != nil {
		ledgerCache = dayCache
		reportsCache = dayCache
	}
	ledgerSvc := ledger.NewService(itemRepo, movementRepo, txm, clk, ledgerCache, ledgerCfg)
	reportsSvc := reports.NewService(itemRepo, movementRepo, reportRepo, ledgerSvc.RollForward(), settingsSvc, txm, clk, reportsCache)

	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.Auth.JWTSecret,
		Issuer:         cfg.Auth.Issuer,
		AccessTokenTTL: cfg.Auth.AccessTokenTTL,
	})

	router := v1.NewRouter(v1.RouterConfig{
		Logger:    log,
		Validator: jwtSvc,
		Health:    handlers.NewHealthHandler(pool),
		Items:     handlers.NewItemHandler(itemSvc),
		Movements: handlers.NewMovementHandler(ledgerSvc),
		Inventory: handlers.NewInventoryHandler(ledgerSvc, reportsSvc, clk),
		Reports:   handlers.NewReportsHandler(reportsSvc),
		Settings:  handlers.NewSettingsHandler(settingsSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		log.Infow("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Infow("server stopped")
	return nil
}
