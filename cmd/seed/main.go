// Seed tool: loads sample catalog data and prints a development token.
// Not for production use.
package main

import (
	"context"
	"fmt"
	"os"

	appctx "larder/internal/core/context"
	"larder/internal/core/id"
	"larder/internal/domain/auth"
	"larder/internal/domain/catalog/item"
	"larder/internal/domain/settings"
	"larder/internal/infrastructure/config"
	"larder/internal/infrastructure/storage/postgres"
	"larder/pkg/logger"
)

var sampleItems = []item.CreateInput{
	{Name: "Tomatoes", Unit: "kg", Category: "Vegetables"},
	{Name: "Onions", Unit: "kg", Category: "Vegetables"},
	{Name: "Potatoes", Unit: "kg", Category: "Vegetables"},
	{Name: "Chicken breast", Unit: "kg", Category: "Meat"},
	{Name: "Ground beef", Unit: "kg", Category: "Meat"},
	{Name: "Milk", Unit: "l", Category: "Dairy"},
	{Name: "Butter", Unit: "kg", Category: "Dairy"},
	{Name: "Flour", Unit: "kg", Category: "Dry goods"},
	{Name: "Rice", Unit: "kg", Category: "Dry goods"},
	{Name: "Sunflower oil", Unit: "l", Category: "Dry goods"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.DSN))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	items := item.NewService(postgres.NewItemRepo(txm), txm)
	settingsSvc := settings.NewService(postgres.NewSettingsRepo(txm))

	for _, in := range sampleItems {
		created, err := items.Create(ctx, in)
		if err != nil {
			// Re-running the seed is fine; existing items are kept.
			log.Infow("skipped", "name", in.Name, "reason", err.Error())
			continue
		}
		log.Infow("item seeded", "id", created.ID, "name", created.Name)
	}

	if _, err := settingsSvc.Set(ctx, settings.KeyLowStockPercent, "0.2"); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	if _, err := settingsSvc.Set(ctx, settings.KeyLowStockAbsolute, "10"); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.Auth.JWTSecret,
		Issuer:         cfg.Auth.Issuer,
		AccessTokenTTL: cfg.Auth.AccessTokenTTL,
	})
	token, expires, err := jwtSvc.GenerateAccessToken(id.New().String(), "Dev Lead", appctx.RoleLead)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	fmt.Printf("\nDevelopment token (lead, expires %s):\n%s\n", expires.Format("2006-01-02 15:04"), token)
	return nil
}
