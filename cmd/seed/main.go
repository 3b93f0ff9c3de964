// Package main provides a CLI tool for seeding the database with an
// admin account and optional demo data.
package main

import (
	"context"
	"fmt"
	"os"

	"pricecraft/internal/core/apperror"
	"pricecraft/internal/core/types"
	"pricecraft/internal/domain/auth"
	"pricecraft/internal/domain/catalogs/material"
	"pricecraft/internal/domain/pricing"
	"pricecraft/internal/domain/products"
	"pricecraft/internal/infrastructure/storage/postgres"
	"pricecraft/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := os.Getenv("APP_POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("APP_POSTGRES_DSN environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding complete")
}

func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	repo := postgres.NewUserRepo(txManager)

	email := envOr("ADMIN_EMAIL", "admin@example.com")
	password := envOr("ADMIN_PASSWORD", "changeme-now")

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		log.Infow("admin user already exists", "email", email)
		return nil
	}

	admin, err := auth.NewUser(email, "Administrator", password, auth.RoleAdmin)
	if err != nil {
		return err
	}
	if err := repo.Create(ctx, admin); err != nil {
		return err
	}

	log.Infow("admin user created", "email", email, "id", admin.ID)
	return nil
}

func seedDemoData(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	materialService := material.NewService(postgres.NewMaterialRepo(txManager))
	productService := products.NewService(
		postgres.NewProductRepo(txManager),
		materialService,
		txManager,
		nil,
	)

	clay := material.NewMaterial("Stoneware clay", "kg", types.MustMoney("4.50"))
	clay.StockLevel = types.MustMoney("120")
	clay.MinStockLevel = types.MustMoney("20")

	glaze := material.NewMaterial("Clear glaze", "ml", types.MustMoney("0.08"))
	glaze.StockLevel = types.MustMoney("5000")
	glaze.MinStockLevel = types.MustMoney("500")

	for _, m := range []*material.Material{clay, glaze} {
		if err := materialService.Create(ctx, m); err != nil {
			if apperror.IsValidation(err) {
				return err
			}
			log.Warnw("material not seeded", "name", m.Name, "error", err)
			continue
		}
		log.Infow("material seeded", "name", m.Name, "id", m.ID)
	}

	mug := products.NewProduct("Ceramic mug")
	sku := "MUG-001"
	mug.SKU = &sku
	mug.BatchSize = 8
	mug.Method = pricing.MethodMarkup
	mug.Value = types.MustMoney("60")
	mug.Materials = []products.MaterialLine{
		{Name: clay.Name, Unit: "kg", Quantity: types.MustMoney("0.4"), PricePerUnit: clay.PricePerUnit, UnitsMade: 1, MaterialID: &clay.ID},
		{Name: glaze.Name, Unit: "ml", Quantity: types.MustMoney("30"), PricePerUnit: glaze.PricePerUnit, UnitsMade: 1, MaterialID: &glaze.ID},
	}
	mug.Labor = []products.LaborLine{
		{Activity: "Throwing", TimeSpentMinutes: types.MustMoney("15"), HourlyRate: types.MustMoney("28"), PerUnit: true},
		{Activity: "Kiln firing", TimeSpentMinutes: types.MustMoney("45"), HourlyRate: types.MustMoney("28")},
	}
	mug.OtherCosts = []products.OtherCostLine{
		{Item: "Packaging box", Quantity: types.MustMoney("1"), Cost: types.MustMoney("0.60"), PerUnit: true},
	}

	if err := productService.Create(ctx, mug); err != nil {
		log.Warnw("product not seeded", "name", mug.Name, "error", err)
		return nil
	}

	log.Infow("product seeded", "name", mug.Name, "id", mug.ID, "cost", mug.ProductCost, "price", mug.ResultingPrice)
	return nil
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
