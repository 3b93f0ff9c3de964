// Package main is the entry point for the pricecraft API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pricecraft/internal/config"
	"pricecraft/internal/domain/auth"
	"pricecraft/internal/domain/catalogs/material"
	"pricecraft/internal/domain/products"
	v1 "pricecraft/internal/infrastructure/http/v1"
	"pricecraft/internal/infrastructure/storage/postgres"
	"pricecraft/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load(os.Getenv("APP_CONFIG"))
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting pricecraft server")

	if cfg.Postgres.DSN == "" {
		log.Fatal("postgres.dsn is required (APP_POSTGRES_DSN)")
	}

	// --- Migrations ---
	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}
	log.Info("migrations applied")

	// --- Database pool ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Postgres.DSN)
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	if cfg.Postgres.MinConns > 0 {
		poolCfg.MinConns = cfg.Postgres.MinConns
	}
	if cfg.Postgres.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.Postgres.MaxConnLifetime
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Services ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	if cfg.JWT.AccessTokenTTL > 0 {
		jwtConfig.AccessTokenTTL = cfg.JWT.AccessTokenTTL
	}
	jwtService := auth.NewJWTService(jwtConfig)
	authService := auth.NewService(postgres.NewUserRepo(txManager), jwtService)

	materialService := material.NewService(postgres.NewMaterialRepo(txManager))

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	productService := products.NewService(
		postgres.NewProductRepo(txManager),
		materialService,
		txManager,
		auditService,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:            pool.Pool,
		Logger:          log,
		Version:         version,
		JWTValidator:    jwtService,
		AuthService:     authService,
		MaterialService: materialService,
		ProductService:  productService,
		AuditService:    auditService,
		MetricsEnabled:  cfg.Metrics.Enabled,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	go logPoolStatsLoop(ctx, pool, log)

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func logPoolStatsLoop(ctx context.Context, pool *postgres.Pool, log *logger.Logger) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			postgres.LogPoolStats(logger.WithLogger(ctx, log), pool.Pool)
		}
	}
}
