// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pricecraft/internal/domain/auth"
	"pricecraft/internal/domain/catalogs/material"
	"pricecraft/internal/domain/products"
	"pricecraft/internal/infrastructure/http/v1/handlers"
	"pricecraft/internal/infrastructure/http/v1/middleware"
	"pricecraft/internal/infrastructure/storage/postgres"
	"pricecraft/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool    *pgxpool.Pool
	Logger  *logger.Logger
	Version string

	JWTValidator middleware.JWTValidator

	AuthService     *auth.Service
	MaterialService *material.Service
	ProductService  *products.Service
	AuditService    *postgres.AuditService

	MetricsEnabled bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Order matters: recovery outermost, then trace before logging.
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	baseHandler := handlers.NewBaseHandler()

	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	apiV1 := router.Group("/api/v1")
	{
		// Auth: login public, account management behind the token.
		authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)
		publicAuth := apiV1.Group("/auth")
		protectedAuth := apiV1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		materialHandler := handlers.NewMaterialHandler(baseHandler, cfg.MaterialService)
		materialHandler.RegisterRoutes(protected.Group("/materials"))

		productHandler := handlers.NewProductHandler(baseHandler, cfg.ProductService, cfg.AuditService)
		productHandler.RegisterRoutes(protected.Group("/products"))

		exportHandler := handlers.NewExportHandler(baseHandler, cfg.ProductService)
		exportHandler.RegisterRoutes(protected.Group("/exports"))
	}

	return router
}
