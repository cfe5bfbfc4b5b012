package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sweetshop/inventory-system/internal/api/handler"
	"github.com/sweetshop/inventory-system/internal/api/middleware"
	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/service"
	storemongo "github.com/sweetshop/inventory-system/internal/infrastructure/db/mongo"
	storeredis "github.com/sweetshop/inventory-system/internal/infrastructure/db/redis"
)

// Options carries the configuration the router needs beyond its connections.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("sweetshop"))

	// --- Dependencies ---
	authRepo := storemongo.NewAuthRepository(db)
	authService := service.NewAuthService(authRepo, opts.JWTSecret, opts.TokenTTL)
	authHandler := handler.NewAuthHandler(authService)

	sweetRepo := storemongo.NewSweetRepository(db)
	categoryCache := storeredis.NewCategoryCache(rdb)
	sweetService := service.NewSweetService(sweetRepo, categoryCache, log)
	sweetHandler := handler.NewSweetHandler(sweetService)

	authGate := middleware.Auth(authService)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Inventory routes ---
	// Read and purchase operations are open to any authenticated identity;
	// catalog mutations and restocking are admin-only.
	sweets := e.Group("/api/sweets", authGate)
	sweets.GET("", sweetHandler.List)
	sweets.GET("/search", sweetHandler.Search)
	sweets.GET("/categories", sweetHandler.Categories)
	sweets.POST("/:id/purchase", sweetHandler.Purchase)
	sweets.POST("", sweetHandler.Create, adminOnly)
	sweets.PUT("/:id", sweetHandler.Update, adminOnly)
	sweets.DELETE("/:id", sweetHandler.Delete, adminOnly)
	sweets.POST("/:id/restock", sweetHandler.Restock, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
