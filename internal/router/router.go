package router

import (
	"context"
	"time"

	"github.com/Pahari47/parkson-assignment/internal/config"
	"github.com/Pahari47/parkson-assignment/internal/handler"
	"github.com/Pahari47/parkson-assignment/internal/middleware"
	"github.com/Pahari47/parkson-assignment/internal/repository"
	"github.com/Pahari47/parkson-assignment/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil; rate limiting then falls back to in-process counters whose
// background cleanup stops when ctx is cancelled.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	settings, err := service.SettingsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(ctx, rdb, cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	detailRepo := repository.NewStockDetailRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, detailRepo, settings)
	transactionSvc := service.NewTransactionService(transactionRepo, detailRepo, productRepo, settings)
	inventorySvc := service.NewInventoryService(productRepo, transactionRepo, detailRepo, settings)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	transactionsH := handler.NewTransactionsHandler(transactionSvc)
	detailsH := handler.NewStockDetailsHandler(transactionSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Swagger UI (disabled in production)
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := r.Group("/api/auth", middleware.LoginRateLimiter(ctx, rdb))
	{
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	api := r.Group("/api", middleware.JWTAuth(cfg.JWTSecret))
	{
		products := api.Group("/products")
		{
			products.GET("", productsH.List)
			products.POST("", productsH.Create)
			products.GET("/:id", productsH.GetByID)
			products.PUT("/:id", productsH.Update)
			// ?hard=true is checked against the admin role inside the handler
			products.DELETE("/:id", productsH.Delete)
			products.PATCH("/:id/reactivate", productsH.Reactivate)
			products.PUT("/:id/threshold", productsH.SetThreshold)
			products.GET("/:id/stock-movements", productsH.StockMovements)
		}

		transactions := api.Group("/transactions")
		{
			transactions.GET("", transactionsH.List)
			transactions.POST("", transactionsH.Create)
			transactions.GET("/:id", transactionsH.GetByID)
			transactions.PUT("/:id", transactionsH.Update)
			transactions.DELETE("/:id", middleware.RequireRole(service.RoleAdmin), transactionsH.Delete)
			transactions.GET("/:id/details", transactionsH.Details)
		}

		details := api.Group("/stock-details")
		{
			details.GET("", detailsH.List)
			details.POST("", detailsH.Create)
			details.GET("/:id", detailsH.GetByID)
			details.PUT("/:id", detailsH.Update)
		}

		api.GET("/inventory-summary", inventoryH.Summary)
		api.GET("/dashboard-stats", inventoryH.Dashboard)
	}

	return r, nil
}
