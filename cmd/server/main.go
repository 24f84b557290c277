package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	orderapp "github.com/salesops/backend/internal/application/ordering"
	stockapp "github.com/salesops/backend/internal/application/procurement"
	"github.com/salesops/backend/internal/domain/shared"
	"github.com/salesops/backend/internal/infrastructure/cache"
	"github.com/salesops/backend/internal/infrastructure/config"
	"github.com/salesops/backend/internal/infrastructure/logger"
	"github.com/salesops/backend/internal/infrastructure/persistence"
	"github.com/salesops/backend/internal/interfaces/http/handler"
	"github.com/salesops/backend/internal/interfaces/http/middleware"
	"github.com/salesops/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SalesOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations completed")

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	purchaseRepo := persistence.NewGormStockPurchaseRepository(db.DB)

	// Initialize application services
	orderService := orderapp.NewOrderService(orderRepo)
	stockService := stockapp.NewStockService(purchaseRepo)

	// Wire idempotent payment submission when enabled
	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		if cfg.Redis.Enabled {
			factory := cache.NewIdempotencyStoreFactory(cfg.Redis,
				cache.WithLogger(log),
				cache.WithInMemoryFallback(cfg.App.Env != "production"),
			)
			idempotencyStore, err = factory.CreateStore()
			if err != nil {
				log.Fatal("Failed to create idempotency store", zap.Error(err))
			}
		} else {
			idempotencyStore = cache.NewInMemoryIdempotencyStore()
			log.Info("using in-memory idempotency store")
		}
		defer func() {
			if err := idempotencyStore.Close(); err != nil {
				log.Error("Error closing idempotency store", zap.Error(err))
			}
		}()

		idemConfig := shared.IdempotencyConfig{
			Enabled: true,
			TTL:     cfg.Idempotency.TTL,
		}
		orderService.SetIdempotencyStore(idempotencyStore, idemConfig)
		stockService.SetIdempotencyStore(idempotencyStore, idemConfig)
		log.Info("Idempotent payment submission enabled",
			zap.Duration("ttl", cfg.Idempotency.TTL),
		)
	}

	// Initialize handlers
	orderHandler := handler.NewOrderHandler(orderService)
	stockHandler := handler.NewStockHandler(stockService)
	systemHandler := handler.NewSystemHandler()

	// Setup gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Tenant context is mandatory for all versioned API routes
	tenantConfig := middleware.DefaultTenantConfig()
	tenantConfig.Logger = log
	r.Use(middleware.TenantMiddlewareWithConfig(tenantConfig))

	// Orders domain
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/stats/summary", orderHandler.GetStatusSummary)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.PATCH("/:id/status", orderHandler.UpdateStatus)
	orderRoutes.POST("/:id/payments", orderHandler.AddPayment)
	orderRoutes.POST("/:id/payment-failure", orderHandler.MarkPaymentFailed)
	orderRoutes.DELETE("/:id/payment-failure", orderHandler.ClearPaymentFailure)
	orderRoutes.DELETE("/:id", orderHandler.Delete)

	// Stocks domain
	stockRoutes := router.NewDomainGroup("stocks", "/stocks")
	stockRoutes.POST("", stockHandler.Create)
	stockRoutes.GET("", stockHandler.List)
	stockRoutes.GET("/stats/summary", stockHandler.GetStatusSummary)
	stockRoutes.GET("/:id", stockHandler.GetByID)
	stockRoutes.PATCH("/:id/status", stockHandler.UpdateStatus)
	stockRoutes.POST("/:id/payments", stockHandler.AddPayment)
	stockRoutes.POST("/:id/payment-failure", stockHandler.MarkPaymentFailed)
	stockRoutes.DELETE("/:id/payment-failure", stockHandler.ClearPaymentFailure)
	stockRoutes.DELETE("/:id", stockHandler.Delete)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(orderRoutes).
		Register(stockRoutes).
		Register(systemRoutes)

	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
