package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	marketingapp "github.com/reuseday/backend/internal/application/marketing"
	notificationapp "github.com/reuseday/backend/internal/application/notification"
	orderapp "github.com/reuseday/backend/internal/application/order"
	"github.com/reuseday/backend/internal/infrastructure/auth"
	"github.com/reuseday/backend/internal/infrastructure/cache"
	"github.com/reuseday/backend/internal/infrastructure/config"
	"github.com/reuseday/backend/internal/infrastructure/event"
	"github.com/reuseday/backend/internal/infrastructure/logger"
	"github.com/reuseday/backend/internal/infrastructure/persistence"
	"github.com/reuseday/backend/internal/interfaces/http/handler"
	"github.com/reuseday/backend/internal/interfaces/http/middleware"
	"github.com/reuseday/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ReuseDay backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	discountRepo := persistence.NewGormDiscountCodeRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Initialize application services
	orderService := orderapp.NewService(orderRepo, userRepo)
	discountService := marketingapp.NewDiscountService(discountRepo)
	notificationService := notificationapp.NewService(notificationRepo)

	// Discount validation cache: Redis when enabled, in-process otherwise
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisCache, err := cache.NewRedisDiscountCache(redisClient, cfg.Cache.DiscountTTL, log)
		if err != nil {
			log.Warn("Redis unavailable, falling back to in-memory discount cache", zap.Error(err))
			discountService.SetCache(cache.NewInMemoryDiscountCache(cfg.Cache.DiscountTTL))
		} else {
			discountService.SetCache(redisCache)
			log.Info("Redis discount cache enabled", zap.String("addr", cfg.Redis.Addr()))
		}
	} else {
		discountService.SetCache(cache.NewInMemoryDiscountCache(cfg.Cache.DiscountTTL))
	}

	// Initialize event bus and subscribe the notification fan-out handler
	eventBus := event.NewInMemoryEventBus(log)
	orderEventHandler := notificationapp.NewOrderEventHandler(notificationRepo, userRepo, log)
	eventBus.Subscribe(orderEventHandler)
	log.Info("Event handlers registered",
		zap.Strings("order_events", orderEventHandler.EventTypes()),
	)

	orderService.SetEventPublisher(eventBus)

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService)
	discountHandler := handler.NewDiscountHandler(discountService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := router.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/discounts/validate",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	r.Register(router.RegistrarFunc(func(rg *gin.RouterGroup) {
		rg.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		orders := rg.Group("/orders")
		orders.POST("", orderHandler.Place)
		orders.GET("", orderHandler.List)
		orders.GET("/:id", orderHandler.GetByID)
		orders.POST("/:id/ship", orderHandler.MarkShipped)
		orders.POST("/:id/confirm", orderHandler.ConfirmReceipt)
		orders.POST("/:id/rate", orderHandler.Rate)

		discounts := rg.Group("/discounts")
		discounts.GET("/validate", discountHandler.Validate)

		notifications := rg.Group("/notifications")
		notifications.GET("", notificationHandler.List)
		notifications.GET("/unread-count", notificationHandler.UnreadCount)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
		notifications.POST("/read-all", notificationHandler.MarkAllRead)

		admin := rg.Group("/admin", middleware.RequireAdmin())
		admin.GET("/orders", orderHandler.ListAll)
		admin.GET("/discounts", discountHandler.List)
		admin.POST("/discounts", discountHandler.Create)
		admin.PUT("/discounts/:id", discountHandler.Update)
		admin.DELETE("/discounts/:id", discountHandler.Delete)
	}))

	r.Setup()

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
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
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
