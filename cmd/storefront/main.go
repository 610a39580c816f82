package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/navafv/familyplus/internal/clients"
	"github.com/navafv/familyplus/internal/config"
	"github.com/navafv/familyplus/internal/events"
	"github.com/navafv/familyplus/internal/handlers"
	"github.com/navafv/familyplus/internal/middleware"
	"github.com/navafv/familyplus/internal/repository"
	"github.com/navafv/familyplus/internal/services"
)

const version = "1.0.0"

// @title FamilyPlus Storefront API
// @version 1.0
// @description Catalog, cart, checkout and order confirmation for the FamilyPlus store

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)

	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := repository.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient := initRedis(cfg)

	orderRepo := repository.NewOrderRepository(db, redisClient)
	catalogRepo := repository.NewCatalogRepository(db)
	cartRepo := repository.NewCartRepository(db)
	contactRepo := repository.NewContactRepository(db)

	notificationClient := clients.NewNotificationClient(cfg.Notification.BaseURL, cfg.Notification.Timeout)
	log.Println("Notification client initialized for order emails")

	// Events are optional; the storefront keeps working without NATS
	var (
		eventsPublisher *events.Publisher
		orderEvents     services.OrderEventPublisher
	)
	if cfg.NATS.Enabled {
		eventsPublisher, err = events.NewPublisher(cfg.NATS.URL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize NATS events publisher: %v (continuing without order events)", err)
		} else {
			orderEvents = eventsPublisher
			log.Println("✓ NATS events publisher initialized")
		}
	}

	orderService := services.NewOrderService(
		orderRepo,
		services.NewOrderNumberGenerator(services.SystemClock{}),
		notificationClient,
		orderEvents,
		services.OrderSettings{
			StoreName:     cfg.Store.Name,
			ShippingFee:   cfg.Store.ShippingFee,
			PaymentMethod: cfg.Store.PaymentMethod,
			PaymentStatus: cfg.Store.PaymentStatus,
			PublicURL:     cfg.Store.PublicURL,
		},
		logger,
	)
	catalogService := services.NewCatalogService(catalogRepo, cartRepo, orderRepo, services.CatalogSettings{
		PageSize:          cfg.Store.PageSize,
		PageWindow:        cfg.Store.PageWindow,
		HomeProductLimit:  cfg.Store.HomeProductLimit,
		HomeCategoryLimit: cfg.Store.HomeCategoryLimit,
	})
	cartService := services.NewCartService(cartRepo, catalogRepo, cfg.Store.ShippingFee)
	reviewService := services.NewReviewService(catalogRepo)
	contactService := services.NewContactService(contactRepo)
	receiptService := services.NewReceiptService(orderRepo, cfg.Store.Name)

	readiness := map[string]handlers.ReadinessCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if redisClient != nil {
		readiness["redis"] = orderRepo.RedisHealth
	}

	router := setupRouter(cfg, routes{
		health:  handlers.NewHealthHandler(version, readiness),
		catalog: handlers.NewCatalogHandler(catalogService),
		cart:    handlers.NewCartHandler(cartService),
		orders:  handlers.NewOrderHandler(orderService, receiptService),
		reviews: handlers.NewReviewHandler(reviewService),
		contact: handlers.NewContactHandler(contactService),
	})

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting Storefront Service on %s", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down Storefront Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	if eventsPublisher != nil {
		eventsPublisher.Close()
		log.Println("✓ Events publisher closed")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("Storefront service stopped")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	return db, nil
}

// initRedis connects the optional order cache. Failures disable caching.
func initRedis(cfg *config.Config) *redis.Client {
	if cfg.Redis.URL == "" {
		log.Println("REDIS_URL not configured, caching disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Printf("Warning: Failed to parse Redis URL: %v", err)
		log.Println("Continuing without Redis caching...")
		return nil
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		log.Println("Continuing without Redis caching...")
		_ = client.Close()
		return nil
	}

	log.Println("✓ Connected to Redis for caching")
	return client
}

type routes struct {
	health  *handlers.HealthHandler
	catalog *handlers.CatalogHandler
	cart    *handlers.CartHandler
	orders  *handlers.OrderHandler
	reviews *handlers.ReviewHandler
	contact *handlers.ContactHandler
}

// setupRouter configures the Gin router with middleware and routes
func setupRouter(cfg *config.Config, h routes) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.Prometheus())

	router.GET("/health", h.health.HealthCheck)
	router.GET("/ready", h.health.ReadyCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	api.Use(middleware.Identity())
	{
		api.GET("/home", h.catalog.Home)

		store := api.Group("/store")
		{
			store.GET("", h.catalog.ListProducts)
			store.GET("/search", h.catalog.Search)
			store.GET("/category/:categorySlug", h.catalog.ListProducts)
			store.GET("/category/:categorySlug/:productSlug", h.catalog.GetProduct)
			store.POST("/products/:id/reviews", middleware.RequireUserID(), h.reviews.SubmitReview)
		}

		cart := api.Group("/cart")
		{
			cart.GET("", h.cart.GetCart)
			cart.POST("/items", h.cart.AddItem)
			cart.POST("/items/:id/decrement", h.cart.DecrementItem)
			cart.DELETE("/items/:id", h.cart.RemoveItem)
		}

		orders := api.Group("/orders")
		{
			orders.GET("/order_complete", h.orders.OrderComplete)
			orders.GET("/:orderNumber/receipt", middleware.RequireUserID(), h.orders.DownloadReceipt)
			orders.POST("/place", middleware.RequireUserID(), h.orders.PlaceOrder)
			orders.POST("/payments", middleware.RequireUserID(), h.orders.RecordPayment)
		}

		api.POST("/contact", h.contact.SendMessage)
		api.POST("/newsletter", h.contact.Subscribe)
	}

	return router
}
