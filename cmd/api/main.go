package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ecomarket/marketplace-service/config"
	"github.com/ecomarket/marketplace-service/internal/auth"
	"github.com/ecomarket/marketplace-service/internal/listener"
	"github.com/ecomarket/marketplace-service/internal/pkg/broker"
	"github.com/ecomarket/marketplace-service/internal/pkg/cache"
	"github.com/ecomarket/marketplace-service/internal/pkg/database"
	"github.com/ecomarket/marketplace-service/internal/pkg/logger"
	"github.com/ecomarket/marketplace-service/internal/pkg/search"
	"github.com/ecomarket/marketplace-service/internal/stock"

	fbH "github.com/ecomarket/marketplace-service/internal/feedback/handler"
	fbRepoPkg "github.com/ecomarket/marketplace-service/internal/feedback/repository"
	fbUCPkg "github.com/ecomarket/marketplace-service/internal/feedback/usecase"

	prodH "github.com/ecomarket/marketplace-service/internal/product/handler"
	prodRepoPkg "github.com/ecomarket/marketplace-service/internal/product/repository"
	prodUCPkg "github.com/ecomarket/marketplace-service/internal/product/usecase"

	purH "github.com/ecomarket/marketplace-service/internal/purchase/handler"
	purRepoPkg "github.com/ecomarket/marketplace-service/internal/purchase/repository"
	purUCPkg "github.com/ecomarket/marketplace-service/internal/purchase/usecase"

	wishH "github.com/ecomarket/marketplace-service/internal/wishlist/handler"
	wishRepoPkg "github.com/ecomarket/marketplace-service/internal/wishlist/repository"
	wishUCPkg "github.com/ecomarket/marketplace-service/internal/wishlist/usecase"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	logConfig := &logger.Config{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     false,
		DisableStacktrace: false,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		// Search degrades to DB queries when ES is down.
		appLogger.Warn("Could not connect to Elasticsearch", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	ledger := stock.NewLedger()

	prodRepo := prodRepoPkg.NewPGRepository(db)
	purRepo := purRepoPkg.NewPGRepository(db, ledger)
	fbRepo := fbRepoPkg.NewPGRepository(db)
	wishRepo := wishRepoPkg.NewPGRepository(db)

	prodUC := prodUCPkg.NewProductUseCase(prodRepo, redisClient, esClient, appLogger)
	purUC := purUCPkg.NewPurchaseUseCase(purRepo, prodRepo, redisClient, appLogger)
	fbUC := fbUCPkg.NewFeedbackUseCase(fbRepo, prodRepo, appLogger)
	wishUC := wishUCPkg.NewWishlistUseCase(wishRepo, prodRepo, appLogger)

	restockListener := listener.NewRestockListener(kafkaConsumer, db, ledger, redisClient, appLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go restockListener.Start(ctx)

	prodHandler := prodH.NewProductHandler(prodUC, appLogger)
	purHandler := purH.NewPurchaseHandler(purUC, appLogger)
	fbHandler := fbH.NewFeedbackHandler(fbUC, appLogger)
	wishHandler := wishH.NewWishlistHandler(wishUC, appLogger)

	if cfg.Server.AppEnv != "dev" && cfg.Server.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.GET("/healthcheck", func(c *gin.Context) { c.Status(http.StatusOK) })

	api.GET("/products", prodHandler.List)
	api.GET("/products/:id", prodHandler.Get)
	api.GET("/products/:id/reviews", fbHandler.ListProductReviews)
	api.GET("/products/:id/feedback", fbHandler.ProductSummary)

	authed := api.Group("")
	authed.Use(auth.RequireUser)
	{
		authed.POST("/products", prodHandler.Create)
		authed.PATCH("/products/:id", prodHandler.Update)
		authed.DELETE("/products/:id", prodHandler.Delete)

		authed.POST("/products/:id/purchase", purHandler.Purchase)
		authed.POST("/products/:id/reviews", fbHandler.CreateReview)
		authed.POST("/products/:id/ratings", fbHandler.CreateRating)
		authed.POST("/products/:id/wishlist", wishHandler.Add)

		authed.PUT("/reviews/:id", fbHandler.UpdateReview)
		authed.DELETE("/reviews/:id", fbHandler.DeleteReview)
		authed.PUT("/ratings/:id", fbHandler.UpdateRating)
		authed.DELETE("/ratings/:id", fbHandler.DeleteRating)

		authed.GET("/me/products", prodHandler.ListMine)
		authed.GET("/me/purchases", purHandler.ListMine)
		authed.GET("/me/reviews", fbHandler.ListMyReviews)
		authed.GET("/me/ratings", fbHandler.ListMyRatings)
		authed.GET("/me/wishlist", wishHandler.ListMine)
		authed.DELETE("/me/wishlist/:id", wishHandler.Remove)
	}

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	appLogger.Info("Starting HTTP server", zap.String("port", port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("forced shutdown", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
