package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bilal-alaabadi/arkan-b/config"
	"github.com/bilal-alaabadi/arkan-b/controllers"
	"github.com/bilal-alaabadi/arkan-b/database"
	"github.com/bilal-alaabadi/arkan-b/logger"
	"github.com/bilal-alaabadi/arkan-b/providers"
	"github.com/bilal-alaabadi/arkan-b/repository"
	"github.com/bilal-alaabadi/arkan-b/routes"
	"github.com/bilal-alaabadi/arkan-b/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	if err := database.Connect(cfg.MongoURI, cfg.MongoDatabase); err != nil {
		logger.Log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Close()

	orderRepo := repository.NewMongoOrderRepository(database.DB)
	productRepo := repository.NewMongoProductRepository(database.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		logger.Log.Fatal("Failed to ensure order indexes", zap.Error(err))
	}
	cancel()

	var pending repository.PendingOrderStore
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		pending = repository.NewRedisPendingStore(redisClient, cfg.PendingOrderTTL)
		logger.Log.Info("Using Redis pending-order store")
	} else {
		memStore := repository.NewMemoryPendingStore(cfg.PendingOrderTTL, time.Minute)
		defer memStore.Close()
		pending = memStore
		logger.Log.Info("Using in-memory pending-order store")
	}

	provider := providers.NewThawaniProvider(
		cfg.ThawaniAPIKey,
		cfg.ThawaniPublishKey,
		cfg.ThawaniAPIURL,
		cfg.ThawaniCheckoutURL,
	)

	var events services.OrderEventPublisher
	if cfg.OrderEventsTopicARN != "" {
		snsEvents, err := services.NewSNSOrderEvents(context.Background(), cfg.OrderEventsTopicARN)
		if err != nil {
			logger.Log.Warn("Order events disabled", zap.Error(err))
		} else {
			events = snsEvents
		}
	}

	pricer := services.NewPricer(cfg.PairDiscountCategories)
	checkoutSvc := services.NewCheckoutService(pricer, provider, pending, cfg.FrontendURL, logger.Log)
	confirmationSvc := services.NewConfirmationService(provider, pending, orderRepo, productRepo, pricer, events, logger.Log)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	oc := &controllers.OrderController{
		Checkout:     checkoutSvc,
		Confirmation: confirmationSvc,
		Orders:       orderRepo,
		Logger:       logger.Log,
	}
	routes.RegisterOrderRoutes(r, oc)

	logger.Log.Info("Server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed", zap.Error(err))
	}
}
