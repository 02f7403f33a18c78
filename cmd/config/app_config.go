package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/m2-berezin/safedine-app/internal/api/handlers"
	"github.com/m2-berezin/safedine-app/internal/api/routes"
	"github.com/m2-berezin/safedine-app/internal/middleware"
	"github.com/m2-berezin/safedine-app/internal/utils"
	"github.com/m2-berezin/safedine-app/internal/utils/storage"
	"github.com/m2-berezin/safedine-app/pkg/cart"
	"github.com/m2-berezin/safedine-app/pkg/jwt"
	"github.com/m2-berezin/safedine-app/pkg/loyalty"
	"github.com/m2-berezin/safedine-app/pkg/menu"
	"github.com/m2-berezin/safedine-app/pkg/order"
	"github.com/m2-berezin/safedine-app/pkg/orderfeed"
	"github.com/m2-berezin/safedine-app/pkg/ordertoken"
	"github.com/m2-berezin/safedine-app/pkg/preferences"
	"github.com/m2-berezin/safedine-app/pkg/review"
	"github.com/m2-berezin/safedine-app/pkg/session"
	"github.com/m2-berezin/safedine-app/pkg/table"
	"github.com/m2-berezin/safedine-app/pkg/tracking"
	"github.com/m2-berezin/safedine-app/pkg/user"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Europe/London",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     utils.GetConfig("REDIS_ADDR"),
		Password: utils.GetConfig("REDIS_PASSWORD"),
	})
	// Session state mirrors what a browser would keep in localStorage, so
	// it never expires on its own.
	sessionStore := session.NewRedisStore(redisClient, 0)

	// Order change feed
	brokers := strings.Split(utils.GetConfig("KAFKA_BROKERS"), ",")
	hub := tracking.NewHub()
	var publisher orderfeed.Publisher = orderfeed.NopPublisher{}
	var reviewWriter *kafka.Writer
	if utils.GetConfig("KAFKA_BROKERS") != "" {
		orderWriter := &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    utils.GetConfig("KAFKA_ORDER_TOPIC"),
			Balancer: &kafka.LeastBytes{},
		}
		publisher = orderfeed.NewKafkaPublisher(orderWriter)

		reviewWriter = &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    utils.GetConfig("KAFKA_REVIEW_TOPIC"),
			Balancer: &kafka.LeastBytes{},
		}

		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   utils.GetConfig("KAFKA_ORDER_TOPIC"),
			GroupID: "safedine-tracking",
		})
		consumer := orderfeed.NewConsumer(reader, hub.Dispatch)
		go consumer.Start(context.Background())
	}

	amountCeiling, _ := strconv.ParseFloat(utils.GetConfig("ORDER_AMOUNT_CEILING"), 64)

	// Repository
	userRepository := user.NewUserRepository(db)
	menuRepository := menu.NewMenuRepository(db)
	orderRepository := order.NewOrderRepository(db)
	tableRepository := table.NewTableRepository(db)
	loyaltyRepository := loyalty.NewLoyaltyRepository(db)
	reviewRepository := review.NewReviewRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	preferenceService := preferences.NewPreferenceService(sessionStore, userService)
	menuService := menu.NewMenuService(menuRepository, s3, menu.DefaultFilterPolicy())
	cartService := cart.NewCartService(sessionStore)
	tokenService := ordertoken.NewTokenService(sessionStore)
	loyaltyService := loyalty.NewLoyaltyService(loyaltyRepository)
	orderService := order.NewOrderService(
		orderRepository,
		cartService,
		tokenService,
		publisher,
		loyaltyService,
		userService,
		amountCeiling,
	)
	tableService := table.NewTableService(tableRepository, sessionStore, utils.GetConfig("APP_URL"))
	reviewService := review.NewReviewService(
		reviewRepository,
		orderService,
		review.NewRedisDedupe(redisClient, 0),
		reviewWriter,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService, validator)
	menuHandler := handlers.NewMenuHandler(menuService, preferenceService, validator)
	cartHandler := handlers.NewCartHandler(cartService, validator)
	orderHandler := handlers.NewOrderHandler(orderService, hub, validator)
	tableHandler := handlers.NewTableHandler(tableService, validator)
	loyaltyHandler := handlers.NewLoyaltyHandler(loyaltyService, validator)
	reviewHandler := handlers.NewReviewHandler(reviewService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		PreferenceHandler: preferenceHandler,
		MenuHandler:       menuHandler,
		CartHandler:       cartHandler,
		OrderHandler:      orderHandler,
		TableHandler:      tableHandler,
		LoyaltyHandler:    loyaltyHandler,
		ReviewHandler:     reviewHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
