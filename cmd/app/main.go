package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/zvrva/staybook/api"
	"github.com/zvrva/staybook/config"
	"github.com/zvrva/staybook/internal/ai"
	"github.com/zvrva/staybook/internal/bootstrap"
	"github.com/zvrva/staybook/internal/cache"
	"github.com/zvrva/staybook/internal/kafka"
	"github.com/zvrva/staybook/internal/media"
	"github.com/zvrva/staybook/internal/payments"
	"github.com/zvrva/staybook/internal/repository"
	"github.com/zvrva/staybook/internal/service/booking"
	"github.com/zvrva/staybook/internal/service/hotels"
	"github.com/zvrva/staybook/internal/service/payment"
	"github.com/zvrva/staybook/internal/service/users"
)

func main() {
	godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Rooms.CacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	hotelRepo := repository.NewHotelRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	gateway := payments.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	uploader := media.NewCloudinaryUploader(cfg.Media)
	aiClient := ai.NewClient(cfg.AI)

	bookingService := booking.NewBookingService(
		bookingRepo,
		hotelRepo,
		userRepo,
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	paymentService := payment.NewPaymentService(
		bookingRepo,
		hotelRepo,
		userRepo,
		gateway,
		producer,
		cfg.Stripe.Currency,
		payment.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	hotelService := hotels.NewHotelService(hotelRepo, roomRepo, userRepo, uploader, redisCache)
	userService := users.NewUserService(userRepo)

	handlers := bootstrap.Handlers{
		Bookings: api.NewBookingHandler(bookingService, paymentService),
		Hotels:   api.NewHotelHandler(hotelService),
		Rooms:    api.NewRoomHandler(hotelService),
		Users:    api.NewUserHandler(userService),
		AI:       api.NewAIHandler(aiClient),
		Webhooks: api.NewWebhookHandler(paymentService),

		Auth:      api.Auth([]byte(cfg.Auth.JWTSecret), userRepo),
		OwnerOnly: api.OwnerOnly(),
		RateLimit: api.RateLimit(cfg.AI.RatePerMinute),
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
