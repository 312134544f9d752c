package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"petmarket/internal/cache"
	"petmarket/internal/config"
	"petmarket/internal/db"
	"petmarket/internal/events"
	"petmarket/internal/httpserver"
	"petmarket/internal/relay"
	cartrepo "petmarket/internal/repository/cart"
	categoryrepo "petmarket/internal/repository/category"
	chatrepo "petmarket/internal/repository/chat"
	couponrepo "petmarket/internal/repository/coupon"
	orderrepo "petmarket/internal/repository/order"
	petrepo "petmarket/internal/repository/pet"
	tokenrepo "petmarket/internal/repository/token"
	userrepo "petmarket/internal/repository/user"
	accountsvc "petmarket/internal/service/account"
	cartsvc "petmarket/internal/service/cart"
	catalogsvc "petmarket/internal/service/catalog"
	chatsvc "petmarket/internal/service/chat"
	couponsvc "petmarket/internal/service/coupon"
	ordersvc "petmarket/internal/service/order"
	petsvc "petmarket/internal/service/pet"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	publisher := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
	defer publisher.Close()

	categoryRepo := categoryrepo.NewPostgres(dbpool)
	petRepo := petrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	couponRepo := couponrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	chatRepo := chatrepo.NewPostgres(dbpool)

	catalogService := catalogsvc.New(categoryRepo)
	petService := petsvc.New(petRepo, catalogService)
	couponService := couponsvc.New(couponRepo)
	cartService := cartsvc.New(cartRepo, petRepo, couponService, cache.NewRedisCache(redisClient), cfg.Pricing, logger)
	orderService := ordersvc.New(orderRepo, cartService, publisher, logger)
	accountService := accountsvc.New(userRepo, tokenRepo)
	chatService := chatsvc.New(chatRepo, userRepo, relay.NewRedis(redisClient, logger))

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AccountSvc: accountService,
		CatalogSvc: catalogService,
		PetSvc:     petService,
		CartSvc:    cartService,
		CouponSvc:  couponService,
		OrderSvc:   orderService,
		ChatSvc:    chatService,
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
