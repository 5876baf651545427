package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"foodies-backend/internal/auth"
	"foodies-backend/internal/config"
	httpctrl "foodies-backend/internal/controllers/http"
	"foodies-backend/internal/infra"
	mmysql "foodies-backend/internal/infra/mysql"
	"foodies-backend/internal/infra/rabbitmq"
	mysqlrepo "foodies-backend/internal/repository/mysql"
	"foodies-backend/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := mmysql.NewMySQL(cfg)
	if err != nil {
		logger.Fatal("db: connect", zap.Error(err))
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	orderRepo := mysqlrepo.NewOrderRepository(db)
	cartRepo := mysqlrepo.NewCartRepository(db)
	userRepo := mysqlrepo.NewUserRepository(db)

	paystack := infra.NewPaystackClient(cfg.PaystackBaseURL, cfg.PaystackSecretKey, cfg.GatewayTimeout)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.OrderExchange)
	if err != nil {
		logger.Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		PoolSize:     100,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	tokens := auth.NewTokenManager(cfg.JWTSecretKey)

	orderService := services.NewOrderService(orderRepo, cartRepo, paystack, publisher, logger)
	cartService := services.NewCartService(cartRepo, logger)
	userService := services.NewUserService(userRepo, tokens, logger)
	userService.SetRedisClient(redisClient)

	handler := httpctrl.NewHandler(orderService, cartService, userService, redisClient, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	handler.RegisterRoutes(r, auth.Middleware(tokens, userService, logger))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting foodies backend", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server run", zap.Error(err))
	}
	logger.Info("server stopped")
}
