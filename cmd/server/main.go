package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AhmedAmineBejaoui/E-commerce/internal/config"
	httpctl "github.com/AhmedAmineBejaoui/E-commerce/internal/controllers/http"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra/cache"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra/database"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra/kafka"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra/rabbitmq"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/infra/session"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/logger"
	mysqlrepo "github.com/AhmedAmineBejaoui/E-commerce/internal/repository/mysql"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/seed"
	"github.com/AhmedAmineBejaoui/E-commerce/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redisv8 "github.com/go-redis/redis/v8"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db: connect")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("db: migrate")
	}

	store := mysqlrepo.NewStore(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Seed {
		if _, err := seed.Run(ctx, store); err != nil {
			log.Fatal().Err(err).Msg("db: seed")
		}
	}

	sessionClient := redisv8.NewClient(&redisv8.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: 5,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer sessionClient.Close()

	cacheClient := redisv9.NewClient(&redisv9.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	defer cacheClient.Close()

	publisher, err := newPublisher(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("bus", cfg.EventBus).Msg("failed to init publisher")
	}

	productCache := cache.NewRedisProductCache(cacheClient, cfg.CachePrefix, cfg.CacheTTL)
	sessions := session.NewRedisStore(sessionClient, cfg.SessionTTL)

	users := services.NewUserService(store.Users())
	catalog := services.NewCatalogService(store, productCache)
	carts := services.NewCartService(store)
	orders := services.NewOrderService(store, publisher)
	orders.SetProductCache(productCache)

	go func() {
		if err := catalog.WarmupCache(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to warm up cache")
			return
		}
		log.Info().Msg("cache warmed up")
	}()

	handler := httpctl.NewHandler(users, catalog, carts, orders, sessions, httpctl.CookieConfig{
		Name:   cfg.SessionCookie,
		Secure: cfg.SessionSecure,
	})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpctl.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.ServerPort).Msg("starting storefront server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return publisher.Close()
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
	log.Info().Msg("server stopped")
}

func newPublisher(cfg *config.Config) (infra.EventPublisher, error) {
	switch cfg.EventBus {
	case "rabbitmq":
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "kafka":
		p, err := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return infra.NopPublisher{}, nil
	}
}
