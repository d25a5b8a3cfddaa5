package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/ricemandi/cart-service/api/controllers"
	"github.com/ricemandi/cart-service/api/routes"
	cartsvc "github.com/ricemandi/cart-service/internal/cart"
	checkoutsvc "github.com/ricemandi/cart-service/internal/checkout"
	"github.com/ricemandi/cart-service/internal/notifications"
	"github.com/ricemandi/cart-service/pkg/config"
	"github.com/ricemandi/cart-service/pkg/db"
	"github.com/ricemandi/cart-service/pkg/logger"
	"github.com/ricemandi/cart-service/pkg/metrics"
	"github.com/ricemandi/cart-service/pkg/migrate"
	"github.com/ricemandi/cart-service/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, pingers, closeStores, err := buildStore(cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cart store", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	notificationsService := notifications.NewService(logg)
	cartService, err := cartsvc.NewService(cartsvc.ServiceParams{
		Store:   store,
		Policy:  cartsvc.PolicyFromConfig(cfg.Cart),
		Events:  notificationsService,
		Logger:  logg,
		Metrics: metrics.NewCartMetrics(registry),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	sessionTokens, err := cartsvc.NewSessionTokens(cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session tokens", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Cart.StoreBackend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			Registry:      registry,
			Cart:          cartService,
			Checkout:      checkoutsvc.NewService(),
			Notifications: notificationsService,
			SessionTokens: sessionTokens,
			StorePingers:  pingers,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancelShutdown()

	closeErr := multierr.Append(server.Shutdown(shutdownCtx), closeStores())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

// buildStore wires the cart persistence backend named in the config and
// returns the pingers exposed to the readiness probe plus a combined closer.
func buildStore(cfg *config.Config, logg *logger.Logger) (cartsvc.LineStore, []controllers.Pinger, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Cart.StoreBackend {
	case config.CartStoreRedis:
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("bootstrapping redis: %w", err)
		}
		store, err := cartsvc.NewRedisStore(redisClient, cfg.Cart.TTL)
		if err != nil {
			return nil, nil, noop, multierr.Append(err, redisClient.Close())
		}
		return store, []controllers.Pinger{redisClient}, redisClient.Close, nil

	case config.CartStoreDatabase:
		dbClient, err := db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("bootstrapping database: %w", err)
		}
		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			return nil, nil, noop, multierr.Append(err, dbClient.Close())
		}
		store, err := cartsvc.NewGormStore(dbClient.DB())
		if err != nil {
			return nil, nil, noop, multierr.Append(err, dbClient.Close())
		}
		return store, []controllers.Pinger{dbClient}, dbClient.Close, nil

	case config.CartStoreMemory:
		return cartsvc.NewMemoryStore(), nil, noop, nil

	default:
		return nil, nil, noop, fmt.Errorf("unknown cart store backend %q", cfg.Cart.StoreBackend)
	}
}
