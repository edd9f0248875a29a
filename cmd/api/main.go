package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/divinobizcochito/storefront-backend/api/routes"
	"github.com/divinobizcochito/storefront-backend/internal/auth"
	"github.com/divinobizcochito/storefront-backend/internal/cart"
	"github.com/divinobizcochito/storefront-backend/internal/catalog"
	"github.com/divinobizcochito/storefront-backend/internal/checkout"
	"github.com/divinobizcochito/storefront-backend/internal/devices"
	"github.com/divinobizcochito/storefront-backend/internal/orders"
	"github.com/divinobizcochito/storefront-backend/internal/recipes"
	"github.com/divinobizcochito/storefront-backend/internal/users"
	"github.com/divinobizcochito/storefront-backend/pkg/auth/session"
	"github.com/divinobizcochito/storefront-backend/pkg/config"
	"github.com/divinobizcochito/storefront-backend/pkg/db"
	"github.com/divinobizcochito/storefront-backend/pkg/logger"
	"github.com/divinobizcochito/storefront-backend/pkg/metrics"
	"github.com/divinobizcochito/storefront-backend/pkg/migrate"
	"github.com/divinobizcochito/storefront-backend/pkg/redis"
	"github.com/divinobizcochito/storefront-backend/pkg/webpay"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	webpayClient, err := webpay.NewClient(context.Background(), cfg.Webpay, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create webpay client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	sessionsRepo := checkout.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(redisClient, redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cartStore, catalogRepo, cfg.Cart, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	recipesService, err := recipes.NewService(recipes.NewRepository(dbClient.DB()), userRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create recipes service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	devicesService, err := devices.NewService(devices.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create devices service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		DB:       dbClient.DB(),
		Sessions: sessionsRepo,
		Orders:   ordersRepo,
		Catalog:  catalogRepo,
		Cart:     cartService,
		Gateway:  webpayClient,
		Guard:    redisClient,
		Metrics:  checkoutMetrics,
		Config:   cfg.Cart,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:      cfg,
			Logger:      logg,
			RedisPinger: redisClient,
			Idempotency: redisClient,
			Sessions:    sessionManager,
			HTTPMetrics: httpMetrics,
			Gatherer:    registry,
			Auth:        authService,
			Catalog:     catalogService,
			Cart:        cartService,
			Recipes:     recipesService,
			Orders:      ordersService,
			Devices:     devicesService,
			Checkout:    checkoutService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
