package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/remotekitchen/chatchef-backend-new/api/routes"
	"github.com/remotekitchen/chatchef-backend-new/internal/catalog"
	"github.com/remotekitchen/chatchef-backend-new/internal/costs"
	"github.com/remotekitchen/chatchef-backend-new/internal/fees"
	"github.com/remotekitchen/chatchef-backend-new/internal/invoicing"
	"github.com/remotekitchen/chatchef-backend-new/internal/orders"
	"github.com/remotekitchen/chatchef-backend-new/internal/promotions"
	"github.com/remotekitchen/chatchef-backend-new/internal/rewards"
	"github.com/remotekitchen/chatchef-backend-new/pkg/config"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
	"github.com/remotekitchen/chatchef-backend-new/pkg/metrics"
	"github.com/remotekitchen/chatchef-backend-new/pkg/migrate"
	"github.com/remotekitchen/chatchef-backend-new/pkg/outbox"
	"github.com/remotekitchen/chatchef-backend-new/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	costMetrics := metrics.NewCostMetrics(promRegistry)

	gormDB := dbClient.DB()
	outboxService := outbox.NewService(outbox.NewRepository(gormDB), logg)

	catalogResolver, err := catalog.NewService(catalog.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog resolver", err)
		os.Exit(1)
	}

	markupResolver, err := fees.NewMarkupResolver(fees.NewRuleRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create markup resolver", err)
		os.Exit(1)
	}

	costService, err := costs.NewService(
		catalogResolver,
		promotions.NewRepository(gormDB),
		markupResolver,
		fees.NewScheduleRepository(gormDB),
		logg,
		costMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cost service", err)
		os.Exit(1)
	}

	rewardGate, err := rewards.NewGate(
		rewards.NewRepository(gormDB),
		dbClient,
		outboxService,
		redisClient,
		cfg.Rewards,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create reward gate", err)
		os.Exit(1)
	}

	invoicingService, err := invoicing.NewService(invoicing.NewRepository(gormDB), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoicing service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(
		orders.NewRepository(gormDB),
		costService,
		rewardGate,
		invoicingService,
		outboxService,
		dbClient,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
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
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, costService, orderService, rewardGate, promRegistry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
