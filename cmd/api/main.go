package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/revendedor/painel-backend/api/routes"
	"github.com/revendedor/painel-backend/internal/customers"
	"github.com/revendedor/painel-backend/internal/dashboard"
	"github.com/revendedor/painel-backend/internal/inventory"
	"github.com/revendedor/painel-backend/internal/orders"
	"github.com/revendedor/painel-backend/internal/packages"
	"github.com/revendedor/painel-backend/internal/resellers"
	"github.com/revendedor/painel-backend/pkg/config"
	"github.com/revendedor/painel-backend/pkg/db"
	"github.com/revendedor/painel-backend/pkg/instance"
	"github.com/revendedor/painel-backend/pkg/logger"
	"github.com/revendedor/painel-backend/pkg/metrics"
	"github.com/revendedor/painel-backend/pkg/migrate"
	"github.com/revendedor/painel-backend/pkg/outbox"
	"github.com/revendedor/painel-backend/pkg/redis"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gormDB := dbClient.DB()
	inventoryRepo := inventory.NewRepository(gormDB)
	packageRepo := packages.NewRepository(gormDB)

	resellerService, err := resellers.NewService(resellers.NewRepository(gormDB))
	if err != nil {
		return err
	}
	packageService, err := packages.NewService(packageRepo)
	if err != nil {
		return err
	}
	inventoryService, err := inventory.NewService(inventoryRepo, packageRepo)
	if err != nil {
		return err
	}
	customerService, err := customers.NewService(customers.NewRepository(gormDB))
	if err != nil {
		return err
	}
	dashboardService, err := dashboard.NewService(dashboard.NewRepository(gormDB), loc)
	if err != nil {
		return err
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(gormDB),
		Tx:        dbClient,
		Outbox:    outbox.NewService(outbox.NewRepository(gormDB), logg),
		Inventory: inventory.NewLedger(inventoryRepo),
		Customers: customerService,
		Logger:    logg,
		Metrics:   metrics.NewOrderMetrics(registry),
		Location:  loc,
	})
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID("local"),
		"timezone": loc.String(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:      cfg,
			Logger:      logg,
			Location:    loc,
			DB:          dbClient,
			Redis:       redisClient,
			Idempotency: redisClient,
			Gatherer:    registry,
			Resellers:   resellerService,
			Orders:      orderService,
			Inventory:   inventoryService,
			Packages:    packageService,
			Dashboard:   dashboardService,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
