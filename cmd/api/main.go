package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nithyasundar/bakehouse-backend/api/routes"
	"github.com/nithyasundar/bakehouse-backend/internal/auth"
	"github.com/nithyasundar/bakehouse-backend/internal/catalog"
	"github.com/nithyasundar/bakehouse-backend/internal/invoice"
	"github.com/nithyasundar/bakehouse-backend/internal/orders"
	"github.com/nithyasundar/bakehouse-backend/internal/settings"
	"github.com/nithyasundar/bakehouse-backend/internal/users"
	"github.com/nithyasundar/bakehouse-backend/internal/whatsapp"
	"github.com/nithyasundar/bakehouse-backend/pkg/auth/session"
	"github.com/nithyasundar/bakehouse-backend/pkg/config"
	"github.com/nithyasundar/bakehouse-backend/pkg/db"
	"github.com/nithyasundar/bakehouse-backend/pkg/env"
	"github.com/nithyasundar/bakehouse-backend/pkg/logger"
	"github.com/nithyasundar/bakehouse-backend/pkg/metrics"
	"github.com/nithyasundar/bakehouse-backend/pkg/migrate"
	"github.com/nithyasundar/bakehouse-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		ProfileRepo:    usersRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(usersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create settings service", err)
		os.Exit(1)
	}

	invoiceRenderer, err := invoice.NewRenderer(cfg.Invoice)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoice renderer", err)
		os.Exit(1)
	}

	whatsappBuilder, err := whatsapp.NewBuilder(cfg.WhatsApp.AdminNumber)
	if err != nil {
		logg.Error(context.Background(), "failed to create whatsapp builder", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := env.Get("PORT", cfg.App.Port)
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:        addr,
		ReadTimeout: time.Duration(env.GetInt("HTTP_READ_TIMEOUT_SECONDS", 15)) * time.Second,
		// Invoice rendering holds the response open while the PDF is
		// produced, so the write window stays generous.
		WriteTimeout: time.Duration(env.GetInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)) * time.Second,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			SessionManager:  sessionManager,
			Registry:        registry,
			HTTPMetrics:     httpMetrics,
			AuthService:     authService,
			CatalogService:  catalogService,
			OrdersService:   ordersService,
			UsersService:    usersService,
			SettingsService: settingsService,
			InvoiceRenderer: invoiceRenderer,
			WhatsApp:        whatsappBuilder,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
