package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/jatinkmr/stripe-demo/internal/calllog"
	"github.com/jatinkmr/stripe-demo/internal/domain"
	"github.com/jatinkmr/stripe-demo/internal/handlers"
	"github.com/jatinkmr/stripe-demo/internal/payments"
	"github.com/jatinkmr/stripe-demo/internal/platform/config"
	"github.com/jatinkmr/stripe-demo/internal/platform/monitoring"
	"github.com/jatinkmr/stripe-demo/internal/platform/observability"
	"github.com/jatinkmr/stripe-demo/internal/services"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("invalid configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	eventLogger := observability.EventLogger(logger)

	gateway, err := payments.NewStripeProvider(payments.StripeProviderConfig{
		APIKey: cfg.Stripe.SecretKey,
		Logger: eventLogger,
	})
	if err != nil {
		logger.Fatal("failed to initialise payment gateway", zap.Error(err))
	}

	catalog, err := services.NewCatalogService(services.CatalogServiceDeps{
		Products: domain.DefaultCatalog(),
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}

	checkout, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Catalog:        catalog,
		Gateway:        gateway,
		SuccessURL:     cfg.URLs.BackendBaseURL + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:      cfg.URLs.BackendBaseURL + "/cancel?session_id={CHECKOUT_SESSION_ID}",
		PromotionCodes: true,
		Logger:         eventLogger,
	})
	if err != nil {
		logger.Fatal("failed to initialise checkout service", zap.Error(err))
	}

	recorders := make(map[string]calllog.Recorder, 3)
	for _, name := range []string{"success", "cancel", "redirect"} {
		recorder, err := calllog.NewFileRecorder(filepath.Join(cfg.Callback.LogDir, name+".log"))
		if err != nil {
			logger.Fatal("failed to initialise callback recorder", zap.String("route", name), zap.Error(err))
		}
		recorders[name] = recorder
	}

	callbacks, err := services.NewCallbackService(services.CallbackServiceDeps{
		Gateway:     gateway,
		SuccessLog:  recorders["success"],
		CancelLog:   recorders["cancel"],
		RedirectLog: recorders["redirect"],
		Logger:      eventLogger,
	})
	if err != nil {
		logger.Fatal("failed to initialise callback service", zap.Error(err))
	}

	storefront, err := handlers.NewStorefrontHandlers(cfg.Stripe.PublishableKey, cfg.URLs.BackendBaseURL)
	if err != nil {
		logger.Fatal("failed to initialise storefront", zap.Error(err))
	}

	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.RecoveryMiddleware(logger),
			observability.RequestLoggerMiddleware(),
			monitoring.Middleware(),
			corsMiddleware,
		),
		handlers.WithProductRoutes(handlers.NewProductHandlers(catalog).Routes),
		handlers.WithCheckoutRoutes(handlers.NewCheckoutHandlers(checkout).Routes),
		handlers.WithCallbackRoutes(handlers.NewCallbackHandlers(callbacks, cfg.URLs.FrontendBaseURL).Routes),
		handlers.WithStorefrontRoutes(storefront.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("stripe-demo api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
