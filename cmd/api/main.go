package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eshop-order/internal/config"
	"eshop-order/internal/database"
	"eshop-order/internal/events"
	"eshop-order/internal/handler"
	"eshop-order/internal/metrics"
	"eshop-order/internal/notify"
	"eshop-order/internal/payment"
	"eshop-order/internal/repository"
	"eshop-order/internal/router"
	"eshop-order/internal/service"
	"eshop-order/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting order API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize session store
	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redisClient.Close()

	store := session.NewRedisStore(redisClient, logger)

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	shopRepo := repository.NewShopRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)
	analyticsRepo := repository.NewAnalyticsRepository(pool, logger)

	// Initialize payment processor integration
	gateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, logger)
	verifier := payment.NewWebhookVerifier(cfg.Stripe.WebhookSecret)

	// Initialize confirmation mail delivery
	var mailer notify.Mailer
	if cfg.SMTP.Enabled {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}, logger)
	} else {
		mailer = notify.NopMailer{}
		logger.Info().Msg("SMTP disabled, order confirmation email is a no-op")
	}

	// Initialize order event publishing (disabled without brokers)
	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	defer publisher.Close()

	// Initialize session manager and services
	sessions := session.NewManager(store, shopRepo, logger)
	intents := payment.NewIntentAdapter(sessions, gateway, logger)
	fulfillment := service.NewFulfillmentService(
		store,
		orderRepo,
		productRepo,
		userRepo,
		notificationRepo,
		analyticsRepo,
		gateway,
		mailer,
		publisher,
		cfg.Platform.TrackingBaseURL,
		logger,
	)

	// Initialize HTTP handlers
	paymentHandler := handler.NewPaymentHandler(sessions, intents, logger)
	webhookHandler := handler.NewWebhookHandler(verifier, fulfillment, logger)

	// Initialize router
	m := metrics.New()
	mux := router.New(paymentHandler, webhookHandler, m, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
