package router

import (
	"net/http"

	"github.com/rs/zerolog"

	"eshop-order/internal/handler"
	"eshop-order/internal/metrics"
	"eshop-order/internal/middleware"
)

// Route paths exposed by the order service. The /order prefix matches the
// upstream gateway's proxy layout.
const (
	PathCreateSession = "/order/api/create-payment-session"
	PathVerifySession = "/order/api/verifying-payment-session"
	PathCreateIntent  = "/order/api/create-payment-intent"
	PathWebhook       = "/order/api/create-order"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	paymentHandler *handler.PaymentHandler,
	webhookHandler *handler.WebhookHandler,
	m *metrics.ServerMetrics,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.Handle("/metrics", metrics.Handler())

	mux.HandleFunc(PathCreateSession, paymentHandler.CreateSession)
	mux.HandleFunc(PathVerifySession, paymentHandler.VerifySession)
	mux.HandleFunc(PathCreateIntent, paymentHandler.CreateIntent)
	mux.HandleFunc(PathWebhook, webhookHandler.HandlePaymentEvent)

	// The webhook authenticates via its signature, not the gateway headers.
	exempt := map[string]bool{
		"/health":   true,
		"/metrics":  true,
		PathWebhook: true,
	}

	// Apply middleware in order: Recovery -> Logging -> CORS -> UserAuth
	var h http.Handler = mux
	h = middleware.UserAuth(exempt, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger, m)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
