package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"toyexchange/internal/metrics"
	"toyexchange/internal/service"
)

// NewRouter creates a chi router with all routes registered, CORS, request
// logging, prometheus instrumentation, and Content-Type validation.
func NewRouter(
	userSvc *service.UserService,
	orderSvc *service.OrderService,
	marketSvc *service.MarketService,
	adminSvc *service.AdminService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	r.Use(requestLogging(logger))
	r.Use(instrument)
	r.Use(contentTypeJSON)

	// Create handlers.
	publicH := NewPublicHandler(userSvc, marketSvc)
	orderH := NewOrderHandler(orderSvc)
	adminH := NewAdminHandler(adminSvc)

	// Operational endpoints.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public routes.
	r.Route("/api/v1/public", func(r chi.Router) {
		r.Post("/register", publicH.Register)
		r.Get("/instrument", publicH.ListInstruments)
		r.Get("/orderbook/{ticker}", publicH.OrderBook)
		r.Get("/transactions/{ticker}", publicH.Transactions)
	})

	// Authenticated routes.
	r.Group(func(r chi.Router) {
		r.Use(authenticate(userSvc))

		r.Get("/api/v1/balance", publicH.Balances)

		r.Post("/api/v1/order", orderH.Create)
		r.Get("/api/v1/order", orderH.List)
		r.Get("/api/v1/order/{order_id}", orderH.Get)
		r.Delete("/api/v1/order/{order_id}", orderH.Cancel)

		// Admin routes.
		r.Route("/api/v1/admin", func(r chi.Router) {
			r.Use(requireAdmin)

			r.Delete("/user/{user_id}", adminH.DeleteUser)
			r.Post("/instrument", adminH.CreateInstrument)
			r.Delete("/instrument/{ticker}", adminH.DeleteInstrument)
			r.Post("/balance/deposit", adminH.Deposit)
			r.Post("/balance/withdraw", adminH.Withdraw)
		})
	})

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// instrument is middleware that records prometheus HTTP metrics. The path
// label uses the chi route pattern, not the raw URL, to keep cardinality
// bounded.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(ww.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT,
// and PATCH requests before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct == "" || !strings.HasPrefix(ct, "application/json") {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
