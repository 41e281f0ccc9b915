package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// RouterConfig holds everything the HTTP router needs
type RouterConfig struct {
	Customers      *CustomerHandler
	Health         *HealthHandler
	AllowedOrigins []string
	Logger         *slog.Logger
}

// NewRouter builds the API router
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	// Register routes
	r.Get("/health", cfg.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	customerRoutes := func(r chi.Router) {
		r.Get("/", cfg.Customers.ListCustomers)
		r.Post("/", cfg.Customers.CreateCustomer)
		r.Get("/{id}", cfg.Customers.GetCustomer)
		r.Put("/{id}", cfg.Customers.UpdateCustomer)
		r.Patch("/{id}", cfg.Customers.UpdateCustomer)
		r.Delete("/{id}", cfg.Customers.DeleteCustomer)
	}

	r.Route("/customers", customerRoutes)
	// Path used by the existing frontend
	r.Route("/api/clientes", customerRoutes)

	return otelhttp.NewHandler(r, "customer-api")
}
