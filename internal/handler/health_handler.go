package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// HealthChecker reports the health of a dependency
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db     HealthChecker
	cache  HealthChecker
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler. cache may be nil.
func NewHealthHandler(db HealthChecker, cache HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:   "healthy",
		Services: make(map[string]string),
	}

	// Check database
	if err := h.db.Health(ctx); err != nil {
		h.logger.Error("database health check failed", slog.String("error", err.Error()))
		response.Status = "unhealthy"
		response.Services["database"] = "unhealthy"
	} else {
		response.Services["database"] = "healthy"
	}

	// Check cache
	if h.cache != nil {
		if err := h.cache.Health(ctx); err != nil {
			// lookups fall through to ViaCEP without the cache
			h.logger.Warn("cache health check failed", slog.String("error", err.Error()))
			if response.Status == "healthy" {
				response.Status = "degraded"
			}
			response.Services["cache"] = "unhealthy"
		} else {
			response.Services["cache"] = "healthy"
		}
	} else {
		response.Services["cache"] = "not_configured"
	}

	// Return appropriate status code
	if response.Status != "unhealthy" {
		respondSuccess(w, response)
	} else {
		respondJSON(w, http.StatusServiceUnavailable, response)
	}
}
