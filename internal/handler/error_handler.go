package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Raymond9734/customer-records-api/internal/models"
)

// handleError maps service errors to HTTP responses
func handleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	// Check for custom AppError
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := mapErrorCodeToHTTPStatus(appErr.Code)
		respondErrorFields(w, status, appErr.Code, appErr.Message, appErr.Fields)
		return
	}

	// Log internal errors but don't expose details to client
	logger.Error("internal server error",
		slog.String("error", err.Error()),
	)
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case models.CodeValidation, models.CodeInvalidPostalCode:
		return http.StatusBadRequest
	case models.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
