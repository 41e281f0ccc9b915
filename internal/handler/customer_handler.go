package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Raymond9734/customer-records-api/internal/models"
	"github.com/Raymond9734/customer-records-api/internal/service"
)

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService service.CustomerService, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerService.List(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customers)
}

// CreateCustomer handles POST /customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCustomerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	customer, err := h.customerService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, customer)
}

// GetCustomer handles GET /customers/{id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer)
}

// UpdateCustomer handles PUT and PATCH /customers/{id}
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	var patch models.CustomerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	customer, err := h.customerService.Update(r.Context(), id, &patch)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, customer)
}

// DeleteCustomer handles DELETE /customers/{id}
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := customerID(r)
	if !ok {
		// a malformed id names no record
		respondSuccess(w, &service.DeleteResult{Message: service.DeletedMessage})
		return
	}

	result, err := h.customerService.Delete(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// customerID parses the {id} URL parameter. An id that is not an
// int64 can never have been assigned, so callers treat it as missing.
func customerID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *CustomerHandler) notFound(w http.ResponseWriter, r *http.Request) {
	handleError(w, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %s not found", chi.URLParam(r, "id"))), h.logger)
}
