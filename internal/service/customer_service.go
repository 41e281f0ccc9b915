package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Raymond9734/customer-records-api/internal/cep"
	"github.com/Raymond9734/customer-records-api/internal/metrics"
	"github.com/Raymond9734/customer-records-api/internal/models"
	"github.com/Raymond9734/customer-records-api/internal/repository"
)

// DeletedMessage is returned for every delete, whether or not the record existed
const DeletedMessage = "Cliente removido"

// CustomerService handles customer business logic
type CustomerService interface {
	List(ctx context.Context) ([]*models.Customer, error)
	Create(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	Update(ctx context.Context, id int64, patch *models.CustomerPatch) (*models.Customer, error)
	Delete(ctx context.Context, id int64) (*DeleteResult, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	resolver     cep.AddressResolver
	logger       *slog.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	resolver cep.AddressResolver,
	logger *slog.Logger,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		resolver:     resolver,
		logger:       logger,
	}
}

// List retrieves every customer in insertion order
func (s *customerService) List(ctx context.Context) ([]*models.Customer, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}

// Create validates the request, resolves the CEP into an address and
// persists the customer. Nothing is looked up or written unless
// validation passes, and nothing is written unless the lookup succeeds.
func (s *customerService) Create(ctx context.Context, req *CreateCustomerRequest) (*models.Customer, error) {
	fields := req.Validate()

	// Uniqueness is only meaningful for a well-formed cpf; its failure
	// is reported together with any other field errors.
	if !hasField(fields, "cpf") {
		existing, err := s.customerRepo.GetByCPF(ctx, req.CPF)
		if err != nil && !models.IsNotFound(err) {
			return nil, fmt.Errorf("failed to check cpf uniqueness: %w", err)
		}
		if err == nil && existing != nil {
			fields = append(fields, models.FieldError{Field: "cpf", Message: "has already been taken"})
		}
	}

	if len(fields) > 0 {
		return nil, models.ErrValidationFields(fields...)
	}

	addr, err := s.resolver.Resolve(ctx, req.CEP)
	if err != nil {
		s.logger.Warn("cep lookup failed",
			slog.String("cep", req.CEP),
			slog.String("error", err.Error()),
		)
		return nil, models.ErrInvalidPostalCodeWithCause(err)
	}

	customer := &models.Customer{
		Nome:        req.Nome,
		CPF:         req.CPF,
		CEP:         req.CEP,
		Endereco:    addr.Format(),
		Numero:      req.Numero,
		Complemento: req.Complemento,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error("failed to create customer",
			slog.String("cep", customer.CEP),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	metrics.RecordCustomerCreated()
	s.logger.Info("customer created",
		slog.Int64("customer_id", customer.ID),
		slog.String("cep", customer.CEP),
	)

	return customer, nil
}

// GetByID retrieves a customer by ID
func (s *customerService) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return customer, nil
}

// Update overwrites the fields present in the patch. Fields are not
// re-validated and endereco is not re-derived from cep.
func (s *customerService) Update(ctx context.Context, id int64, patch *models.CustomerPatch) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(customer)

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		s.logger.Error("failed to update customer",
			slog.Int64("customer_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s.logger.Info("customer updated",
		slog.Int64("customer_id", id),
	)

	return customer, nil
}

// Delete removes a customer. Deleting a missing id is not an error.
func (s *customerService) Delete(ctx context.Context, id int64) (*DeleteResult, error) {
	removed, err := s.customerRepo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("failed to delete customer",
			slog.Int64("customer_id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to delete customer: %w", err)
	}

	s.logger.Info("customer deleted",
		slog.Int64("customer_id", id),
		slog.Int64("rows_removed", removed),
	)

	return &DeleteResult{Message: DeletedMessage}, nil
}
