package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Raymond9734/customer-records-api/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

// CustomerRepository defines the interface for customer data access
type CustomerRepository interface {
	List(ctx context.Context) ([]*models.Customer, error)
	GetByID(ctx context.Context, id int64) (*models.Customer, error)
	GetByCPF(ctx context.Context, cpf string) (*models.Customer, error)
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, id int64) (int64, error)
}

// customerRepository implements CustomerRepository using PostgreSQL
type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, nome, cpf, cep, endereco, numero, complemento, created_at, updated_at`

// List retrieves every customer in insertion order
func (r *customerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

// GetByID retrieves a customer by ID
func (r *customerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// GetByCPF retrieves a customer by CPF
func (r *customerRepository) GetByCPF(ctx context.Context, cpf string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE cpf = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, cpf))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFoundWithMsg(fmt.Sprintf("customer with CPF %s not found", cpf))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by cpf: %w", err)
	}

	return customer, nil
}

// Create inserts a new customer
func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (nome, cpf, cep, endereco, numero, complemento)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		customer.Nome,
		customer.CPF,
		customer.CEP,
		customer.Endereco,
		customer.Numero,
		nullString(customer.Complemento),
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)

	if isUniqueViolation(err) {
		return cpfTaken()
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// Update overwrites every mutable column of an existing customer
func (r *customerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET nome = $1, cpf = $2, cep = $3, endereco = $4, numero = $5, complemento = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		customer.Nome,
		customer.CPF,
		customer.CEP,
		customer.Endereco,
		customer.Numero,
		nullString(customer.Complemento),
		customer.ID,
	).Scan(&customer.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFoundWithMsg(fmt.Sprintf("customer with ID %d not found", customer.ID))
	}
	if isUniqueViolation(err) {
		return cpfTaken()
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}

	return nil
}

// Delete removes a customer and reports how many rows were removed
func (r *customerRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query := `DELETE FROM customers WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	customer := &models.Customer{}
	var complemento sql.NullString

	err := row.Scan(
		&customer.ID,
		&customer.Nome,
		&customer.CPF,
		&customer.CEP,
		&customer.Endereco,
		&customer.Numero,
		&complemento,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if complemento.Valid {
		customer.Complemento = &complemento.String
	}

	return customer, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func cpfTaken() error {
	return models.ErrValidationFields(models.FieldError{Field: "cpf", Message: "has already been taken"})
}
