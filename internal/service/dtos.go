package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Raymond9734/customer-records-api/internal/models"
)

// Field length limits
const (
	maxNomeLength   = 255
	cpfLength       = 11
	cepLength       = 8
	maxNumeroLength = 10
)

// CreateCustomerRequest represents a request to create a customer.
// Endereco is intentionally absent: it is always derived from CEP.
type CreateCustomerRequest struct {
	Nome        string  `json:"nome"`
	CPF         string  `json:"cpf"`
	CEP         string  `json:"cep"`
	Numero      string  `json:"numero"`
	Complemento *string `json:"complemento,omitempty"`
}

// Validate checks the shape of every field and returns all failures at once
func (r *CreateCustomerRequest) Validate() []models.FieldError {
	var fields []models.FieldError

	if f := maxLength("nome", r.Nome, maxNomeLength); f != nil {
		fields = append(fields, *f)
	}
	if f := exactLength("cpf", r.CPF, cpfLength); f != nil {
		fields = append(fields, *f)
	}
	if f := exactLength("cep", r.CEP, cepLength); f != nil {
		fields = append(fields, *f)
	}
	if f := maxLength("numero", r.Numero, maxNumeroLength); f != nil {
		fields = append(fields, *f)
	}

	return fields
}

func hasField(fields []models.FieldError, name string) bool {
	for _, f := range fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

func maxLength(field, value string, limit int) *models.FieldError {
	if strings.TrimSpace(value) == "" {
		return &models.FieldError{Field: field, Message: "is required"}
	}
	if utf8.RuneCountInString(value) > limit {
		return &models.FieldError{Field: field, Message: fmt.Sprintf("must not exceed %d characters", limit)}
	}
	return nil
}

func exactLength(field, value string, size int) *models.FieldError {
	if strings.TrimSpace(value) == "" {
		return &models.FieldError{Field: field, Message: "is required"}
	}
	if utf8.RuneCountInString(value) != size {
		return &models.FieldError{Field: field, Message: fmt.Sprintf("must be exactly %d characters", size)}
	}
	return nil
}

// DeleteResult is the acknowledgment returned by a delete
type DeleteResult struct {
	Message string `json:"message"`
}
