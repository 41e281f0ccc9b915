package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/customer-records-api/internal/models"
	"github.com/Raymond9734/customer-records-api/internal/service"
)

type mockCustomerService struct {
	mock.Mock
}

func (m *mockCustomerService) List(ctx context.Context) ([]*models.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Customer), args.Error(1)
}

func (m *mockCustomerService) Create(ctx context.Context, req *service.CreateCustomerRequest) (*models.Customer, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *mockCustomerService) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *mockCustomerService) Update(ctx context.Context, id int64, patch *models.CustomerPatch) (*models.Customer, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *mockCustomerService) Delete(ctx context.Context, id int64) (*service.DeleteResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DeleteResult), args.Error(1)
}

type okChecker struct{}

func (okChecker) Health(ctx context.Context) error { return nil }

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestRouter(svc service.CustomerService) http.Handler {
	return NewRouter(RouterConfig{
		Customers:      NewCustomerHandler(svc, testLogger),
		Health:         NewHealthHandler(okChecker{}, nil, testLogger),
		AllowedOrigins: []string{"*"},
		Logger:         testLogger,
	})
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func sampleCustomer() *models.Customer {
	return &models.Customer{
		ID:       1,
		Nome:     "Ana Silva",
		CPF:      "12345678901",
		CEP:      "01001000",
		Endereco: "Praça da Sé, Sé, São Paulo-SP",
		Numero:   "10",
	}
}

func TestCustomerHandler_Create(t *testing.T) {
	svc := new(mockCustomerService)
	svc.On("Create", mock.Anything, &service.CreateCustomerRequest{
		Nome:   "Ana Silva",
		CPF:    "12345678901",
		CEP:    "01001000",
		Numero: "10",
	}).Return(sampleCustomer(), nil)

	w := serve(newTestRouter(svc), http.MethodPost, "/customers",
		`{"nome":"Ana Silva","cpf":"12345678901","cep":"01001000","numero":"10","endereco":"ignored"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got models.Customer
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "Praça da Sé, Sé, São Paulo-SP", got.Endereco)
	assert.Nil(t, got.Complemento)
	svc.AssertExpectations(t)
}

func TestCustomerHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid json",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_JSON",
		},
		{
			name:       "validation error",
			body:       `{"cep":"01001"}`,
			serviceErr: models.ErrValidationFields(models.FieldError{Field: "cep", Message: "must be exactly 8 characters"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeValidation,
		},
		{
			name:       "invalid postal code",
			body:       `{"cep":"99999999"}`,
			serviceErr: models.ErrInvalidPostalCodeWithCause(models.ErrPostalCodeNotFound),
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeInvalidPostalCode,
		},
		{
			name:       "unexpected error",
			body:       `{"cep":"01001000"}`,
			serviceErr: errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockCustomerService)
			if tt.serviceErr != nil {
				svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			}

			w := serve(newTestRouter(svc), http.MethodPost, "/customers", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
		})
	}
}

func TestCustomerHandler_Create_ValidationFields(t *testing.T) {
	svc := new(mockCustomerService)
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, models.ErrValidationFields(
		models.FieldError{Field: "cpf", Message: "has already been taken"},
	))

	w := serve(newTestRouter(svc), http.MethodPost, "/customers", `{"cpf":"12345678901"}`)

	detail := decodeError(t, w)
	require.Len(t, detail.Fields, 1)
	assert.Equal(t, "cpf", detail.Fields[0].Field)
	assert.Equal(t, "has already been taken", detail.Fields[0].Message)
}

func TestCustomerHandler_List(t *testing.T) {
	svc := new(mockCustomerService)
	svc.On("List", mock.Anything).Return([]*models.Customer{}, nil)

	w := serve(newTestRouter(svc), http.MethodGet, "/customers", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCustomerHandler_Get(t *testing.T) {
	svc := new(mockCustomerService)
	svc.On("GetByID", mock.Anything, int64(1)).Return(sampleCustomer(), nil)
	svc.On("GetByID", mock.Anything, int64(2)).Return(nil, models.ErrNotFoundWithMsg("customer with ID 2 not found"))
	router := newTestRouter(svc)

	w := serve(router, http.MethodGet, "/customers/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/customers/2", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, models.CodeNotFound, decodeError(t, w).Code)

}

func TestCustomerHandler_MalformedIDIsNotFound(t *testing.T) {
	paths := []string{"/customers/abc", "/customers/99999999999999999999", "/api/clientes/1.5"}

	for _, path := range paths {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch} {
			t.Run(method+" "+path, func(t *testing.T) {
				svc := new(mockCustomerService)

				w := serve(newTestRouter(svc), method, path, `{"nome":"x"}`)

				assert.Equal(t, http.StatusNotFound, w.Code)
				assert.Equal(t, models.CodeNotFound, decodeError(t, w).Code)
				svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
				svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	}
}

func TestCustomerHandler_DeleteMalformedIDIsAcknowledged(t *testing.T) {
	for _, path := range []string{"/customers/abc", "/customers/99999999999999999999"} {
		t.Run(path, func(t *testing.T) {
			svc := new(mockCustomerService)

			w := serve(newTestRouter(svc), http.MethodDelete, path, "")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"message":"Cliente removido"}`, w.Body.String())
			svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

func TestCustomerHandler_Update(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			svc := new(mockCustomerService)
			updated := sampleCustomer()
			updated.Endereco = "Rua Nova, Centro, Recife-PE"

			svc.On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p *models.CustomerPatch) bool {
				return p.Endereco != nil && *p.Endereco == "Rua Nova, Centro, Recife-PE" && p.Nome == nil
			})).Return(updated, nil)

			w := serve(newTestRouter(svc), method, "/customers/1", `{"endereco":"Rua Nova, Centro, Recife-PE"}`)

			assert.Equal(t, http.StatusOK, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestCustomerHandler_Update_NotFound(t *testing.T) {
	svc := new(mockCustomerService)
	svc.On("Update", mock.Anything, int64(5), mock.Anything).Return(nil, models.ErrNotFoundWithMsg("customer with ID 5 not found"))

	w := serve(newTestRouter(svc), http.MethodPut, "/customers/5", `{"nome":"x"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerHandler_Update_CPFCollision(t *testing.T) {
	svc := new(mockCustomerService)
	svc.On("Update", mock.Anything, int64(2), mock.Anything).Return(nil, models.ErrValidationFields(
		models.FieldError{Field: "cpf", Message: "has already been taken"},
	))

	w := serve(newTestRouter(svc), http.MethodPatch, "/customers/2", `{"cpf":"12345678901"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	detail := decodeError(t, w)
	assert.Equal(t, models.CodeValidation, detail.Code)
	require.Len(t, detail.Fields, 1)
	assert.Equal(t, "cpf", detail.Fields[0].Field)
}

func TestCustomerHandler_Update_InvalidJSON(t *testing.T) {
	svc := new(mockCustomerService)

	w := serve(newTestRouter(svc), http.MethodPatch, "/customers/1", `{"numero": 10}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", decodeError(t, w).Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerHandler_Delete(t *testing.T) {
	svc := new(mockCustomerService)
	svc.On("Delete", mock.Anything, int64(1)).Return(&service.DeleteResult{Message: "Cliente removido"}, nil)
	router := newTestRouter(svc)

	for i := 0; i < 2; i++ {
		w := serve(router, http.MethodDelete, "/customers/1", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Cliente removido"}`, w.Body.String())
	}
}

func TestRouter_LegacyPathAndRequestID(t *testing.T) {
	svc := new(mockCustomerService)
	svc.On("List", mock.Anything).Return([]*models.Customer{sampleCustomer()}, nil)

	w := serve(newTestRouter(svc), http.MethodGet, "/api/clientes", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRouter_MetricsUseRoutePattern(t *testing.T) {
	svc := new(mockCustomerService)
	svc.On("GetByID", mock.Anything, int64(42)).Return(sampleCustomer(), nil)
	router := newTestRouter(svc)

	w := serve(router, http.MethodGet, "/customers/42", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",route="/customers/{id}",status="200"}`)
	assert.NotContains(t, body, `route="/customers/42"`)
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	svc := new(mockCustomerService)
	svc.On("List", mock.Anything).Run(func(args mock.Arguments) {
		panic("boom")
	}).Return(nil, nil)

	w := serve(newTestRouter(svc), http.MethodGet, "/customers", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, w).Code)
}
