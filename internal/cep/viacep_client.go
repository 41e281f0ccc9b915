package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Raymond9734/customer-records-api/internal/metrics"
	"github.com/Raymond9734/customer-records-api/internal/models"
)

// Default ViaCEP settings
const (
	DefaultBaseURL = "https://viacep.com.br"
	DefaultTimeout = 5 * time.Second
)

const tracerName = "github.com/Raymond9734/customer-records-api/internal/cep"

// AddressResolver resolves a CEP into a street address
type AddressResolver interface {
	Resolve(ctx context.Context, cep string) (*models.Address, error)
}

// ViaCEPClient resolves addresses using the ViaCEP web service
type ViaCEPClient struct {
	baseURL    string
	httpClient *http.Client
}

// ViaCEPConfig holds ViaCEP client configuration
type ViaCEPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewViaCEPClient creates a ViaCEP client with a bounded timeout
func NewViaCEPClient(cfg ViaCEPConfig) *ViaCEPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &ViaCEPClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// viaCEPResponse is the ViaCEP JSON payload
type viaCEPResponse struct {
	Logradouro string    `json:"logradouro"`
	Bairro     string    `json:"bairro"`
	Localidade string    `json:"localidade"`
	UF         string    `json:"uf"`
	Erro       errorFlag `json:"erro"`
}

// errorFlag accepts both `"erro": true` and `"erro": "true"`
type errorFlag bool

func (f *errorFlag) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Resolve looks up a CEP. A single attempt is made; transport failures,
// non-2xx statuses and the "erro" indicator are all reported as errors.
func (c *ViaCEPClient) Resolve(ctx context.Context, cep string) (*models.Address, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "cep.resolve")
	defer span.End()

	span.SetAttributes(attribute.String("cep", cep))

	addr, err := c.fetch(ctx, cep)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cep lookup failed")
		metrics.RecordCEPLookup("error")
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	metrics.RecordCEPLookup("ok")
	return addr, nil
}

func (c *ViaCEPClient) fetch(ctx context.Context, cep string) (*models.Address, error) {
	requestURL := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, url.PathEscape(cep))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create viacep request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call viacep: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read viacep response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("viacep error: %d - %s", resp.StatusCode, string(body))
	}

	var payload viaCEPResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode viacep response: %w", err)
	}

	if payload.Erro || payload.Localidade == "" {
		return nil, fmt.Errorf("cep %s: %w", cep, models.ErrPostalCodeNotFound)
	}

	return &models.Address{
		Logradouro: payload.Logradouro,
		Bairro:     payload.Bairro,
		Localidade: payload.Localidade,
		UF:         payload.UF,
	}, nil
}
