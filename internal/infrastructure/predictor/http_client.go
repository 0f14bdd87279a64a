// Package predictor implementa el cliente HTTP del servicio externo de predicción de churn.
package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/outrix/churn-predictor/internal/application/ports"
	"github.com/outrix/churn-predictor/internal/domain"
	"github.com/outrix/churn-predictor/internal/domain/entity"
)

// Verificar en tiempo de compilación que HTTPClient implementa Predictor.
var _ ports.Predictor = (*HTTPClient)(nil)

const (
	predictPath      = "/predict"
	healthPath       = "/health"
	maxResponseBytes = 64 * 1024
)

// HTTPClient adaptador de ports.Predictor sobre net/http.
// No reintenta ni distingue causas de fallo: todas se reportan como domain.ErrPredictionFailed.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
}

// NewHTTPClient construye el adaptador. timeout == 0 deja el comportamiento por defecto del transporte.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
	}
}

// ── Estructuras del protocolo /predict ────────────────────────────────────────

type predictRequest struct {
	Gender           string  `json:"gender"`
	Age              int     `json:"age"`
	Tenure           int     `json:"tenure"`
	MonthlyCharges   float64 `json:"monthly_charges"`
	TotalCharges     float64 `json:"total_charges"`
	InternetService  string  `json:"internet_service"`
	Contract         string  `json:"contract"`
	PaymentMethod    string  `json:"payment_method"`
	PaperlessBilling string  `json:"paperless_billing"`
	TechSupport      string  `json:"tech_support"`
	OnlineBackup     string  `json:"online_backup"`
}

type predictResponse struct {
	RiskLevel        string   `json:"risk_level" validate:"required,oneof=LOW MEDIUM HIGH"`
	ChurnProbability *float64 `json:"churn_probability" validate:"required,gte=0,lte=1"`
	Confidence       *float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
	Recommendations  []string `json:"recommendations"`
}

func newPredictRequest(p entity.CustomerProfile) predictRequest {
	return predictRequest{
		Gender:           string(p.Gender),
		Age:              p.Age,
		Tenure:           p.TenureMonths,
		MonthlyCharges:   p.MonthlyCharges.InexactFloat64(),
		TotalCharges:     p.TotalCharges.InexactFloat64(),
		InternetService:  string(p.InternetService),
		Contract:         string(p.ContractType),
		PaymentMethod:    p.PaymentMethod,
		PaperlessBilling: string(p.PaperlessBilling),
		TechSupport:      string(p.TechSupport),
		OnlineBackup:     string(p.OnlineBackup),
	}
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// BaseURL dirección del servicio.
func (c *HTTPClient) BaseURL() string { return c.baseURL }

// Predict hace un único POST a <base>/predict con el perfil serializado.
// El resultado se valida: risk_level conocido y probabilidades dentro de [0,1].
func (c *HTTPClient) Predict(ctx context.Context, profile entity.CustomerProfile) (*entity.PredictionResult, error) {
	body, err := json.Marshal(newPredictRequest(profile))
	if err != nil {
		return nil, failed("serializar request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictPath, bytes.NewReader(body))
	if err != nil {
		return nil, failed("crear HTTP request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, failed("llamada HTTP", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, failed("leer respuesta", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d: %s", domain.ErrPredictionFailed, resp.StatusCode, truncate(string(rawBody), 200))
	}

	var out predictResponse
	if err := json.Unmarshal(rawBody, &out); err != nil {
		return nil, failed("deserializar respuesta", err)
	}
	if err := c.validate.Struct(out); err != nil {
		return nil, failed("respuesta fuera de contrato", err)
	}

	recs := out.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return &entity.PredictionResult{
		RiskLevel:        entity.RiskLevel(out.RiskLevel),
		ChurnProbability: *out.ChurnProbability,
		Confidence:       out.Confidence,
		Recommendations:  recs,
	}, nil
}

// Health hace GET <base>/health; cualquier 2xx cuenta como disponible.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("health: crear request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("health: HTTP %d", resp.StatusCode)
	}
	return nil
}

func failed(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPredictionFailed, step, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
