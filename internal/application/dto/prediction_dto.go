package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateFieldRequest cuerpo de PATCH /api/session/fields/:name.
type UpdateFieldRequest struct {
	Value string `json:"value"`
}

// CustomerProfileDTO perfil tal como lo expone la API JSON (nombres semánticos).
type CustomerProfileDTO struct {
	Gender           string          `json:"gender"`
	Age              int             `json:"age"`
	TenureMonths     int             `json:"tenure_months"`
	MonthlyCharges   decimal.Decimal `json:"monthly_charges"`
	TotalCharges     decimal.Decimal `json:"total_charges"`
	InternetService  string          `json:"internet_service"`
	ContractType     string          `json:"contract_type"`
	PaymentMethod    string          `json:"payment_method"`
	PaperlessBilling string          `json:"paperless_billing"`
	TechSupport      string          `json:"tech_support"`
	OnlineBackup     string          `json:"online_backup"`
}

// PredictionResultDTO resultado de una predicción.
type PredictionResultDTO struct {
	RiskLevel        string   `json:"risk_level"`
	ChurnProbability float64  `json:"churn_probability"`
	Confidence       *float64 `json:"confidence,omitempty"`
	Recommendations  []string `json:"recommendations"`
}

// PredictionRecordDTO entrada del historial.
type PredictionRecordDTO struct {
	ID        string              `json:"id"`
	SessionID string              `json:"session_id"`
	Profile   CustomerProfileDTO  `json:"profile"`
	Result    PredictionResultDTO `json:"result"`
	CreatedAt time.Time           `json:"created_at"`
}

// PredictionHistoryResponse listado del historial.
type PredictionHistoryResponse struct {
	Items []PredictionRecordDTO `json:"items"`
	Page  PageResponse          `json:"page"`
}

// HealthResponse estado de la aplicación y del servicio de predicción.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Predictor string `json:"predictor"` // "up" | "down"
}

// SessionResponse estado de la sesión del navegador (GET /api/session).
type SessionResponse struct {
	State              string               `json:"state"` // empty | loading | result
	Profile            CustomerProfileDTO   `json:"profile"`
	Result             *PredictionResultDTO `json:"result"`
	ProbabilityDisplay string               `json:"probability_display,omitempty"`
	Loading            bool                 `json:"loading"`
	Notice             string               `json:"notice,omitempty"`
}
