package entity

import "time"

// RiskLevel clasificación gruesa de la probabilidad de abandono.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// PredictionResult respuesta del servicio externo. Inmutable una vez creada.
type PredictionResult struct {
	RiskLevel        RiskLevel
	ChurnProbability float64  // [0,1]
	Confidence       *float64 // opcional; nil si el servicio no lo envía
	Recommendations  []string
}

// PredictionRecord entrada del historial de predicciones.
type PredictionRecord struct {
	ID        string
	SessionID string
	Profile   CustomerProfile
	Result    PredictionResult
	CreatedAt time.Time
}
