package ports

import (
	"context"
	"time"

	"github.com/outrix/churn-predictor/internal/domain/entity"
)

// Predictor puerto de salida hacia el servicio externo de predicción de churn.
// El servicio es una caja negra: la aplicación solo conoce este contrato.
type Predictor interface {
	// Predict envía el perfil y devuelve el resultado. Cualquier fallo
	// (red, estado HTTP, cuerpo inválido) cumple errors.Is(err, domain.ErrPredictionFailed).
	Predict(ctx context.Context, profile entity.CustomerProfile) (*entity.PredictionResult, error)

	// Health comprueba que el servicio responde.
	Health(ctx context.Context) error

	// BaseURL dirección configurada, para mensajes al usuario.
	BaseURL() string
}

// ReportGenerator genera el informe descargable de una predicción.
type ReportGenerator interface {
	GenerateReport(
		ctx context.Context,
		profile entity.CustomerProfile,
		result entity.PredictionResult,
		generatedAt time.Time,
	) ([]byte, error)
}
