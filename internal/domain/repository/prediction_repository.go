package repository

import (
	"context"

	"github.com/outrix/churn-predictor/internal/domain/entity"
)

// PredictionRepository puerto de persistencia del historial de predicciones.
type PredictionRepository interface {
	Save(ctx context.Context, record *entity.PredictionRecord) error
	ListRecent(ctx context.Context, limit int) ([]*entity.PredictionRecord, error)
}
