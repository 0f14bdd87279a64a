package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/outrix/churn-predictor/internal/domain/entity"
	"github.com/outrix/churn-predictor/internal/domain/repository"
)

var _ repository.PredictionRepository = (*PredictionRepo)(nil)

const createPredictionHistory = `
	CREATE TABLE IF NOT EXISTS prediction_history (
	    id                UUID PRIMARY KEY,
	    session_id        TEXT             NOT NULL,
	    gender            TEXT             NOT NULL,
	    age               INTEGER          NOT NULL,
	    tenure_months     INTEGER          NOT NULL,
	    monthly_charges   NUMERIC          NOT NULL,
	    total_charges     NUMERIC          NOT NULL,
	    internet_service  TEXT             NOT NULL,
	    contract_type     TEXT             NOT NULL,
	    payment_method    TEXT             NOT NULL,
	    paperless_billing TEXT             NOT NULL,
	    tech_support      TEXT             NOT NULL,
	    online_backup     TEXT             NOT NULL,
	    risk_level        TEXT             NOT NULL,
	    churn_probability DOUBLE PRECISION NOT NULL,
	    confidence        DOUBLE PRECISION,
	    recommendations   TEXT[]           NOT NULL,
	    created_at        TIMESTAMPTZ      NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_prediction_history_created_at
	    ON prediction_history (created_at DESC);`

// PredictionRepo historial de predicciones en PostgreSQL (usable con pool o tx).
type PredictionRepo struct {
	q Querier
}

// NewPredictionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPredictionRepository(q Querier) *PredictionRepo {
	return &PredictionRepo{q: q}
}

// EnsureSchema crea la tabla si no existe.
func (r *PredictionRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, createPredictionHistory); err != nil {
		return fmt.Errorf("crear prediction_history: %w", err)
	}
	return nil
}

// Save persiste una predicción exitosa.
func (r *PredictionRepo) Save(ctx context.Context, rec *entity.PredictionRecord) error {
	const query = `
		INSERT INTO prediction_history (
		    id, session_id, gender, age, tenure_months, monthly_charges, total_charges,
		    internet_service, contract_type, payment_method, paperless_billing, tech_support,
		    online_backup, risk_level, churn_probability, confidence, recommendations, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	p := rec.Profile
	recs := rec.Result.Recommendations
	if recs == nil {
		recs = []string{}
	}
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.SessionID, string(p.Gender), p.Age, p.TenureMonths, p.MonthlyCharges, p.TotalCharges,
		string(p.InternetService), string(p.ContractType), p.PaymentMethod, string(p.PaperlessBilling),
		string(p.TechSupport), string(p.OnlineBackup),
		string(rec.Result.RiskLevel), rec.Result.ChurnProbability, rec.Result.Confidence, recs,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert prediction_history: %w", err)
	}
	return nil
}

// ListRecent devuelve las últimas predicciones, la más reciente primero.
// Si la tabla aún no existe devuelve una lista vacía.
func (r *PredictionRepo) ListRecent(ctx context.Context, limit int) ([]*entity.PredictionRecord, error) {
	const query = `
		SELECT id::TEXT, session_id, gender, age, tenure_months, monthly_charges, total_charges,
		       internet_service, contract_type, payment_method, paperless_billing, tech_support,
		       online_backup, risk_level, churn_probability, confidence, recommendations, created_at
		FROM prediction_history
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		if isUndefinedTable(err) {
			return []*entity.PredictionRecord{}, nil
		}
		return nil, fmt.Errorf("list prediction_history: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.PredictionRecord, 0, limit)
	for rows.Next() {
		var (
			rec                                         entity.PredictionRecord
			gender, internet, contract, paperless, tech string
			backup, risk                                string
			monthly, total                              decimal.Decimal
		)
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &gender, &rec.Profile.Age, &rec.Profile.TenureMonths, &monthly, &total,
			&internet, &contract, &rec.Profile.PaymentMethod, &paperless, &tech,
			&backup, &risk, &rec.Result.ChurnProbability, &rec.Result.Confidence, &rec.Result.Recommendations,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prediction_history: %w", err)
		}
		rec.Profile.Gender = entity.Gender(gender)
		rec.Profile.MonthlyCharges = monthly
		rec.Profile.TotalCharges = total
		rec.Profile.InternetService = entity.InternetService(internet)
		rec.Profile.ContractType = entity.ContractType(contract)
		rec.Profile.PaperlessBilling = entity.YesNo(paperless)
		rec.Profile.TechSupport = entity.YesNo(tech)
		rec.Profile.OnlineBackup = entity.YesNo(backup)
		rec.Result.RiskLevel = entity.RiskLevel(risk)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar prediction_history: %w", err)
	}
	return out, nil
}
