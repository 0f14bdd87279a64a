package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/outrix/churn-predictor/internal/application/dto"
	"github.com/outrix/churn-predictor/internal/application/ports"
	"github.com/outrix/churn-predictor/internal/application/session"
	"github.com/outrix/churn-predictor/internal/domain"
	"github.com/outrix/churn-predictor/internal/domain/entity"
	"github.com/outrix/churn-predictor/internal/domain/repository"
	"github.com/outrix/churn-predictor/pkg/logger"
)

// PredictionUseCase orquesta el envío del formulario al servicio de predicción.
// Una sesión solo admite una predicción en curso; el historial es opcional.
type PredictionUseCase struct {
	predictor ports.Predictor
	history   repository.PredictionRepository // nil = deshabilitado
	reports   ports.ReportGenerator
	log       *logger.Logger
	now       func() time.Time
}

// NewPredictionUseCase construye el caso de uso. history puede ser nil.
func NewPredictionUseCase(
	predictor ports.Predictor,
	history repository.PredictionRepository,
	reports ports.ReportGenerator,
	log *logger.Logger,
) *PredictionUseCase {
	return &PredictionUseCase{
		predictor: predictor,
		history:   history,
		reports:   reports,
		log:       log,
		now:       time.Now,
	}
}

// FailureNotice texto único que ve el usuario ante cualquier fallo de predicción.
func (uc *PredictionUseCase) FailureNotice() string {
	return fmt.Sprintf("Prediction service unavailable: ensure the API is running at %s.", uc.predictor.BaseURL())
}

// Submit envía el perfil actual de la sesión. Devuelve domain.ErrBusy si ya hay un envío en
// curso. En fallo la sesión queda sin resultado y con el aviso de FailureNotice; el perfil
// nunca se modifica. loading se limpia siempre, incluso ante panic del adaptador.
func (uc *PredictionUseCase) Submit(ctx context.Context, sess *session.Session) (result *entity.PredictionResult, err error) {
	if err := sess.Begin(); err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			sess.Finish(nil, uc.FailureNotice())
			return
		}
		sess.Finish(result, "")
	}()

	profile := sess.Store().Profile()
	start := uc.now()

	result, err = uc.predictor.Predict(ctx, profile)
	if err != nil {
		uc.log.Warn().Err(err).
			Str("session_id", sess.ID()).
			Str("predictor", uc.predictor.BaseURL()).
			Msg("predicción fallida")
		if !errors.Is(err, domain.ErrPredictionFailed) {
			err = fmt.Errorf("%w: %w", domain.ErrPredictionFailed, err)
		}
		return nil, err
	}

	uc.log.Debug().
		Str("session_id", sess.ID()).
		Str("risk_level", string(result.RiskLevel)).
		Float64("churn_probability", result.ChurnProbability).
		Dur("elapsed", uc.now().Sub(start)).
		Msg("predicción recibida")

	uc.record(ctx, sess.ID(), profile, *result)
	return result, nil
}

// record guarda en el historial; un fallo aquí no afecta al usuario.
func (uc *PredictionUseCase) record(ctx context.Context, sessionID string, profile entity.CustomerProfile, result entity.PredictionResult) {
	if uc.history == nil {
		return
	}
	rec := &entity.PredictionRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Profile:   profile,
		Result:    result,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.history.Save(ctx, rec); err != nil {
		uc.log.Error().Err(err).Str("session_id", sessionID).Msg("guardar historial de predicción")
	}
}

// Report genera el PDF del resultado actual de la sesión.
// Devuelve domain.ErrNoResult si la sesión aún no tiene resultado.
func (uc *PredictionUseCase) Report(ctx context.Context, sess *session.Session) ([]byte, string, error) {
	snap := sess.Snapshot()
	if snap.Result == nil {
		return nil, "", domain.ErrNoResult
	}
	now := uc.now()
	pdf, err := uc.reports.GenerateReport(ctx, snap.Profile, *snap.Result, now)
	if err != nil {
		return nil, "", fmt.Errorf("informe: %w", err)
	}
	filename := fmt.Sprintf("churn-report-%s.pdf", now.UTC().Format("20060102-150405"))
	return pdf, filename, nil
}

// History lista las últimas predicciones guardadas.
func (uc *PredictionUseCase) History(ctx context.Context, limit int) (*dto.PredictionHistoryResponse, error) {
	if uc.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	list, err := uc.history.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("historial: %w", err)
	}
	items := make([]dto.PredictionRecordDTO, 0, len(list))
	for _, r := range list {
		items = append(items, dto.PredictionRecordDTO{
			ID:        r.ID,
			SessionID: r.SessionID,
			Profile:   ToProfileDTO(r.Profile),
			Result:    ToResultDTO(r.Result),
			CreatedAt: r.CreatedAt,
		})
	}
	return &dto.PredictionHistoryResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: 0, Total: len(items)},
	}, nil
}

// PredictorUp indica si el servicio externo responde a /health.
func (uc *PredictionUseCase) PredictorUp(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := uc.predictor.Health(ctx); err != nil {
		uc.log.Debug().Err(err).Msg("servicio de predicción no disponible")
		return false
	}
	return true
}

// ToProfileDTO mapea la entidad al formato de la API.
func ToProfileDTO(p entity.CustomerProfile) dto.CustomerProfileDTO {
	return dto.CustomerProfileDTO{
		Gender:           string(p.Gender),
		Age:              p.Age,
		TenureMonths:     p.TenureMonths,
		MonthlyCharges:   p.MonthlyCharges,
		TotalCharges:     p.TotalCharges,
		InternetService:  string(p.InternetService),
		ContractType:     string(p.ContractType),
		PaymentMethod:    p.PaymentMethod,
		PaperlessBilling: string(p.PaperlessBilling),
		TechSupport:      string(p.TechSupport),
		OnlineBackup:     string(p.OnlineBackup),
	}
}

// ToResultDTO mapea el resultado al formato de la API.
func ToResultDTO(r entity.PredictionResult) dto.PredictionResultDTO {
	recs := r.Recommendations
	if recs == nil {
		recs = []string{}
	}
	return dto.PredictionResultDTO{
		RiskLevel:        string(r.RiskLevel),
		ChurnProbability: r.ChurnProbability,
		Confidence:       r.Confidence,
		Recommendations:  recs,
	}
}
