package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/outrix/churn-predictor/internal/application/dto"
	"github.com/outrix/churn-predictor/internal/application/session"
	"github.com/outrix/churn-predictor/internal/application/usecase"
	"github.com/outrix/churn-predictor/internal/domain"
	"github.com/outrix/churn-predictor/internal/interfaces/view"
)

// SessionHandler API JSON sobre la sesión del navegador (cookie churn_session).
type SessionHandler struct {
	uc       *usecase.PredictionUseCase
	renderer *view.Renderer
}

// NewSessionHandler construye el handler.
func NewSessionHandler(uc *usecase.PredictionUseCase, renderer *view.Renderer) *SessionHandler {
	return &SessionHandler{uc: uc, renderer: renderer}
}

// Get godoc
// @Summary      Estado de la sesión
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.response(GetSession(c).Snapshot()))
}

// UpdateField godoc
// @Summary      Actualizar un campo del perfil
// @Description  Acepta el nombre semántico (tenure_months) o el del servicio (tenure).
// @Description  Un valor numérico no interpretable se guarda como 0.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        name  path  string                   true  "Nombre del campo"
// @Param        body  body  dto.UpdateFieldRequest  true  "Nuevo valor"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/session/fields/{name} [patch]
func (h *SessionHandler) UpdateField(c *fiber.Ctx) error {
	var in dto.UpdateFieldRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sess := GetSession(c)
	if err := sess.Store().UpdateField(c.Params("name"), in.Value); err != nil {
		if errors.Is(err, domain.ErrUnknownField) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_FIELD", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(h.response(sess.Snapshot()))
}

// Predict godoc
// @Summary      Predecir churn con el perfil actual
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.PredictionResultDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/session/predict [post]
func (h *SessionHandler) Predict(c *fiber.Ctx) error {
	sess := GetSession(c)
	res, err := h.uc.Submit(c.UserContext(), sess)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBusy):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BUSY", Message: err.Error()})
		case errors.Is(err, domain.ErrPredictionFailed):
			sess.DismissNotice()
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PREDICTION_FAILED", Message: h.uc.FailureNotice()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.JSON(usecase.ToResultDTO(*res))
}

// Reset godoc
// @Summary      Restablecer el perfil y borrar el resultado
// @Tags         session
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Router       /api/session [delete]
func (h *SessionHandler) Reset(c *fiber.Ctx) error {
	sess := GetSession(c)
	sess.Reset()
	return c.JSON(h.response(sess.Snapshot()))
}

// Report godoc
// @Summary      Informe PDF del último resultado
// @Tags         session
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/session/report.pdf [get]
func (h *SessionHandler) Report(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Report(c.UserContext(), GetSession(c))
	if err != nil {
		if errors.Is(err, domain.ErrNoResult) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_RESULT", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}

func (h *SessionHandler) response(snap session.Snapshot) dto.SessionResponse {
	v := h.renderer.RenderSnapshot(snap)
	out := dto.SessionResponse{
		State:   string(v.State),
		Profile: usecase.ToProfileDTO(snap.Profile),
		Loading: snap.Loading,
		Notice:  snap.Notice,
	}
	if snap.Result != nil {
		r := usecase.ToResultDTO(*snap.Result)
		out.Result = &r
		out.ProbabilityDisplay = h.renderer.FormatProbability(snap.Result.ChurnProbability)
	}
	return out
}
