package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/outrix/churn-predictor/internal/application/dto"
	"github.com/outrix/churn-predictor/internal/application/usecase"
	"github.com/outrix/churn-predictor/internal/domain"
)

// HistoryHandler historial de predicciones y estado del servicio.
type HistoryHandler struct {
	uc      *usecase.PredictionUseCase
	appName string
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *usecase.PredictionUseCase, appName string) *HistoryHandler {
	return &HistoryHandler{uc: uc, appName: appName}
}

// List godoc
// @Summary      Últimas predicciones
// @Tags         history
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(20)
// @Success      200    {object}  dto.PredictionHistoryResponse
// @Failure      503    {object}  dto.ErrorResponse
// @Router       /api/history [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		if errors.Is(err, domain.ErrHistoryDisabled) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "HISTORY_DISABLED", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Health godoc
// @Summary      Estado de la aplicación
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HistoryHandler) Health(c *fiber.Ctx) error {
	predictor := "down"
	if h.uc.PredictorUp(c.UserContext()) {
		predictor = "up"
	}
	return c.JSON(dto.HealthResponse{Status: "ok", Service: h.appName, Predictor: predictor})
}
