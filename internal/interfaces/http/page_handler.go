package http

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/outrix/churn-predictor/internal/application/form"
	"github.com/outrix/churn-predictor/internal/application/usecase"
	"github.com/outrix/churn-predictor/internal/domain"
	"github.com/outrix/churn-predictor/internal/domain/entity"
	"github.com/outrix/churn-predictor/internal/interfaces/view"
	"github.com/outrix/churn-predictor/pkg/logger"
)

// PageHandler sirve la página HTML y sus formularios (POST + redirect a /).
type PageHandler struct {
	uc       *usecase.PredictionUseCase
	renderer *view.Renderer
	title    string
	log      *logger.Logger
}

// NewPageHandler construye el handler.
func NewPageHandler(uc *usecase.PredictionUseCase, renderer *view.Renderer, title string, log *logger.Logger) *PageHandler {
	return &PageHandler{uc: uc, renderer: renderer, title: title, log: log}
}

// Index pinta la página de la sesión. El aviso de fallo se muestra una sola vez.
func (h *PageHandler) Index(c *fiber.Ctx) error {
	sess := GetSession(c)
	data := view.PageData{
		Title:       h.title,
		PredictorUp: h.uc.PredictorUp(c.UserContext()),
		View:        h.renderer.RenderSnapshot(sess.Snapshot()),
	}
	var buf bytes.Buffer
	if err := view.WriteHTML(&buf, data); err != nil {
		h.log.Error().Err(err).Msg("renderizar página")
		return c.Status(fiber.StatusInternalServerError).SendString("error interno")
	}
	sess.DismissNotice()
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// Fields aplica los campos enviados en el formulario.
func (h *PageHandler) Fields(c *fiber.Ctx) error {
	applyForm(c, GetSession(c).Store())
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Predict aplica los campos enviados y lanza la predicción. Un fallo queda como aviso en la sesión.
func (h *PageHandler) Predict(c *fiber.Ctx) error {
	sess := GetSession(c)
	applyForm(c, sess.Store())
	if _, err := h.uc.Submit(c.UserContext(), sess); err != nil && !errors.Is(err, domain.ErrPredictionFailed) {
		h.log.Debug().Err(err).Str("session_id", sess.ID()).Msg("envío ignorado")
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Reset vuelve al perfil por defecto y borra el resultado.
func (h *PageHandler) Reset(c *fiber.Ctx) error {
	GetSession(c).Reset()
	return c.Redirect("/", fiber.StatusSeeOther)
}

// applyForm aplica cada campo conocido presente en el cuerpo urlencoded.
// Los botones y cualquier otra clave se ignoran.
func applyForm(c *fiber.Ctx, store *form.Store) {
	args := c.Request().PostArgs()
	for _, f := range entity.Fields() {
		name := string(f)
		if !args.Has(name) {
			continue
		}
		// Los nombres vienen de entity.Fields(): UpdateField no puede fallar aquí.
		_ = store.UpdateField(name, string(args.Peek(name)))
	}
}
