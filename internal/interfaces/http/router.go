package http

import (
	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	"github.com/outrix/churn-predictor/internal/application/session"
	"github.com/outrix/churn-predictor/internal/application/usecase"
	"github.com/outrix/churn-predictor/internal/interfaces/view"
	"github.com/outrix/churn-predictor/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PredictionUC *usecase.PredictionUseCase
	Sessions     *session.Registry
	SessionStore *fibersession.Store
	Renderer     *view.Renderer
	AppName      string
	Log          *logger.Logger
}

// Router registra la página HTML y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	historyHandler := NewHistoryHandler(deps.PredictionUC, deps.AppName)
	app.Get("/health", historyHandler.Health)
	app.Get("/api/history", historyHandler.List)

	withSession := SessionMiddleware(deps.SessionStore, deps.Sessions)

	// Página (POST + redirect)
	pageHandler := NewPageHandler(deps.PredictionUC, deps.Renderer, deps.AppName, deps.Log)
	app.Get("/", withSession, pageHandler.Index)
	app.Post("/fields", withSession, pageHandler.Fields)
	app.Post("/predict", withSession, pageHandler.Predict)
	app.Post("/reset", withSession, pageHandler.Reset)

	// API JSON de la sesión
	sessions := app.Group("/api/session", withSession)
	sessionHandler := NewSessionHandler(deps.PredictionUC, deps.Renderer)
	sessions.Get("/", sessionHandler.Get)
	sessions.Delete("/", sessionHandler.Reset)
	sessions.Patch("/fields/:name", sessionHandler.UpdateField)
	sessions.Post("/predict", sessionHandler.Predict)
	sessions.Get("/report.pdf", sessionHandler.Report)
}
