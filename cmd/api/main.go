package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/outrix/churn-predictor/docs"
	"github.com/outrix/churn-predictor/internal/application/session"
	"github.com/outrix/churn-predictor/internal/application/usecase"
	"github.com/outrix/churn-predictor/internal/domain/repository"
	infrapdf "github.com/outrix/churn-predictor/internal/infrastructure/pdf"
	"github.com/outrix/churn-predictor/internal/infrastructure/postgres"
	"github.com/outrix/churn-predictor/internal/infrastructure/predictor"
	httpRouter "github.com/outrix/churn-predictor/internal/interfaces/http"
	"github.com/outrix/churn-predictor/internal/interfaces/view"
	"github.com/outrix/churn-predictor/pkg/config"
	"github.com/outrix/churn-predictor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("predictor", cfg.Predictor.BaseURL).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Historial opcional: sin HISTORY_ENABLED la app no toca PostgreSQL.
	var history repository.PredictionRepository
	if cfg.History.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()

		repo := postgres.NewPredictionRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("esquema del historial")
		}
		history = repo
		log.Info().Msg("historial de predicciones habilitado")
	}

	renderer := view.NewRenderer(cfg.UI.Locale)
	predictorClient := predictor.NewHTTPClient(cfg.Predictor.BaseURL, cfg.Predictor.Timeout)
	reportGenerator := infrapdf.NewReportGenerator(renderer.FormatProbability)
	predictionUC := usecase.NewPredictionUseCase(predictorClient, history, reportGenerator, log)

	sessions := session.NewRegistry(cfg.Session.TTL)
	go sessions.Run(ctx, cfg.Session.SweepPeriod, func(removed int) {
		log.Debug().Int("removed", removed).Int("active", sessions.Len()).Msg("sesiones expiradas")
	})

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Churn Predictor API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		PredictionUC: predictionUC,
		Sessions:     sessions,
		SessionStore: httpRouter.NewSessionStore(cfg.Session.CookieName, cfg.Session.TTL),
		Renderer:     renderer,
		AppName:      cfg.App.Name,
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
