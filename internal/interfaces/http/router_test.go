package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outrix/churn-predictor/internal/application/dto"
	"github.com/outrix/churn-predictor/internal/application/session"
	"github.com/outrix/churn-predictor/internal/application/usecase"
	"github.com/outrix/churn-predictor/internal/domain/entity"
	"github.com/outrix/churn-predictor/internal/domain/repository"
	"github.com/outrix/churn-predictor/internal/infrastructure/pdf"
	"github.com/outrix/churn-predictor/internal/infrastructure/predictor"
	apphttp "github.com/outrix/churn-predictor/internal/interfaces/http"
	"github.com/outrix/churn-predictor/internal/interfaces/view"
	"github.com/outrix/churn-predictor/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const highRisk = `{"risk_level":"HIGH","churn_probability":0.82,"recommendations":["Offer discount","Call customer"]}`

// fakePredictor servicio de predicción falso: responde status/body y guarda el último cuerpo.
type fakePredictor struct {
	mu     sync.Mutex
	status int
	body   string
	down   bool
	last   map[string]any
	calls  int
}

func (f *fakePredictor) set(status int, body string) {
	f.mu.Lock()
	f.status, f.body = status, body
	f.mu.Unlock()
}

func (f *fakePredictor) lastBody() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func (f *fakePredictor) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		f.last = body
		f.calls++
		status, resp := f.status, f.body
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		down := f.down
		f.mu.Unlock()
		if down {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	return mux
}

type memoryHistory struct {
	mu      sync.Mutex
	records []*entity.PredictionRecord
}

func (h *memoryHistory) Save(_ context.Context, r *entity.PredictionRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append([]*entity.PredictionRecord{r}, h.records...)
	return nil
}

func (h *memoryHistory) ListRecent(_ context.Context, limit int) ([]*entity.PredictionRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.records) < limit {
		limit = len(h.records)
	}
	return h.records[:limit], nil
}

type testEnv struct {
	app      *fiber.App
	baseURL  string
	sessions *session.Registry
}

// buildTestApp arma la aplicación completa contra el servicio falso. history puede ser nil.
func buildTestApp(t *testing.T, fake *fakePredictor, history repository.PredictionRepository) testEnv {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	renderer := view.NewRenderer("en")
	uc := usecase.NewPredictionUseCase(
		predictor.NewHTTPClient(srv.URL, 5*time.Second),
		history,
		pdf.NewReportGenerator(renderer.FormatProbability),
		logger.Nop(),
	)
	sessions := session.NewRegistry(time.Hour)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		PredictionUC: uc,
		Sessions:     sessions,
		SessionStore: apphttp.NewSessionStore("churn_session", time.Hour),
		Renderer:     renderer,
		AppName:      "churn-predictor",
		Log:          logger.Nop(),
	})
	return testEnv{app: app, baseURL: srv.URL, sessions: sessions}
}

// browser conserva la cookie de sesión entre peticiones.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies []*http.Cookie
}

func newBrowser(t *testing.T, app *fiber.App) *browser {
	return &browser{t: t, app: app}
}

func (b *browser) do(method, path, contentType, body string) *http.Response {
	b.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	resp, err := b.app.Test(req, -1)
	require.NoError(b.t, err)
	if cs := resp.Cookies(); len(cs) > 0 {
		b.cookies = cs
	}
	return resp
}

func (b *browser) postForm(path string, values url.Values) *http.Response {
	return b.do(http.MethodPost, path, fiber.MIMEApplicationForm, values.Encode())
}

func (b *browser) page() string {
	b.t.Helper()
	resp := b.do(http.MethodGet, "/", "", "")
	defer resp.Body.Close()
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return string(raw)
}

func (b *browser) session() dto.SessionResponse {
	b.t.Helper()
	resp := b.do(http.MethodGet, "/api/session", "", "")
	defer resp.Body.Close()
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	var out dto.SessionResponse
	require.NoError(b.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Página HTML
// ──────────────────────────────────────────────────────────────────────────────

func TestPagina_SinResultado(t *testing.T) {
	env := buildTestApp(t, &fakePredictor{status: http.StatusOK, body: highRisk}, nil)
	b := newBrowser(t, env.app)

	html := b.page()
	assert.Contains(t, html, "run a prediction to see the churn risk")
	assert.Contains(t, html, "Prediction service online")
	assert.NotContains(t, html, "RISK</span>")

	require.NotEmpty(t, b.cookies)
	assert.Equal(t, "churn_session", b.cookies[0].Name)
}

func TestPagina_PredictAplicaCamposYRedirige(t *testing.T) {
	fake := &fakePredictor{status: http.StatusOK, body: highRisk}
	env := buildTestApp(t, fake, nil)
	b := newBrowser(t, env.app)
	b.page()

	resp := b.postForm("/predict", url.Values{
		"age":           {"61"},
		"tenure_months": {"3"},
		"contract_type": {"Two year"},
		"predict":       {""},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	sent := fake.lastBody()
	require.NotNil(t, sent)
	assert.EqualValues(t, 61, sent["age"])
	assert.EqualValues(t, 3, sent["tenure"])
	assert.Equal(t, "Two year", sent["contract"])

	html := b.page()
	assert.Contains(t, html, "HIGH RISK")
	assert.Contains(t, html, "82.0%")
	assert.Contains(t, html, "Offer discount")
	assert.Contains(t, html, "/api/session/report.pdf")
}

func TestPagina_FalloMuestraAvisoUnaVez(t *testing.T) {
	env := buildTestApp(t, &fakePredictor{status: http.StatusInternalServerError, body: `{"detail":"boom"}`}, nil)
	b := newBrowser(t, env.app)

	resp := b.postForm("/predict", url.Values{"age": {"40"}})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	html := b.page()
	assert.Contains(t, html, "Prediction service unavailable: ensure the API is running at "+env.baseURL)
	assert.NotContains(t, html, "RISK</span>")

	assert.NotContains(t, b.page(), "Prediction service unavailable", "el aviso se descarta tras mostrarse")
	assert.Equal(t, 40, b.session().Profile.Age, "un fallo no altera el perfil")
}

func TestPagina_FieldsYReset(t *testing.T) {
	env := buildTestApp(t, &fakePredictor{status: http.StatusOK, body: highRisk}, nil)
	b := newBrowser(t, env.app)

	resp := b.postForm("/fields", url.Values{"age": {"50"}, "monthly_charges": {"abc"}})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	s := b.session()
	assert.Equal(t, 50, s.Profile.Age)
	assert.True(t, s.Profile.MonthlyCharges.IsZero(), "un número inválido se guarda como 0")
	assert.Equal(t, 12, s.Profile.TenureMonths, "los campos no enviados no cambian")

	resp = b.postForm("/reset", url.Values{})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 35, b.session().Profile.Age)
}

func TestPagina_ServicioCaido(t *testing.T) {
	env := buildTestApp(t, &fakePredictor{down: true}, nil)
	assert.Contains(t, newBrowser(t, env.app).page(), "Prediction service offline")
}

// ──────────────────────────────────────────────────────────────────────────────
// API JSON
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_UpdateFieldYPredict(t *testing.T) {
	env := buildTestApp(t, &fakePredictor{status: http.StatusOK, body: highRisk}, nil)
	b := newBrowser(t, env.app)

	s := b.session()
	assert.Equal(t, "empty", s.State)
	assert.Nil(t, s.Result)

	resp := b.do(http.MethodPatch, "/api/session/fields/tenure", fiber.MIMEApplicationJSON, `{"value":"24"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	resp.Body.Close()
	assert.Equal(t, 24, updated.Profile.TenureMonths)

	resp = b.do(http.MethodPatch, "/api/session/fields/favourite_colour", fiber.MIMEApplicationJSON, `{"value":"red"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_FIELD", decodeError(t, resp).Code)

	resp = b.do(http.MethodPost, "/api/session/predict", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res dto.PredictionResultDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	resp.Body.Close()
	assert.Equal(t, "HIGH", res.RiskLevel)
	assert.InDelta(t, 0.82, res.ChurnProbability, 1e-9)

	s = b.session()
	assert.Equal(t, "result", s.State)
	assert.Equal(t, "82.0%", s.ProbabilityDisplay)
	assert.False(t, s.Loading)

	resp = b.do(http.MethodDelete, "/api/session", "", "")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s = b.session()
	assert.Equal(t, "empty", s.State)
	assert.Equal(t, 12, s.Profile.TenureMonths)
}

func TestAPI_PredictFallido(t *testing.T) {
	fake := &fakePredictor{status: http.StatusOK, body: `{"risk_level":"EXTREME","churn_probability":0.5,"recommendations":[]}`}
	env := buildTestApp(t, fake, nil)
	b := newBrowser(t, env.app)

	resp := b.do(http.MethodPost, "/api/session/predict", "", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	e := decodeError(t, resp)
	assert.Equal(t, "PREDICTION_FAILED", e.Code)
	assert.Contains(t, e.Message, env.baseURL)

	s := b.session()
	assert.Equal(t, "empty", s.State)
	assert.Empty(t, s.Notice, "la API ya devolvió el error")
}

func TestAPI_PredictNoReentrante(t *testing.T) {
	fake := &fakePredictor{status: http.StatusOK, body: highRisk}
	env := buildTestApp(t, fake, nil)
	b := newBrowser(t, env.app)
	b.session()
	require.NotEmpty(t, b.cookies)

	// Simula una predicción en curso en la misma sesión.
	sess := env.sessions.Get(b.cookies[0].Value)
	require.NoError(t, sess.Begin())

	resp := b.do(http.MethodPost, "/api/session/predict", "", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "BUSY", decodeError(t, resp).Code)

	s := b.session()
	assert.Equal(t, "loading", s.State)
	assert.True(t, s.Loading)
	html := b.page()
	assert.Contains(t, html, "Processing...")
	assert.Contains(t, html, "disabled")

	sess.Finish(nil, "")
	resp = b.do(http.MethodPost, "/api/session/predict", "", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, fake.calls)
}

func TestAPI_SesionesIndependientes(t *testing.T) {
	env := buildTestApp(t, &fakePredictor{status: http.StatusOK, body: highRisk}, nil)
	alice, bob := newBrowser(t, env.app), newBrowser(t, env.app)

	resp := alice.do(http.MethodPatch, "/api/session/fields/age", fiber.MIMEApplicationJSON, `{"value":"70"}`)
	resp.Body.Close()
	resp = alice.do(http.MethodPost, "/api/session/predict", "", "")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	s := bob.session()
	assert.Equal(t, "empty", s.State)
	assert.Equal(t, 35, s.Profile.Age)
	assert.Equal(t, "result", alice.session().State)
}

func TestAPI_Report(t *testing.T) {
	env := buildTestApp(t, &fakePredictor{status: http.StatusOK, body: highRisk}, nil)
	b := newBrowser(t, env.app)

	resp := b.do(http.MethodGet, "/api/session/report.pdf", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NO_RESULT", decodeError(t, resp).Code)

	resp = b.do(http.MethodPost, "/api/session/predict", "", "")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = b.do(http.MethodGet, "/api/session/report.pdf", "", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "churn-report-")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial y health
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_Deshabilitado(t *testing.T) {
	env := buildTestApp(t, &fakePredictor{status: http.StatusOK, body: highRisk}, nil)
	resp := newBrowser(t, env.app).do(http.MethodGet, "/api/history", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "HISTORY_DISABLED", decodeError(t, resp).Code)
}

func TestHistory_ListaPrediccionesExitosas(t *testing.T) {
	fake := &fakePredictor{status: http.StatusOK, body: highRisk}
	env := buildTestApp(t, fake, &memoryHistory{})
	b := newBrowser(t, env.app)

	resp := b.do(http.MethodPost, "/api/session/predict", "", "")
	resp.Body.Close()
	fake.set(http.StatusServiceUnavailable, "")
	resp = b.do(http.MethodPost, "/api/session/predict", "", "")
	resp.Body.Close()

	resp = b.do(http.MethodGet, "/api/history?limit=5", "", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.PredictionHistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Items, 1, "solo se guardan las predicciones exitosas")
	assert.Equal(t, "HIGH", out.Items[0].Result.RiskLevel)
	assert.Equal(t, 5, out.Page.Limit)
}

func TestHealth(t *testing.T) {
	fake := &fakePredictor{}
	env := buildTestApp(t, fake, nil)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	var up dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&up))
	resp.Body.Close()
	assert.Equal(t, "ok", up.Status)
	assert.Equal(t, "up", up.Predictor)

	fake.mu.Lock()
	fake.down = true
	fake.mu.Unlock()
	resp, err = env.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	var down dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&down))
	resp.Body.Close()
	assert.Equal(t, "down", down.Predictor)
	assert.Empty(t, resp.Cookies(), "health no crea sesión")
}
