package view_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outrix/churn-predictor/internal/application/session"
	"github.com/outrix/churn-predictor/internal/domain/entity"
	"github.com/outrix/churn-predictor/internal/interfaces/view"
)

func highResult() *entity.PredictionResult {
	return &entity.PredictionResult{
		RiskLevel:        entity.RiskHigh,
		ChurnProbability: 0.82,
		Recommendations:  []string{"Offer discount", "Call customer"},
	}
}

func TestRender_SinResultado(t *testing.T) {
	r := view.NewRenderer("en")
	v := r.Render(entity.DefaultCustomerProfile(), nil, false)

	assert.Equal(t, view.StateEmpty, v.State)
	assert.NotEmpty(t, v.Prompt)
	assert.Nil(t, v.Result)
	assert.False(t, v.SubmitDisabled)
	assert.Len(t, v.Fields, len(entity.Fields()))
}

func TestRender_ResultadoHigh(t *testing.T) {
	r := view.NewRenderer("en")
	v := r.Render(entity.DefaultCustomerProfile(), highResult(), false)

	require.Equal(t, view.StateResult, v.State)
	require.NotNil(t, v.Result)
	assert.Equal(t, "HIGH", v.Result.RiskLevel)
	assert.Equal(t, "high", v.Result.RiskClass)
	assert.Equal(t, "82.0%", v.Result.Probability)
	assert.Empty(t, v.Result.Confidence)
	require.Len(t, v.Result.Recommendations, 2)
	assert.Equal(t, "Offer discount", v.Result.Recommendations[0].Text)
	assert.Equal(t, "Call customer", v.Result.Recommendations[1].Text)
	assert.Equal(t, 1, v.Result.Recommendations[0].Position)
	assert.Equal(t, "🎯", v.Result.Recommendations[0].Icon)
	assert.Equal(t, "💰", v.Result.Recommendations[1].Icon)
}

func TestRender_LoadingTienePrioridad(t *testing.T) {
	r := view.NewRenderer("en")
	v := r.Render(entity.DefaultCustomerProfile(), highResult(), true)

	assert.Equal(t, view.StateLoading, v.State)
	assert.True(t, v.Loading)
	assert.True(t, v.SubmitDisabled, "el envío no es reentrante")
	assert.Nil(t, v.Result)
}

func TestFormatProbability_Bordes(t *testing.T) {
	r := view.NewRenderer("en")
	assert.Equal(t, "0.0%", r.FormatProbability(0))
	assert.Equal(t, "100.0%", r.FormatProbability(1))
	assert.Equal(t, "45.7%", r.FormatProbability(0.4567))
}

func TestRender_Confidence(t *testing.T) {
	conf := 0.64
	res := highResult()
	res.Confidence = &conf

	v := view.NewRenderer("en").Render(entity.DefaultCustomerProfile(), res, false)
	assert.Equal(t, "64.0%", v.Result.Confidence)
}

func TestRecommendationIcon_PorDefectoTrasLaCuarta(t *testing.T) {
	assert.Equal(t, "🎯", view.RecommendationIcon(0))
	assert.Equal(t, "🚀", view.RecommendationIcon(3))
	assert.Equal(t, "⚡", view.RecommendationIcon(4))
	assert.Equal(t, "⚡", view.RecommendationIcon(10))
}

// Dos llamadas con las mismas entradas producen el mismo View.
func TestRender_EsPura(t *testing.T) {
	r := view.NewRenderer("en")
	profile := entity.DefaultCustomerProfile()
	res := highResult()

	for _, loading := range []bool{false, true} {
		a := r.Render(profile, res, loading)
		b := r.Render(profile, res, loading)
		assert.Equal(t, a, b)
	}
	assert.Equal(t, r.Render(profile, nil, false), r.Render(profile, nil, false))
}

func TestRender_CamposReflejanElPerfil(t *testing.T) {
	profile := entity.DefaultCustomerProfile()
	profile.PaymentMethod = "Crypto (manual)"
	profile.Age = 42

	v := view.NewRenderer("en").Render(profile, nil, false)

	byName := map[string]view.Field{}
	for _, f := range v.Fields {
		byName[f.Name] = f
	}
	assert.Equal(t, "42", byName["age"].Value)
	assert.Equal(t, "65.00", byName["monthly_charges"].Value)
	assert.Equal(t, "number", byName["tenure_months"].Kind)

	pm := byName["payment_method"]
	require.Equal(t, "select", pm.Kind)
	last := pm.Options[len(pm.Options)-1]
	assert.Equal(t, "Crypto (manual)", last.Value, "un valor libre se conserva como opción")
	assert.True(t, last.Selected)
}

func TestRenderSnapshot_IncluyeAviso(t *testing.T) {
	snap := session.Snapshot{Profile: entity.DefaultCustomerProfile(), Notice: "service down"}
	v := view.NewRenderer("en").RenderSnapshot(snap)
	assert.Equal(t, view.StateEmpty, v.State)
	assert.Equal(t, "service down", v.Notice)
}

func TestWriteHTML(t *testing.T) {
	r := view.NewRenderer("en")
	var buf bytes.Buffer
	err := view.WriteHTML(&buf, view.PageData{
		Title:       "Churn Predictor",
		PredictorUp: true,
		View:        r.Render(entity.DefaultCustomerProfile(), highResult(), false),
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "HIGH RISK")
	assert.Contains(t, html, "82.0%")
	assert.Contains(t, html, "Offer discount")
	assert.Contains(t, html, `name="monthly_charges"`)
	assert.Contains(t, html, "Prediction service online")
}
