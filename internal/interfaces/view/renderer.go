// Package view convierte el estado de una sesión en el modelo que pinta la página.
//
// Render es una función pura de (perfil, resultado o nil, loading): sin red, sin
// validación de campos y sin estado oculto. La plantilla HTML solo recorre el View.
package view

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/outrix/churn-predictor/internal/application/session"
	"github.com/outrix/churn-predictor/internal/domain/entity"
)

// State estado visible del panel de resultados.
type State string

const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateResult  State = "result"
)

const (
	promptText      = "Fill in the customer profile and run a prediction to see the churn risk."
	submitLabel     = "Predict churn"
	submitBusyLabel = "Processing..."
	defaultIcon     = "⚡"
)

// positionIcons iconos de las cuatro primeras recomendaciones.
var positionIcons = []string{"🎯", "💰", "📞", "🚀"}

// Option opción de un select.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Field control de entrada del formulario.
type Field struct {
	Name    string // nombre semántico, el que acepta UpdateField
	Label   string
	Kind    string // "select" | "number"
	Value   string
	Min     string
	Max     string
	Step    string
	Options []Option
}

// Recommendation recomendación numerada con su icono.
type Recommendation struct {
	Position int
	Icon     string
	Text     string
}

// Result panel de resultado.
type Result struct {
	RiskLevel       string
	RiskClass       string // low | medium | high
	Probability     string // "82.0%"
	Confidence      string // vacío si el servicio no lo envía
	Recommendations []Recommendation
}

// View todo lo que necesita la plantilla.
type View struct {
	State          State
	Loading        bool
	SubmitDisabled bool
	SubmitLabel    string
	Prompt         string
	Fields         []Field
	Result         *Result
	Notice         string
}

// Renderer formatea números según el locale configurado.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer construye el renderer; un locale inválido cae a inglés.
func NewRenderer(locale string) *Renderer {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Renderer{printer: message.NewPrinter(tag)}
}

// Render mapea (perfil, resultado, loading) al View. Loading tiene prioridad sobre un resultado previo.
func (r *Renderer) Render(profile entity.CustomerProfile, result *entity.PredictionResult, loading bool) View {
	v := View{
		Loading:        loading,
		SubmitDisabled: loading,
		SubmitLabel:    submitLabel,
		Fields:         formFields(profile),
	}
	switch {
	case loading:
		v.State = StateLoading
		v.SubmitLabel = submitBusyLabel
	case result != nil:
		v.State = StateResult
		v.Result = r.result(*result)
	default:
		v.State = StateEmpty
		v.Prompt = promptText
	}
	return v
}

// RenderSnapshot igual que Render, más el aviso de fallo de la sesión.
func (r *Renderer) RenderSnapshot(snap session.Snapshot) View {
	v := r.Render(snap.Profile, snap.Result, snap.Loading)
	v.Notice = snap.Notice
	return v
}

// FormatProbability 0.82 -> "82.0%".
func (r *Renderer) FormatProbability(p float64) string {
	return r.printer.Sprintf("%.1f%%", p*100)
}

// RecommendationIcon icono por posición (0-based), con icono por defecto a partir de la quinta.
func RecommendationIcon(i int) string {
	if i >= 0 && i < len(positionIcons) {
		return positionIcons[i]
	}
	return defaultIcon
}

func (r *Renderer) result(res entity.PredictionResult) *Result {
	out := &Result{
		RiskLevel:       string(res.RiskLevel),
		RiskClass:       strings.ToLower(string(res.RiskLevel)),
		Probability:     r.FormatProbability(res.ChurnProbability),
		Recommendations: make([]Recommendation, 0, len(res.Recommendations)),
	}
	if res.Confidence != nil {
		out.Confidence = r.FormatProbability(*res.Confidence)
	}
	for i, text := range res.Recommendations {
		out.Recommendations = append(out.Recommendations, Recommendation{
			Position: i + 1,
			Icon:     RecommendationIcon(i),
			Text:     text,
		})
	}
	return out
}

func formFields(p entity.CustomerProfile) []Field {
	return []Field{
		selectField(entity.FieldGender, "Gender", string(p.Gender), []Option{
			{Value: string(entity.GenderMale), Label: "Male"},
			{Value: string(entity.GenderFemale), Label: "Female"},
		}),
		numberField(entity.FieldAge, "Age", strconv.Itoa(p.Age), "18", "100", "1"),
		numberField(entity.FieldTenureMonths, "Tenure (months)", strconv.Itoa(p.TenureMonths), "0", "72", "1"),
		numberField(entity.FieldMonthlyCharges, "Monthly charges", p.MonthlyCharges.StringFixed(2), "20", "120", "0.01"),
		numberField(entity.FieldTotalCharges, "Total charges", p.TotalCharges.StringFixed(2), "0", "", "0.01"),
		selectField(entity.FieldInternetService, "Internet service", string(p.InternetService), []Option{
			{Value: string(entity.InternetDSL), Label: "DSL"},
			{Value: string(entity.InternetFiber), Label: "Fiber optic"},
			{Value: string(entity.InternetNone), Label: "None"},
		}),
		selectField(entity.FieldContractType, "Contract", string(p.ContractType), []Option{
			{Value: string(entity.ContractMonthToMonth), Label: "Month-to-month"},
			{Value: string(entity.ContractOneYear), Label: "One year"},
			{Value: string(entity.ContractTwoYear), Label: "Two year"},
		}),
		selectField(entity.FieldPaymentMethod, "Payment method", p.PaymentMethod, []Option{
			{Value: entity.PaymentElectronicCheck, Label: entity.PaymentElectronicCheck},
			{Value: entity.PaymentMailedCheck, Label: entity.PaymentMailedCheck},
			{Value: entity.PaymentBankTransfer, Label: entity.PaymentBankTransfer},
			{Value: entity.PaymentCreditCard, Label: entity.PaymentCreditCard},
		}),
		yesNoField(entity.FieldPaperlessBilling, "Paperless billing", p.PaperlessBilling),
		yesNoField(entity.FieldTechSupport, "Tech support", p.TechSupport),
		yesNoField(entity.FieldOnlineBackup, "Online backup", p.OnlineBackup),
	}
}

func numberField(f entity.Field, label, value, lo, hi, step string) Field {
	return Field{Name: string(f), Label: label, Kind: "number", Value: value, Min: lo, Max: hi, Step: step}
}

// selectField marca la opción actual. Un valor fuera de la lista (texto libre) se añade
// como opción extra para que el select no lo pierda al reenviar.
func selectField(f entity.Field, label, value string, opts []Option) Field {
	found := false
	for i := range opts {
		if opts[i].Value == value {
			opts[i].Selected = true
			found = true
		}
	}
	if !found {
		opts = append(opts, Option{Value: value, Label: value, Selected: true})
	}
	return Field{Name: string(f), Label: label, Kind: "select", Value: value, Options: opts}
}

func yesNoField(f entity.Field, label string, value entity.YesNo) Field {
	return selectField(f, label, string(value), []Option{
		{Value: string(entity.Yes), Label: "Yes"},
		{Value: string(entity.No), Label: "No"},
	})
}
