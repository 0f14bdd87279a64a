// Package pdf genera el informe descargable de una predicción de churn.
//
// Layout de la página A4:
//
//	┌───────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación          │
//	│  PERFIL: tabla campo | valor                   │
//	│  RESULTADO: nivel de riesgo + probabilidad     │
//	│  RECOMENDACIONES: lista numerada               │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/outrix/churn-predictor/internal/application/ports"
	"github.com/outrix/churn-predictor/internal/domain/entity"
)

var _ ports.ReportGenerator = (*ReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 22, Green: 33, Blue: 62}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	riskColors   = map[entity.RiskLevel]*props.Color{
		entity.RiskHigh:   {Red: 200, Green: 40, Blue: 70},
		entity.RiskMedium: {Red: 210, Green: 150, Blue: 20},
		entity.RiskLow:    {Red: 30, Green: 150, Blue: 90},
	}
)

// ProbabilityFormatter formatea probabilidades igual que la página ("82.0%").
type ProbabilityFormatter func(p float64) string

// ReportGenerator implementa ports.ReportGenerator usando Maroto v2.
type ReportGenerator struct {
	formatProbability ProbabilityFormatter
}

// NewReportGenerator construye el generador.
func NewReportGenerator(format ProbabilityFormatter) *ReportGenerator {
	return &ReportGenerator{formatProbability: format}
}

// GenerateReport genera el PDF y devuelve sus bytes.
func (g *ReportGenerator) GenerateReport(
	_ context.Context,
	profile entity.CustomerProfile,
	result entity.PredictionResult,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Customer churn prediction", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("CUSTOMER PROFILE"))
	m.AddRows(profileRows(profile)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("PREDICTION"))
	m.AddRows(g.resultRow(result))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("RECOMMENDATIONS"))
	m.AddRows(recommendationRows(result.Recommendations)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("Customer churn prediction", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generated: "+generatedAt.UTC().Format("2006-01-02 15:04 UTC"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(9).Add(
		col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 3,
		})),
	)
}

func profileRows(p entity.CustomerProfile) []core.Row {
	pairs := [][2]string{
		{"Gender", string(p.Gender)},
		{"Age", strconv.Itoa(p.Age)},
		{"Tenure (months)", strconv.Itoa(p.TenureMonths)},
		{"Monthly charges", p.MonthlyCharges.StringFixed(2)},
		{"Total charges", p.TotalCharges.StringFixed(2)},
		{"Internet service", string(p.InternetService)},
		{"Contract", string(p.ContractType)},
		{"Payment method", p.PaymentMethod},
		{"Paperless billing", string(p.PaperlessBilling)},
		{"Tech support", string(p.TechSupport)},
		{"Online backup", string(p.OnlineBackup)},
	}
	rows := make([]core.Row, 0, len(pairs))
	for _, kv := range pairs {
		rows = append(rows, row.New(6).Add(
			col.New(4).Add(text.New(kv[0], props.Text{Size: 9, Color: colorGray})),
			col.New(8).Add(text.New(kv[1], props.Text{Size: 9})),
		))
	}
	return rows
}

func (g *ReportGenerator) resultRow(r entity.PredictionResult) core.Row {
	color, ok := riskColors[r.RiskLevel]
	if !ok {
		color = colorGray
	}
	right := []core.Component{
		text.New("Churn probability: "+g.formatProbability(r.ChurnProbability), props.Text{
			Size: 11, Align: align.Right, Top: 2,
		}),
	}
	if r.Confidence != nil {
		right = append(right, text.New("Confidence: "+g.formatProbability(*r.Confidence), props.Text{
			Size: 8, Align: align.Right, Top: 9, Color: colorGray,
		}))
	}
	return row.New(16).Add(
		col.New(6).Add(text.New(string(r.RiskLevel)+" RISK", props.Text{
			Style: fontstyle.Bold, Size: 16, Color: color, Top: 2,
		})),
		col.New(6).Add(right...),
	)
}

func recommendationRows(recs []string) []core.Row {
	if len(recs) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("No recommendations returned.", props.Text{Size: 9, Color: colorGray}),
		))}
	}
	rows := make([]core.Row, 0, len(recs))
	for i, rec := range recs {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d.", i+1), props.Text{Size: 9, Style: fontstyle.Bold})),
			col.New(11).Add(text.New(rec, props.Text{Size: 9})),
		))
	}
	return rows
}
