package web

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/Skufu/heartcheck/internal/explain"
	"github.com/Skufu/heartcheck/internal/features"
	"github.com/Skufu/heartcheck/internal/pipeline"
	"github.com/Skufu/heartcheck/internal/presets"
)

type fieldView struct {
	features.FieldSpec
	Value string
}

type banner struct {
	Danger bool
	Text   string
}

type chartRow struct {
	Label    string
	Data     string
	Value    string
	Positive bool
	X, W, Y  float64
}

type chartView struct {
	Width, Height float64
	AxisX, BaseX  float64
	OutputX       float64
	Base, Output  string
	Rows          []chartRow
}

type page struct {
	Fields          []fieldView
	Presets         []presets.Profile
	SelectedPreset  string
	ModelError      string
	Errors          []features.FieldError
	Error           string
	Recommendations string
	Result          *pipeline.Result
	Banner          *banner
	Chart           *chartView
	Advice          []template.HTML
	AdviceFallback  bool
	FAQ             []faqEntry
}

func (p *page) ShowAdvice() bool { return p.Result != nil && p.Recommendations == "yes" }

func fieldValues(in features.ClinicalInput) map[string]string {
	return map[string]string{
		"age":      strconv.Itoa(in.Age),
		"sex":      string(in.Sex),
		"cp":       string(in.CP),
		"trestbps": strconv.Itoa(in.Trestbps),
		"chol":     strconv.Itoa(in.Chol),
		"fbs":      strconv.Itoa(in.FBS),
		"restecg":  string(in.RestECG),
		"thalch":   strconv.Itoa(in.Thalch),
		"exang":    strconv.Itoa(in.Exang),
		"oldpeak":  strconv.FormatFloat(in.Oldpeak, 'f', 1, 64),
		"slope":    string(in.Slope),
		"ca":       strconv.Itoa(in.CA),
		"thal":     string(in.Thal),
	}
}

func buildFields(schema features.Schema, in features.ClinicalInput) []fieldView {
	values := fieldValues(in)
	specs := features.Fields(schema)
	out := make([]fieldView, len(specs))
	for i, s := range specs {
		out[i] = fieldView{FieldSpec: s, Value: values[s.Name]}
	}
	return out
}

func buildBanner(res *pipeline.Result) *banner {
	p := res.Prediction
	if !p.Multiclass() {
		if p.Class == 1 {
			return &banner{Danger: true, Text: fmt.Sprintf("High Risk of Heart Disease (Probability: %.2f%%)", p.Probabilities[1]*100)}
		}
		return &banner{Text: fmt.Sprintf("Low Risk of Heart Disease (Probability: %.2f%%)", p.Probabilities[0]*100)}
	}
	return &banner{
		Danger: p.Class > 0,
		Text:   fmt.Sprintf("Predicted: %s (Probability: %.2f%%)", p.Label, p.Probability()*100),
	}
}

const (
	chartWidth  = 720.0
	chartLabelW = 300.0
	chartPad    = 20.0
	chartRowH   = 26.0
)

func buildChart(w explain.Waterfall) *chartView {
	span := w.Max - w.Min
	if span == 0 {
		span = 1
	}
	barW := chartWidth - chartLabelW - 2*chartPad
	scale := func(v float64) float64 {
		return chartLabelW + chartPad + (v-w.Min)/span*barW
	}

	cv := &chartView{
		Width:   chartWidth,
		Height:  float64(len(w.Steps))*chartRowH + 2*chartPad,
		AxisX:   chartLabelW + chartPad,
		BaseX:   scale(w.Base),
		OutputX: scale(w.Output),
		Base:    fmt.Sprintf("E[f(X)] = %.3f", w.Base),
		Output:  fmt.Sprintf("f(x) = %.3f", w.Output),
	}
	for i, s := range w.Steps {
		x1, x2 := scale(s.Start), scale(s.End)
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		label := s.Label
		if s.Data != "" {
			label = s.Data + " = " + label
		}
		cv.Rows = append(cv.Rows, chartRow{
			Label:    label,
			Value:    fmt.Sprintf("%+.2f", s.Value),
			Positive: s.Positive(),
			X:        x1,
			W:        maxf(x2-x1, 1),
			Y:        chartPad + float64(i)*chartRowH,
		})
	}
	return cv
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// renderAdvice escapes msg and turns **bold** spans into <strong>.
func renderAdvice(msg string) template.HTML {
	parts := strings.Split(template.HTMLEscapeString(msg), "**")
	var b strings.Builder
	for i, part := range parts {
		if i%2 == 1 && i < len(parts)-1 {
			b.WriteString("<strong>" + part + "</strong>")
			continue
		}
		if i%2 == 1 {
			b.WriteString("**")
		}
		b.WriteString(part)
	}
	return template.HTML(b.String())
}
