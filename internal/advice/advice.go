package advice

import (
	"sort"

	"github.com/Skufu/heartcheck/internal/explain"
)

// FallbackMessage is shown when no feature pushes the risk up enough to
// earn a recommendation.
const FallbackMessage = "Your key metrics appear to be in a healthy range. Keep up the great work with a balanced diet and regular exercise!"

const (
	DefaultCap = 3
	// BinaryThreshold and MultiClassThreshold are the minimum contribution
	// for advice in the two model lineages.
	BinaryThreshold     = 0.0
	MultiClassThreshold = 0.05
)

// Table maps raw feature names to a recommendation.
type Table map[string]string

var defaultTable = Table{
	"trestbps": "Your **Resting Blood Pressure** is a key risk factor. Consider reducing salt intake, increasing physical activity, and managing stress.",
	"chol":     "High **Cholesterol** is significantly increasing your risk. Focus on a diet rich in fruits, vegetables, and whole grains, and reduce saturated and trans fats.",
	"thalch":   "Your **Maximum Heart Rate** achieved was lower than expected. Regular cardiovascular exercise (like brisk walking, jogging, or cycling) can help improve heart fitness.",
	"oldpeak":  "**ST Depression (oldpeak)** is a strong indicator of risk. This is a clinical finding; please discuss its significance and a management plan with your doctor.",
	"exang":    "**Exercise-Induced Angina** is a critical risk factor. It's essential to consult a cardiologist to understand your exercise limits and treatment options.",
	"fbs":      "Your **Fasting Blood Sugar** level is contributing to your risk. Monitor your sugar intake and focus on a balanced diet. Consult a doctor to screen for diabetes.",
	"ca":       "The **Number of Major Vessels Blocked** is a major factor. This requires medical intervention. Please follow your cardiologist's advice closely.",
}

// DefaultTable returns a copy of the built-in recommendations.
func DefaultTable() Table {
	t := make(Table, len(defaultTable))
	for k, v := range defaultTable {
		t[k] = v
	}
	return t
}

func ranked(contribs []explain.Contribution) []explain.Contribution {
	sorted := make([]explain.Contribution, len(contribs))
	copy(sorted, contribs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value > sorted[j].Value
	})
	return sorted
}

// Select walks contributions from most to least risk-increasing and returns
// the advice of those above threshold that have an entry in table, at most
// limit of them. Equal contributions keep their input order. The result is
// empty when nothing qualifies.
func Select(contribs []explain.Contribution, table Table, limit int, threshold float64) []string {
	out := []string{}
	if limit <= 0 {
		return out
	}
	for _, c := range ranked(contribs) {
		if c.Value <= threshold {
			// sorted descending, nothing further can qualify
			break
		}
		msg, ok := table[c.Feature]
		if !ok {
			continue
		}
		out = append(out, msg)
		if len(out) >= limit {
			break
		}
	}
	return out
}

// TopRiskFactors returns up to n contributions that increase the risk,
// largest first.
func TopRiskFactors(contribs []explain.Contribution, n int) []explain.Contribution {
	out := []explain.Contribution{}
	for _, c := range ranked(contribs) {
		if c.Value <= 0 || len(out) >= n {
			break
		}
		out = append(out, c)
	}
	return out
}

type Advisor struct {
	Table     Table
	Cap       int
	Threshold float64
}

func NewAdvisor(limit int, threshold float64) *Advisor {
	return &Advisor{Table: DefaultTable(), Cap: limit, Threshold: threshold}
}

type Result struct {
	Messages []string `json:"messages"`
	Fallback bool     `json:"fallback"`
}

// Advise selects recommendations and substitutes FallbackMessage when none
// qualify.
func (a *Advisor) Advise(contribs []explain.Contribution) Result {
	msgs := Select(contribs, a.Table, a.Cap, a.Threshold)
	if len(msgs) == 0 {
		return Result{Messages: []string{FallbackMessage}, Fallback: true}
	}
	return Result{Messages: msgs}
}
