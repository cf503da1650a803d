package explain

import (
	"fmt"
	"math"
	"sort"
)

// DefaultMaxDisplay matches the number of rows shown in the result chart.
const DefaultMaxDisplay = 14

// Step is one bar of a waterfall chart: the feature moved the output from
// Start to End.
type Step struct {
	Feature string  `json:"feature"`
	Label   string  `json:"label"`
	Data    string  `json:"data,omitempty"`
	Value   float64 `json:"value"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
}

func (s Step) Positive() bool { return s.Value > 0 }

// Waterfall lays an attribution vector out as a chart: rows ordered by
// absolute contribution, largest first, with the tail folded into a single
// "other features" row when there are more than MaxDisplay features.
type Waterfall struct {
	Base   float64 `json:"base"`
	Output float64 `json:"output"`
	Steps  []Step  `json:"steps"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// NewWaterfall builds the chart for v. data holds the encoded feature values
// shown next to each label, and label maps a column to its display name; both
// may be nil.
func NewWaterfall(v Vector, data map[string]float64, label func(string) string, maxDisplay int) Waterfall {
	if maxDisplay < 1 {
		maxDisplay = DefaultMaxDisplay
	}
	if label == nil {
		label = func(s string) string { return s }
	}

	contribs := v.Contributions()
	sort.SliceStable(contribs, func(i, j int) bool {
		return math.Abs(contribs[i].Value) > math.Abs(contribs[j].Value)
	})

	shown := contribs
	var rest []Contribution
	if len(contribs) > maxDisplay {
		shown = contribs[:maxDisplay-1]
		rest = contribs[maxDisplay-1:]
	}

	w := Waterfall{Base: v.Base, Output: v.Output(), Min: v.Base, Max: v.Base}
	steps := make([]Step, len(shown), len(shown)+1)
	pos := v.Base

	var other *Step
	if len(rest) > 0 {
		sum := 0.0
		for _, c := range rest {
			sum += c.Value
		}
		other = &Step{
			Label: fmt.Sprintf("%d other features", len(rest)),
			Value: sum,
			Start: pos,
			End:   pos + sum,
		}
		pos = other.End
		w.track(*other)
	}

	for i := len(shown) - 1; i >= 0; i-- {
		c := shown[i]
		s := Step{
			Feature: c.Feature,
			Label:   label(c.Feature),
			Value:   c.Value,
			Start:   pos,
			End:     pos + c.Value,
		}
		if x, ok := data[c.Feature]; ok {
			s.Data = formatData(x)
		}
		pos = s.End
		steps[i] = s
		w.track(s)
	}

	if other != nil {
		steps = append(steps, *other)
	}
	w.Steps = steps
	return w
}

func (w *Waterfall) track(s Step) {
	w.Min = math.Min(w.Min, math.Min(s.Start, s.End))
	w.Max = math.Max(w.Max, math.Max(s.Start, s.End))
}

func formatData(x float64) string {
	if x == math.Trunc(x) {
		return fmt.Sprintf("%.0f", x)
	}
	return fmt.Sprintf("%.1f", x)
}
