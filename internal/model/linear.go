package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"

	"github.com/Skufu/heartcheck/internal/explain"
	"github.com/Skufu/heartcheck/internal/features"
)

const (
	KindLogistic = "logistic"
	KindSoftmax  = "softmax"
)

// Artifact is the on-disk form of a trained linear classifier. Features must
// list the encoder's columns in the same order.
type Artifact struct {
	Kind         string      `json:"kind"`
	Version      string      `json:"version,omitempty"`
	Features     []string    `json:"features"`
	Classes      []string    `json:"classes"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`
	Means        []float64   `json:"means"`
}

func defaultClasses(n int) []string {
	if n == 2 {
		return []string{"No Heart Disease", "Heart Disease"}
	}
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("Class %d", i)
	}
	return out
}

// Validate checks the artifact matches the encoder schema.
func (a *Artifact) Validate() error {
	cols := features.Columns()
	if len(a.Features) != len(cols) {
		return fmt.Errorf("%w: %d features, encoder has %d", ErrInvalidArtifact, len(a.Features), len(cols))
	}
	for i, c := range cols {
		if a.Features[i] != c {
			return fmt.Errorf("%w: feature %d is %q, expected %q", ErrInvalidArtifact, i, a.Features[i], c)
		}
	}

	var rows int
	switch a.Kind {
	case KindLogistic:
		rows = 1
		if len(a.Classes) == 0 {
			a.Classes = defaultClasses(2)
		}
		if len(a.Classes) != 2 {
			return fmt.Errorf("%w: logistic model needs 2 classes, got %d", ErrInvalidArtifact, len(a.Classes))
		}
	case KindSoftmax:
		rows = len(a.Coefficients)
		if rows < 2 {
			return fmt.Errorf("%w: softmax model needs at least 2 coefficient rows", ErrInvalidArtifact)
		}
		if len(a.Classes) == 0 {
			a.Classes = defaultClasses(rows)
		}
		if len(a.Classes) != rows {
			return fmt.Errorf("%w: %d classes for %d coefficient rows", ErrInvalidArtifact, len(a.Classes), rows)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidArtifact, a.Kind)
	}

	if len(a.Coefficients) != rows || len(a.Intercepts) != rows {
		return fmt.Errorf("%w: expected %d coefficient rows and intercepts, got %d/%d",
			ErrInvalidArtifact, rows, len(a.Coefficients), len(a.Intercepts))
	}
	for i, row := range a.Coefficients {
		if len(row) != len(cols) {
			return fmt.Errorf("%w: coefficient row %d has %d values", ErrInvalidArtifact, i, len(row))
		}
	}
	if a.Means == nil {
		a.Means = make([]float64, len(cols))
	}
	if len(a.Means) != len(cols) {
		return fmt.Errorf("%w: %d means", ErrInvalidArtifact, len(a.Means))
	}
	return nil
}

// Linear is a logistic or softmax classifier. Attributions are exact for
// this model family: feature j moves class k's margin by
// w[k][j] * (x[j] - mean[j]) away from the expected margin.
type Linear struct {
	artifact Artifact
}

func NewLinear(a Artifact) (*Linear, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return &Linear{artifact: a}, nil
}

// Load reads a JSON artifact from path.
func Load(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	m, err := NewLinear(a)
	if err != nil {
		return nil, err
	}
	slog.Info("model loaded", "path", path, "kind", a.Kind, "classes", len(m.artifact.Classes), "version", a.Version)
	return m, nil
}

func (m *Linear) Classes() []string {
	out := make([]string, len(m.artifact.Classes))
	copy(out, m.artifact.Classes)
	return out
}

func (m *Linear) Kind() string { return m.artifact.Kind }

func (m *Linear) Predict(ctx context.Context, fv features.FeatureVector) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x := fv.Values()
	names := fv.Names()
	a := m.artifact

	vectors := make([]explain.Vector, len(a.Coefficients))
	margins := make([]float64, len(a.Coefficients))
	for k, w := range a.Coefficients {
		base := a.Intercepts[k]
		phi := make([]float64, len(x))
		for j := range x {
			base += w[j] * a.Means[j]
			phi[j] = w[j] * (x[j] - a.Means[j])
		}
		v, err := explain.NewVector(names, phi, base)
		if err != nil {
			return nil, err
		}
		vectors[k] = v
		margins[k] = v.Output()
	}

	p := &Prediction{}
	if a.Kind == KindLogistic {
		p1 := sigmoid(margins[0])
		p.Probabilities = []float64{1 - p1, p1}
		if p1 >= 0.5 {
			p.Class = 1
		}
		p.Attribution = explain.Binary(vectors[0])
	} else {
		p.Probabilities = softmax(margins)
		p.Class = argmax(p.Probabilities)
		p.Attribution = explain.MultiClass(vectors)
	}
	p.Label = a.Classes[p.Class]
	return p, nil
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

func softmax(z []float64) []float64 {
	maxZ := math.Inf(-1)
	for _, v := range z {
		maxZ = math.Max(maxZ, v)
	}
	out := make([]float64, len(z))
	sum := 0.0
	for i, v := range z {
		out[i] = math.Exp(v - maxZ)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func argmax(v []float64) int {
	best := 0
	for i := range v {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
