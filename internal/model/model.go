package model

import (
	"context"
	"errors"

	"github.com/Skufu/heartcheck/internal/explain"
	"github.com/Skufu/heartcheck/internal/features"
)

var (
	ErrArtifactNotFound = errors.New("model artifact not found")
	ErrInvalidArtifact  = errors.New("invalid model artifact")
)

// Prediction is a classifier's answer for one encoded row.
type Prediction struct {
	Class         int                 `json:"class"`
	Label         string              `json:"label"`
	Probabilities []float64           `json:"probabilities"`
	Attribution   explain.Attribution `json:"-"`
}

// Probability returns the probability of the predicted class.
func (p *Prediction) Probability() float64 {
	if p.Class < 0 || p.Class >= len(p.Probabilities) {
		return 0
	}
	return p.Probabilities[p.Class]
}

// Multiclass reports whether the model distinguishes more than two classes.
func (p *Prediction) Multiclass() bool { return len(p.Probabilities) > 2 }

// Predictor scores an encoded row and explains the score.
type Predictor interface {
	Predict(ctx context.Context, fv features.FeatureVector) (*Prediction, error)
	Classes() []string
}
