package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/Skufu/heartcheck/internal/advice"
	"github.com/Skufu/heartcheck/internal/explain"
	"github.com/Skufu/heartcheck/internal/features"
	"github.com/Skufu/heartcheck/internal/model"
)

type stubPredictor struct {
	pred *model.Prediction
	err  error
}

func (s stubPredictor) Classes() []string { return []string{"No Heart Disease", "Heart Disease"} }

func (s stubPredictor) Predict(ctx context.Context, fv features.FeatureVector) (*model.Prediction, error) {
	return s.pred, s.err
}

func attribution(t *testing.T, values map[string]float64) explain.Vector {
	t.Helper()
	cols := features.Columns()
	vals := make([]float64, len(cols))
	for i, c := range cols {
		vals[i] = values[c]
	}
	v, err := explain.NewVector(cols, vals, -0.2)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func newService(t *testing.T, p model.Predictor) *Service {
	t.Helper()
	v, err := features.NewValidator(features.DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	return New(p, advice.NewAdvisor(advice.DefaultCap, advice.BinaryThreshold), v)
}

func TestRunCompletes(t *testing.T) {
	vec := attribution(t, map[string]float64{"chol": 0.8, "ca": 0.5, "sex_Male": 0.9, "thalch": -0.4})
	svc := newService(t, stubPredictor{pred: &model.Prediction{
		Class:         1,
		Label:         "Heart Disease",
		Probabilities: []float64{0.2, 0.8},
		Attribution:   explain.Binary(vec),
	}})

	res, err := svc.Run(context.Background(), features.DefaultInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Completed || res.Stage != StageAdviceSelected || res.ID == "" {
		t.Fatalf("unexpected result state %+v", res)
	}
	if len(res.Columns) != features.NumColumns() || res.Features["sex_Male"] != 1 {
		t.Fatalf("features not encoded: %+v", res.Features)
	}
	if len(res.Advice.Messages) != 2 || res.Advice.Fallback {
		t.Fatalf("expected chol and ca advice, got %+v", res.Advice)
	}
	if len(res.TopFactors) != 3 || res.TopFactors[0].Feature != "sex_Male" {
		t.Fatalf("unexpected top factors %+v", res.TopFactors)
	}
	if len(res.Waterfall.Steps) != explain.DefaultMaxDisplay {
		t.Fatalf("expected %d waterfall rows, got %d", explain.DefaultMaxDisplay, len(res.Waterfall.Steps))
	}
}

func TestRunMultiClassExplainsPredictedClass(t *testing.T) {
	low := attribution(t, map[string]float64{"chol": 0.9})
	high := attribution(t, map[string]float64{"oldpeak": 0.3, "chol": 0.04})
	svc := newService(t, stubPredictor{pred: &model.Prediction{
		Class:         1,
		Probabilities: []float64{0.1, 0.6, 0.3},
		Attribution:   explain.MultiClass([]explain.Vector{low, high, low}),
	}})
	svc.advisor.Threshold = advice.MultiClassThreshold

	res, err := svc.Run(context.Background(), features.DefaultInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Advice.Messages) != 1 || res.Advice.Messages[0] != advice.DefaultTable()["oldpeak"] {
		t.Fatalf("expected oldpeak advice only, got %+v", res.Advice)
	}
}

func TestRunFallbackAdvice(t *testing.T) {
	vec := attribution(t, map[string]float64{"chol": -0.3})
	svc := newService(t, stubPredictor{pred: &model.Prediction{
		Probabilities: []float64{0.9, 0.1},
		Attribution:   explain.Binary(vec),
	}})
	res, err := svc.Run(context.Background(), features.DefaultInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Advice.Fallback || res.Advice.Messages[0] != advice.FallbackMessage {
		t.Fatalf("expected fallback advice, got %+v", res.Advice)
	}
}

func TestRunErrors(t *testing.T) {
	if _, err := newService(t, nil).Run(context.Background(), features.DefaultInput()); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}

	boom := errors.New("boom")
	res, err := newService(t, stubPredictor{err: boom}).Run(context.Background(), features.DefaultInput())
	var se *StageError
	if res != nil || !errors.As(err, &se) || se.Stage != StageScored || !errors.Is(err, boom) {
		t.Fatalf("expected scoring failure without result, got %v / %+v", err, res)
	}

	in := features.DefaultInput()
	in.Thal = "typo"
	_, err = newService(t, stubPredictor{}).Run(context.Background(), in)
	var verr *features.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}

	svc := newService(t, stubPredictor{pred: &model.Prediction{
		Class:         5,
		Probabilities: []float64{0.5, 0.5},
		Attribution:   explain.MultiClass(nil),
	}})
	if _, err := svc.Run(context.Background(), features.DefaultInput()); !errors.Is(err, explain.ErrNoSuchClass) {
		t.Fatalf("expected explain failure, got %v", err)
	}
}
