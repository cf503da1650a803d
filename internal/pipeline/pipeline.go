package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/heartcheck/internal/advice"
	"github.com/Skufu/heartcheck/internal/explain"
	"github.com/Skufu/heartcheck/internal/features"
	"github.com/Skufu/heartcheck/internal/model"
)

// ErrModelUnavailable is returned when no model could be loaded at startup.
var ErrModelUnavailable = errors.New("prediction model is not loaded")

// Stage names the step a prediction cycle reached.
type Stage string

const (
	StageIdle           Stage = "idle"
	StageInputCollected Stage = "input_collected"
	StageEncoded        Stage = "encoded"
	StageScored         Stage = "scored"
	StageExplained      Stage = "explained"
	StageAdviceSelected Stage = "advice_selected"
)

// StageError reports which stage a cycle failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Result is everything produced by one successful cycle.
type Result struct {
	ID            string                 `json:"id"`
	Input         features.ClinicalInput `json:"input"`
	Features      map[string]float64     `json:"features"`
	Columns       []string               `json:"columns"`
	Prediction    *model.Prediction      `json:"prediction"`
	Explanation   explain.Vector         `json:"explanation"`
	Contributions []explain.Contribution `json:"contributions"`
	Waterfall     explain.Waterfall      `json:"waterfall"`
	TopFactors    []explain.Contribution `json:"top_factors"`
	Advice        advice.Result          `json:"advice"`
	Stage         Stage                  `json:"stage"`
	Completed     bool                   `json:"completed"`
	Duration      time.Duration          `json:"-"`
}

type Service struct {
	predictor  model.Predictor
	advisor    *advice.Advisor
	validator  *features.Validator
	maxDisplay int
}

// New builds a service; predictor may be nil, in which case every Run fails
// with ErrModelUnavailable.
func New(predictor model.Predictor, advisor *advice.Advisor, validator *features.Validator) *Service {
	return &Service{
		predictor:  predictor,
		advisor:    advisor,
		validator:  validator,
		maxDisplay: explain.DefaultMaxDisplay,
	}
}

func (s *Service) Ready() bool { return s.predictor != nil }

func (s *Service) Validator() *features.Validator { return s.validator }

func (s *Service) Classes() []string {
	if s.predictor == nil {
		return nil
	}
	return s.predictor.Classes()
}

// Run takes one input through validate, encode, predict, explain and
// advise. A cycle either completes or returns an error and no result.
func (s *Service) Run(ctx context.Context, in features.ClinicalInput) (*Result, error) {
	if s.predictor == nil {
		return nil, ErrModelUnavailable
	}
	start := time.Now()
	res := &Result{ID: uuid.New().String(), Input: in, Stage: StageIdle}

	if err := s.validator.Validate(in); err != nil {
		return nil, &StageError{Stage: StageInputCollected, Err: err}
	}
	res.Stage = StageInputCollected

	fv := features.Encode(in)
	res.Features = fv.Map()
	res.Columns = fv.Names()
	res.Stage = StageEncoded

	pred, err := s.predictor.Predict(ctx, fv)
	if err != nil {
		return nil, &StageError{Stage: StageScored, Err: err}
	}
	res.Prediction = pred
	res.Stage = StageScored

	vec, err := pred.Attribution.Resolve(pred.Class)
	if err != nil {
		return nil, &StageError{Stage: StageExplained, Err: err}
	}
	res.Explanation = vec
	res.Contributions = vec.Contributions()
	res.Waterfall = explain.NewWaterfall(vec, res.Features, features.DisplayName, s.maxDisplay)
	res.Stage = StageExplained

	res.TopFactors = advice.TopRiskFactors(res.Contributions, s.advisor.Cap)
	res.Advice = s.advisor.Advise(res.Contributions)
	res.Stage = StageAdviceSelected
	res.Completed = true
	res.Duration = time.Since(start)

	slog.Info("prediction completed",
		"id", res.ID,
		"class", pred.Class,
		"label", pred.Label,
		"probability", pred.Probability(),
		"advice", len(res.Advice.Messages),
		"fallback", res.Advice.Fallback,
		"duration", res.Duration,
	)
	return res, nil
}
