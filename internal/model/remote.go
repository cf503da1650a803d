package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Skufu/heartcheck/internal/explain"
	"github.com/Skufu/heartcheck/internal/features"
)

type remoteRequest struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

type remoteResponse struct {
	Class         int         `json:"class"`
	Probabilities []float64   `json:"probabilities"`
	Attributions  [][]float64 `json:"attributions"`
	BaseValues    []float64   `json:"base_values"`
}

// Remote delegates scoring to a model server reachable over HTTP. The
// server answers POST {url}/predict with one attribution row for a binary
// model or one row per class.
type Remote struct {
	url        string
	classes    []string
	httpClient *http.Client
}

func NewRemote(url string, classes []string, timeout time.Duration) *Remote {
	if len(classes) == 0 {
		classes = defaultClasses(2)
	}
	return &Remote{
		url:     strings.TrimRight(url, "/"),
		classes: classes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (r *Remote) Classes() []string {
	out := make([]string, len(r.classes))
	copy(out, r.classes)
	return out
}

func (r *Remote) Predict(ctx context.Context, fv features.FeatureVector) (*Prediction, error) {
	body, err := json.Marshal(remoteRequest{Columns: fv.Names(), Values: fv.Values()})
	if err != nil {
		return nil, fmt.Errorf("marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("model server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode predict response: %w", err)
	}
	return r.toPrediction(fv.Names(), out)
}

func (r *Remote) toPrediction(names []string, out remoteResponse) (*Prediction, error) {
	if len(out.Probabilities) != len(r.classes) {
		return nil, fmt.Errorf("model server returned %d probabilities for %d classes", len(out.Probabilities), len(r.classes))
	}
	if out.Class < 0 || out.Class >= len(r.classes) {
		return nil, fmt.Errorf("model server returned class %d", out.Class)
	}
	if len(out.Attributions) == 0 || len(out.Attributions) != len(out.BaseValues) {
		return nil, fmt.Errorf("model server returned %d attribution rows and %d base values",
			len(out.Attributions), len(out.BaseValues))
	}

	vectors := make([]explain.Vector, len(out.Attributions))
	for i, row := range out.Attributions {
		v, err := explain.NewVector(names, row, out.BaseValues[i])
		if err != nil {
			return nil, fmt.Errorf("attribution row %d: %w", i, err)
		}
		vectors[i] = v
	}

	p := &Prediction{
		Class:         out.Class,
		Label:         r.classes[out.Class],
		Probabilities: out.Probabilities,
	}
	if len(vectors) == 1 {
		p.Attribution = explain.Binary(vectors[0])
	} else {
		p.Attribution = explain.MultiClass(vectors)
	}
	return p, nil
}
