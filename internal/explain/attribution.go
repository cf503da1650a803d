package explain

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch = errors.New("attribution shape mismatch")
	ErrNoSuchClass   = errors.New("no attribution for class")
)

// Contribution is one feature's signed share of a model output.
type Contribution struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// Vector holds the attributions for one instance and one output, measured
// against Base (the model's expected output).
type Vector struct {
	Features []string  `json:"features"`
	Values   []float64 `json:"values"`
	Base     float64   `json:"base"`
}

func NewVector(features []string, values []float64, base float64) (Vector, error) {
	if len(features) != len(values) {
		return Vector{}, fmt.Errorf("%w: %d features, %d values", ErrShapeMismatch, len(features), len(values))
	}
	return Vector{Features: features, Values: values, Base: base}, nil
}

// Contributions pairs features with their values in model column order.
func (v Vector) Contributions() []Contribution {
	out := make([]Contribution, len(v.Features))
	for i, f := range v.Features {
		out[i] = Contribution{Feature: f, Value: v.Values[i]}
	}
	return out
}

// Output is Base plus the sum of every attribution.
func (v Vector) Output() float64 {
	total := v.Base
	for _, x := range v.Values {
		total += x
	}
	return total
}

type Kind int

const (
	KindBinary Kind = iota
	KindMultiClass
)

func (k Kind) String() string {
	if k == KindMultiClass {
		return "multiclass"
	}
	return "binary"
}

// Attribution is either a single vector explaining a binary model or one
// vector per class of a multi-class model. Build it with Binary or
// MultiClass.
type Attribution struct {
	kind    Kind
	vectors []Vector
}

func Binary(v Vector) Attribution {
	return Attribution{kind: KindBinary, vectors: []Vector{v}}
}

func MultiClass(perClass []Vector) Attribution {
	vs := make([]Vector, len(perClass))
	copy(vs, perClass)
	return Attribution{kind: KindMultiClass, vectors: vs}
}

func (a Attribution) Kind() Kind { return a.kind }

// Classes returns how many per-class vectors are held; a binary attribution
// reports one.
func (a Attribution) Classes() int { return len(a.vectors) }

// Resolve returns the vector explaining class. A binary attribution always
// explains the positive output regardless of the class asked for.
func (a Attribution) Resolve(class int) (Vector, error) {
	if len(a.vectors) == 0 {
		return Vector{}, fmt.Errorf("%w %d: empty attribution", ErrNoSuchClass, class)
	}
	if a.kind == KindBinary {
		return a.vectors[0], nil
	}
	if class < 0 || class >= len(a.vectors) {
		return Vector{}, fmt.Errorf("%w %d: have %d classes", ErrNoSuchClass, class, len(a.vectors))
	}
	return a.vectors[class], nil
}
