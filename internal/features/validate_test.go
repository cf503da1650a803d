package features

import (
	"errors"
	"strings"
	"testing"
)

func newValidator(t *testing.T, caMax int) *Validator {
	t.Helper()
	v, err := NewValidator(Schema{CaMax: caMax})
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return v
}

func TestNewValidatorRejectsUnknownSchema(t *testing.T) {
	if _, err := NewValidator(Schema{CaMax: 7}); err == nil {
		t.Fatal("expected error for ca domain [0,7]")
	}
}

func TestValidate_DefaultInputPasses(t *testing.T) {
	v := newValidator(t, 3)
	if err := v.Validate(DefaultInput()); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if err := v.Validate(sampleInput()); err != nil {
		t.Fatalf("expected sample to validate, got %v", err)
	}
}

func TestValidate_Bounds(t *testing.T) {
	v := newValidator(t, 3)
	cases := []struct {
		name   string
		mutate func(*ClinicalInput)
		field  string
	}{
		{"age low", func(in *ClinicalInput) { in.Age = 28 }, "age"},
		{"age high", func(in *ClinicalInput) { in.Age = 78 }, "age"},
		{"trestbps", func(in *ClinicalInput) { in.Trestbps = 201 }, "trestbps"},
		{"chol", func(in *ClinicalInput) { in.Chol = 100 }, "chol"},
		{"fbs", func(in *ClinicalInput) { in.FBS = 2 }, "fbs"},
		{"thalch", func(in *ClinicalInput) { in.Thalch = 70 }, "thalch"},
		{"exang", func(in *ClinicalInput) { in.Exang = -1 }, "exang"},
		{"oldpeak", func(in *ClinicalInput) { in.Oldpeak = 6.3 }, "oldpeak"},
		{"ca negative", func(in *ClinicalInput) { in.CA = -1 }, "ca"},
		{"ca above schema", func(in *ClinicalInput) { in.CA = 4 }, "ca"},
		{"sex", func(in *ClinicalInput) { in.Sex = "male" }, "sex"},
		{"cp", func(in *ClinicalInput) { in.CP = "" }, "cp"},
		{"restecg", func(in *ClinicalInput) { in.RestECG = "abnormal" }, "restecg"},
		{"slope", func(in *ClinicalInput) { in.Slope = "level" }, "slope"},
		{"thal", func(in *ClinicalInput) { in.Thal = "reversible defect" }, "thal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := sampleInput()
			tc.mutate(&in)
			err := v.Validate(in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(verr.Fields) != 1 || verr.Fields[0].Field != tc.field {
				t.Fatalf("expected single error on %s, got %+v", tc.field, verr.Fields)
			}
		})
	}
}

func TestValidate_CaDomainFollowsSchema(t *testing.T) {
	in := sampleInput()
	in.CA = 4
	if err := newValidator(t, 4).Validate(in); err != nil {
		t.Fatalf("expected ca=4 to pass with [0,4] schema, got %v", err)
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	v := newValidator(t, 3)
	in := sampleInput()
	in.Age = 10
	in.Thal = "unknown"
	err := v.Validate(in)
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Fields) != 2 {
		t.Fatalf("expected two field errors, got %v", err)
	}
	if !strings.Contains(err.Error(), "age") || !strings.Contains(err.Error(), "thal") {
		t.Fatalf("error should name both fields: %v", err)
	}
}

func TestFieldsFollowSchema(t *testing.T) {
	for _, f := range Fields(Schema{CaMax: 4}) {
		if f.Name == "ca" && f.Max != 4 {
			t.Fatalf("expected ca max 4, got %v", f.Max)
		}
	}
	if n := len(Fields(DefaultSchema())); n != 13 {
		t.Fatalf("expected 13 fields, got %d", n)
	}
}
