package features

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Schema pins the deployment variant of the input domain. Older models were
// trained with ca in [0,3], newer ones with [0,4].
type Schema struct {
	CaMax int
}

func DefaultSchema() Schema {
	return Schema{CaMax: 3}
}

// FieldError describes one field outside its domain.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid clinical input: " + strings.Join(parts, "; ")
}

type categorical interface {
	Valid() bool
}

// Validator checks a ClinicalInput against its declared domain before it is
// encoded. Unknown categorical literals are rejected here instead of being
// silently encoded as the reference category.
type Validator struct {
	schema   Schema
	validate *validator.Validate
}

func NewValidator(schema Schema) (*Validator, error) {
	if schema.CaMax != 3 && schema.CaMax != 4 {
		return nil, fmt.Errorf("unsupported ca domain [0,%d]", schema.CaMax)
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		c, ok := fl.Field().Interface().(categorical)
		return ok && c.Valid()
	}); err != nil {
		return nil, fmt.Errorf("register category validation: %w", err)
	}
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(ClinicalInput)
		if in.CA > schema.CaMax {
			sl.ReportError(in.CA, "ca", "CA", "max", strconv.Itoa(schema.CaMax))
		}
	}, ClinicalInput{})

	return &Validator{schema: schema, validate: v}, nil
}

func (v *Validator) Schema() Schema { return v.schema }

// Validate returns a *ValidationError listing every field out of domain, or
// nil when the input may be encoded.
func (v *Validator) Validate(in ClinicalInput) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate clinical input: %w", err)
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "category":
		return fmt.Sprintf("unrecognised value %q", fe.Value())
	default:
		return "failed " + fe.Tag()
	}
}
