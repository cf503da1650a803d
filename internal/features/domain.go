package features

// FieldSpec describes how one input field is collected: either a numeric
// range or a fixed set of options.
type FieldSpec struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Min     float64  `json:"min,omitempty"`
	Max     float64  `json:"max,omitempty"`
	Step    float64  `json:"step,omitempty"`
	Options []Option `json:"options,omitempty"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (f FieldSpec) Numeric() bool { return len(f.Options) == 0 }

// Fields lists the form fields in display order for the given schema.
func Fields(schema Schema) []FieldSpec {
	return []FieldSpec{
		{Name: "age", Label: "Age", Min: 29, Max: 77, Step: 1},
		{Name: "sex", Label: "Sex", Options: options(SexValues)},
		{Name: "cp", Label: "Chest Pain Type (cp)", Options: options(ChestPainValues)},
		{Name: "fbs", Label: "Fasting Blood Sugar > 120 mg/dl (fbs)", Options: []Option{{"0", "False"}, {"1", "True"}}},
		{Name: "trestbps", Label: "Resting Blood Pressure (trestbps)", Min: 94, Max: 200, Step: 1},
		{Name: "chol", Label: "Serum Cholesterol (chol)", Min: 126, Max: 564, Step: 1},
		{Name: "restecg", Label: "Resting ECG (restecg)", Options: options(RestECGValues)},
		{Name: "exang", Label: "Exercise Induced Angina (exang)", Options: []Option{{"0", "No"}, {"1", "Yes"}}},
		{Name: "thalch", Label: "Max Heart Rate Achieved (thalch)", Min: 71, Max: 202, Step: 1},
		{Name: "oldpeak", Label: "ST depression (oldpeak)", Min: 0, Max: 6.2, Step: 0.1},
		{Name: "slope", Label: "Slope of ST segment (slope)", Options: options(SlopeValues)},
		{Name: "ca", Label: "Number of major vessels (ca)", Min: 0, Max: float64(schema.CaMax), Step: 1},
		{Name: "thal", Label: "Thalassemia (thal)", Options: options(ThalValues)},
	}
}

func options[T ~string](values []T) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: string(v), Label: string(v)}
	}
	return out
}
