package features

// Column names in the order the trained model expects them. The order is
// part of the model contract: a model indexes features positionally.
const (
	ColAge                = "age"
	ColTrestbps           = "trestbps"
	ColChol               = "chol"
	ColFBS                = "fbs"
	ColThalch             = "thalch"
	ColExang              = "exang"
	ColOldpeak            = "oldpeak"
	ColCA                 = "ca"
	ColSexMale            = "sex_Male"
	ColCPAtypical         = "cp_atypical angina"
	ColCPNonAnginal       = "cp_non-anginal"
	ColCPTypical          = "cp_typical angina"
	ColRestECGNormal      = "restecg_normal"
	ColRestECGSTTAbnormal = "restecg_st-t abnormality"
	ColSlopeFlat          = "slope_flat"
	ColSlopeUpsloping     = "slope_upsloping"
	ColThalNormal         = "thal_normal"
	ColThalReversable     = "thal_reversable defect"
)

var columns = []string{
	ColAge, ColTrestbps, ColChol, ColFBS, ColThalch, ColExang, ColOldpeak, ColCA,
	ColSexMale, ColCPAtypical, ColCPNonAnginal, ColCPTypical,
	ColRestECGNormal, ColRestECGSTTAbnormal, ColSlopeFlat, ColSlopeUpsloping,
	ColThalNormal, ColThalReversable,
}

var columnIndex = func() map[string]int {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}
	return idx
}()

// IndicatorGroups lists the one-hot columns of each categorical field. A row
// with every column of a group at zero encodes that group's reference value.
var IndicatorGroups = map[string][]string{
	"sex":     {ColSexMale},
	"cp":      {ColCPAtypical, ColCPNonAnginal, ColCPTypical},
	"restecg": {ColRestECGNormal, ColRestECGSTTAbnormal},
	"slope":   {ColSlopeFlat, ColSlopeUpsloping},
	"thal":    {ColThalNormal, ColThalReversable},
}

// Columns returns a copy of the model column order.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// NumColumns is the width of an encoded row.
func NumColumns() int { return len(columns) }

// FeatureVector is a single encoded row. Values are stored in column order.
type FeatureVector struct {
	values [18]float64
}

// Get returns the value stored under a column name.
func (v FeatureVector) Get(name string) (float64, bool) {
	i, ok := columnIndex[name]
	if !ok {
		return 0, false
	}
	return v.values[i], true
}

func (v *FeatureVector) set(name string, value float64) {
	if i, ok := columnIndex[name]; ok {
		v.values[i] = value
	}
}

func (v FeatureVector) Names() []string { return Columns() }

func (v FeatureVector) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values[:])
	return out
}

func (v FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, len(columns))
	for i, c := range columns {
		m[c] = v.values[i]
	}
	return m
}

// Encode maps an input onto the model's one-hot schema. Reference categories
// (Female, asymptomatic, lv hypertrophy, downsloping, fixed defect) have no
// column of their own; a value outside a field's enum leaves that group at
// zero as well, so callers are expected to validate first.
func Encode(in ClinicalInput) FeatureVector {
	var v FeatureVector

	v.set(ColAge, float64(in.Age))
	v.set(ColTrestbps, float64(in.Trestbps))
	v.set(ColChol, float64(in.Chol))
	v.set(ColFBS, float64(in.FBS))
	v.set(ColThalch, float64(in.Thalch))
	v.set(ColExang, float64(in.Exang))
	v.set(ColOldpeak, in.Oldpeak)
	v.set(ColCA, float64(in.CA))

	if in.Sex == SexMale {
		v.set(ColSexMale, 1)
	}

	switch in.CP {
	case ChestPainTypical:
		v.set(ColCPTypical, 1)
	case ChestPainAtypical:
		v.set(ColCPAtypical, 1)
	case ChestPainNonAnginal:
		v.set(ColCPNonAnginal, 1)
	}

	switch in.RestECG {
	case RestECGNormal:
		v.set(ColRestECGNormal, 1)
	case RestECGSTTAbnormal:
		v.set(ColRestECGSTTAbnormal, 1)
	}

	switch in.Slope {
	case SlopeUpsloping:
		v.set(ColSlopeUpsloping, 1)
	case SlopeFlat:
		v.set(ColSlopeFlat, 1)
	}

	switch in.Thal {
	case ThalNormal:
		v.set(ColThalNormal, 1)
	case ThalReversable:
		v.set(ColThalReversable, 1)
	}

	return v
}

var displayNames = map[string]string{
	ColAge:                "Age",
	ColTrestbps:           "Resting Blood Pressure",
	ColChol:               "Cholesterol",
	ColFBS:                "Fasting Blood Sugar > 120 mg/dl",
	ColThalch:             "Max Heart Rate Achieved",
	ColExang:              "Exercise Induced Angina",
	ColOldpeak:            "ST Depression",
	ColCA:                 "Number of Major Vessels",
	ColSexMale:            "Sex: Male",
	ColCPAtypical:         "Chest Pain: Atypical Angina",
	ColCPNonAnginal:       "Chest Pain: Non-Anginal",
	ColCPTypical:          "Chest Pain: Typical Angina",
	ColRestECGNormal:      "Resting ECG: Normal",
	ColRestECGSTTAbnormal: "Resting ECG: ST-T Abnormality",
	ColSlopeFlat:          "Slope: Flat",
	ColSlopeUpsloping:     "Slope: Upsloping",
	ColThalNormal:         "Thalassemia: Normal",
	ColThalReversable:     "Thalassemia: Reversible Defect",
}

// DisplayName returns a human readable label for a column, or the column
// name itself when none is known.
func DisplayName(column string) string {
	if name, ok := displayNames[column]; ok {
		return name
	}
	return column
}
