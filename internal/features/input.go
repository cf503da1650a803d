package features

type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

type ChestPain string

const (
	ChestPainTypical      ChestPain = "typical angina"
	ChestPainAtypical     ChestPain = "atypical angina"
	ChestPainNonAnginal   ChestPain = "non-anginal"
	ChestPainAsymptomatic ChestPain = "asymptomatic"
)

type RestECG string

const (
	RestECGNormal        RestECG = "normal"
	RestECGSTTAbnormal   RestECG = "st-t abnormality"
	RestECGLVHypertrophy RestECG = "lv hypertrophy"
)

type Slope string

const (
	SlopeUpsloping   Slope = "upsloping"
	SlopeFlat        Slope = "flat"
	SlopeDownsloping Slope = "downsloping"
)

type Thal string

const (
	ThalNormal     Thal = "normal"
	ThalFixed      Thal = "fixed defect"
	ThalReversable Thal = "reversable defect"
)

var (
	SexValues       = []Sex{SexMale, SexFemale}
	ChestPainValues = []ChestPain{ChestPainTypical, ChestPainAtypical, ChestPainNonAnginal, ChestPainAsymptomatic}
	RestECGValues   = []RestECG{RestECGNormal, RestECGSTTAbnormal, RestECGLVHypertrophy}
	SlopeValues     = []Slope{SlopeUpsloping, SlopeFlat, SlopeDownsloping}
	ThalValues      = []Thal{ThalNormal, ThalFixed, ThalReversable}
)

func (s Sex) Valid() bool       { return contains(SexValues, s) }
func (c ChestPain) Valid() bool { return contains(ChestPainValues, c) }
func (r RestECG) Valid() bool   { return contains(RestECGValues, r) }
func (s Slope) Valid() bool     { return contains(SlopeValues, s) }
func (t Thal) Valid() bool      { return contains(ThalValues, t) }

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// ClinicalInput is one patient's raw measurements as collected by the form.
// fbs and exang are 0/1 flags.
type ClinicalInput struct {
	Age      int       `json:"age" form:"age" validate:"min=29,max=77"`
	Sex      Sex       `json:"sex" form:"sex" validate:"category"`
	CP       ChestPain `json:"cp" form:"cp" validate:"category"`
	Trestbps int       `json:"trestbps" form:"trestbps" validate:"min=94,max=200"`
	Chol     int       `json:"chol" form:"chol" validate:"min=126,max=564"`
	FBS      int       `json:"fbs" form:"fbs" validate:"oneof=0 1"`
	RestECG  RestECG   `json:"restecg" form:"restecg" validate:"category"`
	Thalch   int       `json:"thalch" form:"thalch" validate:"min=71,max=202"`
	Exang    int       `json:"exang" form:"exang" validate:"oneof=0 1"`
	Oldpeak  float64   `json:"oldpeak" form:"oldpeak" validate:"min=0,max=6.2"`
	Slope    Slope     `json:"slope" form:"slope" validate:"category"`
	CA       int       `json:"ca" form:"ca" validate:"min=0"`
	Thal     Thal      `json:"thal" form:"thal" validate:"category"`
}

// DefaultInput returns the values the form starts with.
func DefaultInput() ClinicalInput {
	return ClinicalInput{
		Age:      55,
		Sex:      SexMale,
		CP:       ChestPainTypical,
		Trestbps: 130,
		Chol:     240,
		FBS:      0,
		RestECG:  RestECGNormal,
		Thalch:   150,
		Exang:    0,
		Oldpeak:  1.0,
		Slope:    SlopeUpsloping,
		CA:       0,
		Thal:     ThalNormal,
	}
}
