package presets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/Skufu/heartcheck/internal/features"
)

// Profile is a named, complete set of form values.
type Profile struct {
	Label string                 `json:"label"`
	Input features.ClinicalInput `json:"input"`
}

type Store interface {
	List(ctx context.Context) ([]Profile, error)
}

// Find returns the profile with the given label.
func Find(ctx context.Context, s Store, label string) (Profile, bool, error) {
	profiles, err := s.List(ctx)
	if err != nil {
		return Profile{}, false, err
	}
	for _, p := range profiles {
		if p.Label == label {
			return p, true, nil
		}
	}
	return Profile{}, false, nil
}

var builtin = []Profile{
	{
		Label: "Class 0: Healthy Profile",
		Input: features.ClinicalInput{
			Age: 41, Sex: features.SexFemale, CP: features.ChestPainAtypical, Trestbps: 120, Chol: 204,
			FBS: 0, RestECG: features.RestECGNormal, Thalch: 172, Exang: 0, Oldpeak: 1.4,
			Slope: features.SlopeUpsloping, CA: 0, Thal: features.ThalNormal,
		},
	},
	{
		Label: "Class 1: Low Risk Profile",
		Input: features.ClinicalInput{
			Age: 52, Sex: features.SexMale, CP: features.ChestPainNonAnginal, Trestbps: 138, Chol: 223,
			FBS: 0, RestECG: features.RestECGNormal, Thalch: 169, Exang: 0, Oldpeak: 0.0,
			Slope: features.SlopeUpsloping, CA: 0, Thal: features.ThalNormal,
		},
	},
	{
		Label: "Class 2: Moderate Risk Profile",
		Input: features.ClinicalInput{
			Age: 58, Sex: features.SexMale, CP: features.ChestPainAsymptomatic, Trestbps: 140, Chol: 266,
			FBS: 0, RestECG: features.RestECGLVHypertrophy, Thalch: 144, Exang: 1, Oldpeak: 1.6,
			Slope: features.SlopeFlat, CA: 1, Thal: features.ThalReversable,
		},
	},
	{
		Label: "Class 3: High Risk Profile",
		Input: features.ClinicalInput{
			Age: 63, Sex: features.SexMale, CP: features.ChestPainAsymptomatic, Trestbps: 150, Chol: 290,
			FBS: 1, RestECG: features.RestECGSTTAbnormal, Thalch: 128, Exang: 1, Oldpeak: 2.6,
			Slope: features.SlopeFlat, CA: 2, Thal: features.ThalReversable,
		},
	},
	{
		Label: "Class 4: Severe Risk Profile",
		Input: features.ClinicalInput{
			Age: 67, Sex: features.SexMale, CP: features.ChestPainAsymptomatic, Trestbps: 160, Chol: 330,
			FBS: 1, RestECG: features.RestECGLVHypertrophy, Thalch: 108, Exang: 1, Oldpeak: 3.8,
			Slope: features.SlopeDownsloping, CA: 3, Thal: features.ThalFixed,
		},
	},
}

// Static serves the built-in profiles.
type Static struct{}

func (Static) List(ctx context.Context) ([]Profile, error) {
	out := make([]Profile, len(builtin))
	copy(out, builtin)
	return out, nil
}

// Querier is the subset of pgxpool.Pool used by Postgres.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const listSQL = `
SELECT label, age, sex, cp, trestbps, chol, fbs, restecg, thalch, exang, oldpeak, slope, ca, thal
FROM preset_profiles
ORDER BY position, label`

// Postgres reads profiles from the preset_profiles table and falls back to
// the built-in set when the table cannot be read or is empty.
type Postgres struct {
	db       Querier
	fallback Store
}

func NewPostgres(db Querier) *Postgres {
	return &Postgres{db: db, fallback: Static{}}
}

func (p *Postgres) List(ctx context.Context) ([]Profile, error) {
	profiles, err := p.query(ctx)
	if err != nil {
		slog.Warn("preset query failed, using built-in profiles", "error", err)
		return p.fallback.List(ctx)
	}
	if len(profiles) == 0 {
		return p.fallback.List(ctx)
	}
	return profiles, nil
}

func (p *Postgres) query(ctx context.Context) ([]Profile, error) {
	rows, err := p.db.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("query presets: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var (
			pr                            Profile
			sex, cp, restecg, slope, thal string
		)
		in := &pr.Input
		if err := rows.Scan(&pr.Label, &in.Age, &sex, &cp, &in.Trestbps, &in.Chol, &in.FBS,
			&restecg, &in.Thalch, &in.Exang, &in.Oldpeak, &slope, &in.CA, &thal); err != nil {
			return nil, fmt.Errorf("scan preset: %w", err)
		}
		in.Sex = features.Sex(sex)
		in.CP = features.ChestPain(cp)
		in.RestECG = features.RestECG(restecg)
		in.Slope = features.Slope(slope)
		in.Thal = features.Thal(thal)
		out = append(out, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate presets: %w", err)
	}
	return out, nil
}
