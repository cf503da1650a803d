package presets

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Skufu/heartcheck/internal/features"
)

type fakeRows struct {
	data [][]any
	i    int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Values() ([]any, error) { return r.data[r.i-1], nil }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		case *float64:
			*p = row[i].(float64)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

type fakeQuerier struct {
	rows *fakeRows
	err  error
}

func (q fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestStaticProfilesValidate(t *testing.T) {
	v, err := features.NewValidator(features.DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	profiles, err := Static{}.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(profiles) != 5 {
		t.Fatalf("expected 5 profiles, got %d", len(profiles))
	}
	for _, p := range profiles {
		if err := v.Validate(p.Input); err != nil {
			t.Fatalf("profile %q out of domain: %v", p.Label, err)
		}
	}
}

func TestFind(t *testing.T) {
	p, ok, err := Find(context.Background(), Static{}, "Class 2: Moderate Risk Profile")
	if err != nil || !ok {
		t.Fatalf("expected profile, got ok=%v err=%v", ok, err)
	}
	if p.Input.Thal != features.ThalReversable {
		t.Fatalf("unexpected profile %+v", p)
	}
	if _, ok, _ := Find(context.Background(), Static{}, "nope"); ok {
		t.Fatal("expected missing profile")
	}
}

func TestPostgresList(t *testing.T) {
	rows := &fakeRows{data: [][]any{
		{"Clinic A", 60, "Male", "asymptomatic", 145, 250, 1, "normal", 130, 1, 2.0, "flat", 2, "reversable defect"},
	}}
	profiles, err := NewPostgres(fakeQuerier{rows: rows}).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	in := profiles[0].Input
	if profiles[0].Label != "Clinic A" || in.Age != 60 || in.CP != features.ChestPainAsymptomatic ||
		in.Oldpeak != 2.0 || in.Thal != features.ThalReversable {
		t.Fatalf("unexpected profile %+v", profiles[0])
	}
}

func TestPostgresFallsBack(t *testing.T) {
	cases := map[string]fakeQuerier{
		"query error": {err: errors.New("relation does not exist")},
		"empty table": {rows: &fakeRows{}},
		"rows error":  {rows: &fakeRows{err: errors.New("conn reset")}},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			profiles, err := NewPostgres(q).List(context.Background())
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(profiles) != len(builtin) {
				t.Fatalf("expected built-in profiles, got %d", len(profiles))
			}
		})
	}
}
