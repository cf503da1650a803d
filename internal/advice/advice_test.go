package advice

import (
	"fmt"
	"testing"

	"github.com/Skufu/heartcheck/internal/explain"
)

func c(feature string, value float64) explain.Contribution {
	return explain.Contribution{Feature: feature, Value: value}
}

func TestDefaultTableKeys(t *testing.T) {
	table := DefaultTable()
	for _, key := range []string{"trestbps", "chol", "thalch", "oldpeak", "exang", "fbs", "ca"} {
		if table[key] == "" {
			t.Fatalf("missing advice for %s", key)
		}
	}
	if len(table) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(table))
	}
	table["age"] = "mutated"
	if _, ok := DefaultTable()["age"]; ok {
		t.Fatal("DefaultTable must return a copy")
	}
}

func TestSelect_CapAndOrder(t *testing.T) {
	table := Table{}
	var contribs []explain.Contribution
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("f%d", i)
		table[name] = "advice " + name
		contribs = append(contribs, c(name, float64(i+1)))
	}

	got := Select(contribs, table, 3, 0)
	want := []string{"advice f9", "advice f8", "advice f7"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSelect_SkipsFeaturesWithoutAdvice(t *testing.T) {
	contribs := []explain.Contribution{
		c("sex_Male", 0.9),
		c("chol", 0.4),
		c("age", 0.3),
		c("ca", 0.2),
	}
	got := Select(contribs, DefaultTable(), 3, 0)
	if len(got) != 2 || got[0] != defaultTable["chol"] || got[1] != defaultTable["ca"] {
		t.Fatalf("unexpected selection %v", got)
	}
}

func TestSelect_Threshold(t *testing.T) {
	contribs := []explain.Contribution{c("chol", 0.05), c("ca", 0.06), c("fbs", 0.01)}

	got := Select(contribs, DefaultTable(), 3, MultiClassThreshold)
	if len(got) != 1 || got[0] != defaultTable["ca"] {
		t.Fatalf("threshold is strict: expected only ca, got %v", got)
	}

	got = Select(contribs, DefaultTable(), 3, BinaryThreshold)
	if len(got) != 3 {
		t.Fatalf("expected all three above zero, got %v", got)
	}
}

func TestSelect_StableOnTies(t *testing.T) {
	contribs := []explain.Contribution{c("trestbps", 0.5), c("chol", 0.5), c("oldpeak", 0.1)}
	for i := 0; i < 5; i++ {
		got := Select(contribs, DefaultTable(), 2, 0)
		if got[0] != defaultTable["trestbps"] || got[1] != defaultTable["chol"] {
			t.Fatalf("tie order not preserved: %v", got)
		}
	}

	swapped := []explain.Contribution{c("chol", 0.5), c("trestbps", 0.5)}
	got := Select(swapped, DefaultTable(), 2, 0)
	if got[0] != defaultTable["chol"] {
		t.Fatalf("tie order should follow input order: %v", got)
	}
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	contribs := []explain.Contribution{c("fbs", 0.1), c("chol", 0.9)}
	Select(contribs, DefaultTable(), 3, 0)
	if contribs[0].Feature != "fbs" {
		t.Fatal("input slice was reordered")
	}
}

func TestSelect_Empty(t *testing.T) {
	if got := Select(nil, DefaultTable(), 3, 0); len(got) != 0 {
		t.Fatalf("expected no advice, got %v", got)
	}
	if got := Select([]explain.Contribution{c("chol", 1)}, DefaultTable(), 0, 0); len(got) != 0 {
		t.Fatalf("cap 0 must select nothing, got %v", got)
	}
}

func TestAdvise_Fallback(t *testing.T) {
	a := NewAdvisor(DefaultCap, BinaryThreshold)

	cases := map[string][]explain.Contribution{
		"empty":          nil,
		"all negative":   {c("chol", -0.2), c("ca", -0.1), c("trestbps", 0)},
		"no table match": {c("age", 0.8), c("sex_Male", 0.3)},
	}
	for name, contribs := range cases {
		t.Run(name, func(t *testing.T) {
			res := a.Advise(contribs)
			if !res.Fallback || len(res.Messages) != 1 || res.Messages[0] != FallbackMessage {
				t.Fatalf("expected fallback, got %+v", res)
			}
		})
	}
}

func TestAdvise_Matches(t *testing.T) {
	a := NewAdvisor(DefaultCap, BinaryThreshold)
	res := a.Advise([]explain.Contribution{c("exang", 0.3)})
	if res.Fallback || len(res.Messages) != 1 || res.Messages[0] != defaultTable["exang"] {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestTopRiskFactors(t *testing.T) {
	contribs := []explain.Contribution{c("a", -1), c("b", 0.2), c("c", 0.7), c("d", 0), c("e", 0.1)}
	got := TopRiskFactors(contribs, 2)
	if len(got) != 2 || got[0].Feature != "c" || got[1].Feature != "b" {
		t.Fatalf("unexpected top factors %+v", got)
	}
	if got := TopRiskFactors(contribs, 10); len(got) != 3 {
		t.Fatalf("only positive contributions count, got %+v", got)
	}
}
