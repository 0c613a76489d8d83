package scoring

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestValidateWeightsAcceptsExactHundred(t *testing.T) {
	sections := []Section{
		{Name: "Delivery", Criteria: []Criterion{
			{ID: "quality", MaxScore: 5, Weight: 60},
		}},
		{Name: "Collaboration", Criteria: []Criterion{
			{ID: "teamwork", MaxScore: 5, Weight: 40},
		}},
	}
	if err := ValidateWeights(sections); err != nil {
		t.Fatalf("expected valid weights, got %v", err)
	}
}

func TestValidateWeightsRejectsOffByOne(t *testing.T) {
	sections := []Section{
		{Name: "Delivery", Criteria: []Criterion{
			{ID: "quality", MaxScore: 5, Weight: 99},
		}},
	}
	err := ValidateWeights(sections)
	if !errors.Is(err, ErrWeightSum) {
		t.Fatalf("expected weight sum error, got %v", err)
	}
	if !strings.Contains(err.Error(), "99") {
		t.Fatalf("expected computed total in message, got %q", err.Error())
	}
}

func TestValidateWeightsRejectsFractionalOvershoot(t *testing.T) {
	sections := []Section{
		{Name: "Delivery", Criteria: []Criterion{
			{ID: "quality", MaxScore: 5, Weight: 100.01},
		}},
	}
	if err := ValidateWeights(sections); !errors.Is(err, ErrWeightSum) {
		t.Fatalf("expected weight sum error, got %v", err)
	}
}

func TestValidateWeightsRejectsEmptyForm(t *testing.T) {
	if err := ValidateWeights(nil); !errors.Is(err, ErrNoSections) {
		t.Fatalf("expected no-sections error, got %v", err)
	}
}

func TestValidateWeightsRejectsEmptySection(t *testing.T) {
	sections := []Section{
		{Name: "Delivery", Criteria: []Criterion{{ID: "quality", MaxScore: 5, Weight: 100}}},
		{Name: "Empty"},
	}
	err := ValidateWeights(sections)
	if !errors.Is(err, ErrEmptySection) {
		t.Fatalf("expected empty-section error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Empty") {
		t.Fatalf("expected section name in message, got %q", err.Error())
	}
}

func TestCriterionUnmarshalDefaultsMaxScore(t *testing.T) {
	var c Criterion
	if err := json.Unmarshal([]byte(`{"id":"quality","label":"Quality","weight":50}`), &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c.MaxScore != DefaultMaxScore {
		t.Fatalf("expected default max score %d, got %v", DefaultMaxScore, c.MaxScore)
	}
}

func TestCriterionUnmarshalKeepsExplicitZero(t *testing.T) {
	var c Criterion
	if err := json.Unmarshal([]byte(`{"id":"quality","maxScore":0,"weight":50}`), &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c.MaxScore != 0 {
		t.Fatalf("expected explicit zero to survive, got %v", c.MaxScore)
	}
}

func TestFlattenPreservesAuthoringOrder(t *testing.T) {
	sections := []Section{
		{Name: "A", Criteria: []Criterion{{ID: "one"}, {ID: "two"}}},
		{Name: "B", Criteria: []Criterion{{ID: "three"}}},
	}
	flat := Flatten(sections)
	if len(flat) != 3 {
		t.Fatalf("expected 3 criteria, got %d", len(flat))
	}
	for i, want := range []string{"one", "two", "three"} {
		if flat[i].ID != want {
			t.Fatalf("expected %q at position %d, got %q", want, i, flat[i].ID)
		}
	}
}
