package scoring

import (
	"reflect"
	"testing"
)

func weightedForm() []Section {
	return []Section{
		{Name: "Delivery", Criteria: []Criterion{
			{ID: "a", MaxScore: 5, Weight: 60},
			{ID: "b", MaxScore: 10, Weight: 40},
		}},
	}
}

func TestWeightedComputeFullScores(t *testing.T) {
	result := WeightedStrategy{}.Compute(weightedForm(), map[string]float64{"a": 5, "b": 10})
	if result.PerCriterion["a"].Points != 60 {
		t.Fatalf("expected 60 points for a, got %v", result.PerCriterion["a"].Points)
	}
	if result.PerCriterion["b"].Points != 40 {
		t.Fatalf("expected 40 points for b, got %v", result.PerCriterion["b"].Points)
	}
	if result.TotalPoints != 100 {
		t.Fatalf("expected total 100, got %v", result.TotalPoints)
	}
	if result.AveragePoints != 50 {
		t.Fatalf("expected average 50, got %v", result.AveragePoints)
	}
}

func TestWeightedComputeMissingScoresDefaultToZero(t *testing.T) {
	sections := []Section{
		{Name: "Delivery", Criteria: []Criterion{{ID: "a", MaxScore: 5, Weight: 50}}},
	}
	result := WeightedStrategy{}.Compute(sections, map[string]float64{})
	if result.PerCriterion["a"].Points != 0 {
		t.Fatalf("expected zero points for missing score, got %v", result.PerCriterion["a"].Points)
	}
	if result.TotalPoints != 0 || result.AveragePoints != 0 {
		t.Fatalf("expected zero totals, got %+v", result)
	}
}

func TestWeightedComputeZeroMaxScoreContributesNothing(t *testing.T) {
	sections := []Section{
		{Name: "Delivery", Criteria: []Criterion{
			{ID: "a", MaxScore: 0, Weight: 50},
			{ID: "b", MaxScore: 5, Weight: 50},
		}},
	}
	result := WeightedStrategy{}.Compute(sections, map[string]float64{"a": 3, "b": 5})
	if result.PerCriterion["a"].Points != 0 {
		t.Fatalf("expected zero points for zero max score, got %v", result.PerCriterion["a"].Points)
	}
	if result.TotalPoints != 50 {
		t.Fatalf("expected total 50, got %v", result.TotalPoints)
	}
}

func TestWeightedComputeRoundsPerCriterion(t *testing.T) {
	sections := []Section{
		{Name: "Delivery", Criteria: []Criterion{{ID: "a", MaxScore: 3, Weight: 100}}},
	}
	result := WeightedStrategy{}.Compute(sections, map[string]float64{"a": 1})
	if result.PerCriterion["a"].Points != 33.33 {
		t.Fatalf("expected 33.33 points, got %v", result.PerCriterion["a"].Points)
	}
	if result.TotalPoints != 33.33 {
		t.Fatalf("expected total 33.33, got %v", result.TotalPoints)
	}
}

func TestWeightedComputeSurvivesCorruptWeightTotal(t *testing.T) {
	// A stored form whose weights drifted away from 100 must still produce a
	// deterministic numeric result at compute time.
	sections := []Section{
		{Name: "Delivery", Criteria: []Criterion{
			{ID: "a", MaxScore: 5, Weight: 30},
			{ID: "b", MaxScore: 5, Weight: 30},
		}},
	}
	result := WeightedStrategy{}.Compute(sections, map[string]float64{"a": 5, "b": 5})
	if result.TotalPoints != 60 {
		t.Fatalf("expected total 60 for corrupt form, got %v", result.TotalPoints)
	}
	if result.AveragePoints != 30 {
		t.Fatalf("expected average 30 for corrupt form, got %v", result.AveragePoints)
	}
}

func TestWeightedComputeIsDeterministicAndInputPreserving(t *testing.T) {
	sections := weightedForm()
	scores := map[string]float64{"a": 4, "b": 7}

	first := WeightedStrategy{}.Compute(sections, scores)
	second := WeightedStrategy{}.Compute(sections, scores)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}

	if scores["a"] != 4 || scores["b"] != 7 {
		t.Fatalf("input scores mutated: %+v", scores)
	}
	if sections[0].Criteria[0].Weight != 60 {
		t.Fatalf("input criteria mutated: %+v", sections[0].Criteria[0])
	}
}

func TestFlatSumCompute(t *testing.T) {
	result := FlatSumStrategy{}.Compute(nil, map[string]float64{"q1": 4, "q2": 3, "q3": 5})
	if result.TotalPoints != 12 {
		t.Fatalf("expected total 12, got %v", result.TotalPoints)
	}
	if result.AveragePoints != 4 {
		t.Fatalf("expected average 4, got %v", result.AveragePoints)
	}
	if result.PerCriterion["q2"].Points != 3 {
		t.Fatalf("expected raw points carried through, got %v", result.PerCriterion["q2"].Points)
	}
}

func TestFlatSumComputeEmpty(t *testing.T) {
	result := FlatSumStrategy{}.Compute(nil, nil)
	if result.TotalPoints != 0 || result.AveragePoints != 0 {
		t.Fatalf("expected zero result, got %+v", result)
	}
}

func TestStrategyForForm(t *testing.T) {
	if got := StrategyForForm(weightedForm()).Name(); got != StrategyWeighted {
		t.Fatalf("expected weighted strategy, got %q", got)
	}
	if got := StrategyForForm(nil).Name(); got != StrategyFlatSum {
		t.Fatalf("expected flat-sum strategy, got %q", got)
	}
	if got := StrategyForForm([]Section{{Name: "empty"}}).Name(); got != StrategyFlatSum {
		t.Fatalf("expected flat-sum strategy for empty sections, got %q", got)
	}
}
