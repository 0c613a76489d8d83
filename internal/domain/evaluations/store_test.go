package evaluations

import (
	"encoding/json"
	"reflect"
	"testing"

	"evaltrack/internal/domain/scoring"
)

// Insert serializes the per-criterion breakdown to JSONB and scanEvaluation
// deserializes it back; a computed breakdown must survive that boundary
// unchanged.
func TestScoresSurviveSerialization(t *testing.T) {
	sections := []scoring.Section{
		{Name: "Delivery", Criteria: []scoring.Criterion{
			{ID: "quality", Label: "Quality of work", MaxScore: 5, Weight: 60},
		}},
		{Name: "Collaboration", Criteria: []scoring.Criterion{
			{ID: "teamwork", Label: "Teamwork", MaxScore: 5, Weight: 40},
		}},
	}
	result := scoring.WeightedStrategy{}.Compute(sections, map[string]float64{
		"quality":  4,
		"teamwork": 5,
	})

	raw, err := json.Marshal(result.PerCriterion)
	if err != nil {
		t.Fatalf("failed to marshal scores: %v", err)
	}

	var restored map[string]scoring.CriterionScore
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("failed to unmarshal scores: %v", err)
	}

	want := map[string]scoring.CriterionScore{
		"quality":  {Score: 4, MaxScore: 5, Weight: 60, Points: 48},
		"teamwork": {Score: 5, MaxScore: 5, Weight: 40, Points: 40},
	}
	if !reflect.DeepEqual(restored, want) {
		t.Fatalf("expected restored scores %+v, got %+v", want, restored)
	}
	if !reflect.DeepEqual(restored, result.PerCriterion) {
		t.Fatalf("scores changed across serialization: %+v vs %+v", result.PerCriterion, restored)
	}
}
