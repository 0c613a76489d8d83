package scoring

import "math"

const (
	StrategyWeighted = "weighted"
	StrategyFlatSum  = "flat_sum"
)

// CriterionScore is the stored per-criterion breakdown of a submission.
type CriterionScore struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	Weight   float64 `json:"weight"`
	Points   float64 `json:"points"`
}

type Result struct {
	PerCriterion  map[string]CriterionScore `json:"perCriterion"`
	TotalPoints   float64                   `json:"totalPoints"`
	AveragePoints float64                   `json:"averagePoints"`
}

// Strategy computes a submission's points against a form definition. Both
// implementations are deterministic, never mutate their inputs and never
// fail: a stored form that drifted out of policy (weights no longer summing
// to 100) still yields a numeric result.
type Strategy interface {
	Name() string
	Compute(sections []Section, scores map[string]float64) Result
}

// StrategyForForm selects the weighted strategy whenever the form declares
// criteria; forms with no criteria fall back to the legacy flat sum.
func StrategyForForm(sections []Section) Strategy {
	if len(Flatten(sections)) > 0 {
		return WeightedStrategy{}
	}
	return FlatSumStrategy{}
}

// WeightedStrategy is the canonical scoring mode: each criterion's raw score
// is normalized by its max score and scaled by its weight. Missing scores
// contribute zero rather than failing; so does a criterion with a
// non-positive max score. Per-criterion points are rounded to two decimals
// and the total is the rounded sum of those rounded points, applied
// uniformly so repeated computation is value-identical.
type WeightedStrategy struct{}

func (WeightedStrategy) Name() string { return StrategyWeighted }

func (WeightedStrategy) Compute(sections []Section, scores map[string]float64) Result {
	criteria := Flatten(sections)
	result := Result{PerCriterion: make(map[string]CriterionScore, len(criteria))}

	total := 0.0
	for _, criterion := range criteria {
		score := scores[criterion.ID]
		points := 0.0
		if criterion.MaxScore > 0 {
			points = round2(score / criterion.MaxScore * criterion.Weight)
		}
		result.PerCriterion[criterion.ID] = CriterionScore{
			Score:    score,
			MaxScore: criterion.MaxScore,
			Weight:   criterion.Weight,
			Points:   points,
		}
		total += points
	}

	result.TotalPoints = round2(total)
	if len(criteria) > 0 {
		result.AveragePoints = round2(result.TotalPoints / float64(len(criteria)))
	}
	return result
}

// FlatSumStrategy is the legacy fallback for forms authored without weighted
// criteria: submitted values are summed as-is and averaged over the number
// of submitted entries.
type FlatSumStrategy struct{}

func (FlatSumStrategy) Name() string { return StrategyFlatSum }

func (FlatSumStrategy) Compute(_ []Section, scores map[string]float64) Result {
	result := Result{PerCriterion: make(map[string]CriterionScore, len(scores))}

	total := 0.0
	for id, score := range scores {
		result.PerCriterion[id] = CriterionScore{Score: score, Points: round2(score)}
		total += score
	}

	result.TotalPoints = round2(total)
	if len(scores) > 0 {
		result.AveragePoints = round2(result.TotalPoints / float64(len(scores)))
	}
	return result
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
