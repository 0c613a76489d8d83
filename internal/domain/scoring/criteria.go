package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// DefaultMaxScore applies when a form author omits a criterion's max score.
const DefaultMaxScore = 5

// RequiredWeightTotal is the exact sum the criterion weights of a form must
// reach. No epsilon: 99 and 100.01 are both rejected.
const RequiredWeightTotal = 100

var (
	ErrNoSections   = errors.New("form has no sections")
	ErrEmptySection = errors.New("section has no criteria")
	ErrWeightSum    = errors.New("invalid criteria weight total")
	ErrBadScore     = errors.New("score is not numeric")
)

type Criterion struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	MaxScore float64 `json:"maxScore"`
	Weight   float64 `json:"weight"`
}

type Section struct {
	Name     string      `json:"name"`
	Criteria []Criterion `json:"criteria"`
}

type RatingLevel struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// UnmarshalJSON applies the max-score default for criteria authored without
// one, so the zero value only survives when a caller wrote an explicit 0.
func (c *Criterion) UnmarshalJSON(data []byte) error {
	type alias Criterion
	aux := alias{MaxScore: DefaultMaxScore}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Criterion(aux)
	return nil
}

// Flatten returns all criteria of all sections in authoring order.
func Flatten(sections []Section) []Criterion {
	var out []Criterion
	for _, section := range sections {
		out = append(out, section.Criteria...)
	}
	return out
}

// TotalWeight sums the criterion weights across all sections.
func TotalWeight(sections []Section) float64 {
	total := 0.0
	for _, criterion := range Flatten(sections) {
		total += criterion.Weight
	}
	return total
}

// ValidateWeights enforces the authoring invariant: every section carries at
// least one criterion and the weights sum to exactly RequiredWeightTotal.
// It runs when a form is created or updated; the scoring path trusts the
// stored form and never re-checks.
func ValidateWeights(sections []Section) error {
	if len(sections) == 0 {
		return ErrNoSections
	}
	for _, section := range sections {
		if len(section.Criteria) == 0 {
			return fmt.Errorf("%w: %q", ErrEmptySection, section.Name)
		}
	}
	total := TotalWeight(sections)
	if total != RequiredWeightTotal {
		return fmt.Errorf("%w: criteria weights sum to %s%%, must be exactly %d%%",
			ErrWeightSum, strconv.FormatFloat(total, 'f', -1, 64), RequiredWeightTotal)
	}
	return nil
}
