package evaluations

import (
	"time"

	"evaltrack/internal/domain/scoring"
)

// Evaluation is one scored submission of a form against a subject user.
// Scores holds the per-criterion breakdown computed at submission time and
// round-trips through a JSONB column unchanged. PeriodName is resolved from
// the period reference on read for reporting convenience.
type Evaluation struct {
	ID            string                            `json:"id"`
	UserID        string                            `json:"userId"`
	EvaluatorID   string                            `json:"evaluatorId"`
	FormID        string                            `json:"formId"`
	Scores        map[string]scoring.CriterionScore `json:"scores"`
	TotalPoints   float64                           `json:"totalPoints"`
	AveragePoints float64                           `json:"averagePoints"`
	Comments      string                            `json:"comments"`
	PeriodID      *string                           `json:"periodId"`
	PeriodName    string                            `json:"period,omitempty"`
	SubmittedAt   time.Time                         `json:"submittedAt"`
}

type SubmitInput struct {
	UserID      string
	EvaluatorID string
	FormID      string
	Scores      map[string]any
	Comments    string
	PeriodID    *string
}

// UpdatePatch carries a partial in-place update. A non-nil Scores map forces
// recomputation against the evaluation's form; nil leaves stored points
// untouched.
type UpdatePatch struct {
	Scores   map[string]any
	Comments *string
	PeriodID *string
}
