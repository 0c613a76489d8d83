package forms

import (
	"time"

	"evaltrack/internal/domain/scoring"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"

	TypePeerEvaluation = "peer_evaluation"
	TypeSelfAssessment = "self_assessment"
)

// Form is a reusable evaluation template. Weight is fixed at 100 for every
// form; the criterion weights inside it are what actually distribute the
// score. A nil TeamID means the form applies to all teams.
type Form struct {
	ID              string                `json:"id"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	FormType        string                `json:"formType"`
	TargetEvaluator string                `json:"targetEvaluator"`
	Weight          float64               `json:"weight"`
	Sections        []scoring.Section     `json:"sections"`
	RatingScale     []scoring.RatingLevel `json:"ratingScale"`
	TeamID          *string               `json:"teamId"`
	PeriodID        *string               `json:"periodId"`
	Status          string                `json:"status"`
	UsageCount      int                   `json:"usageCount"`
	CreatedBy       string                `json:"createdBy"`
	LastModified    time.Time             `json:"lastModified"`
}
