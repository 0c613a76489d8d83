package notifications

const (
	TypeEvaluationReceived = "evaluation_received"
	TypeEvaluationUpdated  = "evaluation_updated"
	TypeFormPublished      = "form_published"
	TypeTeamAssigned       = "team_assigned"
)
