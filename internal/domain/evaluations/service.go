package evaluations

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"evaltrack/internal/domain/forms"
	"evaltrack/internal/domain/scoring"
)

type StoreAPI interface {
	Insert(ctx context.Context, eval Evaluation) (string, error)
	GetByID(ctx context.Context, id string) (Evaluation, error)
	ListByUser(ctx context.Context, userID string) ([]Evaluation, error)
	ListAll(ctx context.Context) ([]Evaluation, error)
	Update(ctx context.Context, eval Evaluation) error
}

// FormAPI is the slice of the forms service the orchestration depends on.
type FormAPI interface {
	Get(ctx context.Context, id string, includeInactive bool) (forms.Form, error)
	IncrementUsage(ctx context.Context, id string) error
}

type Service struct {
	store StoreAPI
	forms FormAPI
}

func NewService(store StoreAPI, formSvc FormAPI) *Service {
	return &Service{store: store, forms: formSvc}
}

// Submit scores a submission against its form and persists it. The form must
// be active; scoring runs against the stored form as-is (the weight invariant
// was enforced when the form was authored). The usage counter bump after the
// insert is best effort: the evaluation is already durable, so a counter
// failure is logged and swallowed.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (string, error) {
	if len(in.Scores) == 0 {
		return "", ErrNoScores
	}

	form, err := s.forms.Get(ctx, in.FormID, false)
	if err != nil {
		if errors.Is(err, forms.ErrNotFound) {
			return "", ErrFormNotFound
		}
		return "", err
	}

	rawScores, err := scoring.NormalizeScores(in.Scores)
	if err != nil {
		return "", err
	}

	result := scoring.StrategyForForm(form.Sections).Compute(form.Sections, rawScores)

	id, err := s.store.Insert(ctx, Evaluation{
		UserID:        in.UserID,
		EvaluatorID:   in.EvaluatorID,
		FormID:        form.ID,
		Scores:        result.PerCriterion,
		TotalPoints:   result.TotalPoints,
		AveragePoints: result.AveragePoints,
		Comments:      in.Comments,
		PeriodID:      in.PeriodID,
		SubmittedAt:   time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}

	if err := s.forms.IncrementUsage(ctx, form.ID); err != nil {
		slog.Warn("form usage counter update failed", "formId", form.ID, "err", err)
	}

	return id, nil
}

// Update overwrites an evaluation in place. When the patch resupplies scores
// the points are recomputed against the associated form; inactive forms are
// allowed here so historical submissions stay correctable after a form is
// retired. Other fields merge without recomputation.
func (s *Service) Update(ctx context.Context, id string, patch UpdatePatch) error {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if patch.Scores != nil {
		form, err := s.forms.Get(ctx, current.FormID, true)
		if err != nil {
			if errors.Is(err, forms.ErrNotFound) {
				return ErrFormNotFound
			}
			return err
		}

		rawScores, err := scoring.NormalizeScores(patch.Scores)
		if err != nil {
			return err
		}

		result := scoring.StrategyForForm(form.Sections).Compute(form.Sections, rawScores)
		current.Scores = result.PerCriterion
		current.TotalPoints = result.TotalPoints
		current.AveragePoints = result.AveragePoints
	}

	if patch.Comments != nil {
		current.Comments = *patch.Comments
	}
	if patch.PeriodID != nil {
		current.PeriodID = patch.PeriodID
	}

	return s.store.Update(ctx, current)
}

func (s *Service) Get(ctx context.Context, id string) (Evaluation, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Evaluation, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]Evaluation, error) {
	return s.store.ListAll(ctx)
}
