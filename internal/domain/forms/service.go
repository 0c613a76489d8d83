package forms

import (
	"context"

	"evaltrack/internal/domain/scoring"
)

type StoreAPI interface {
	Create(ctx context.Context, form Form) (string, error)
	GetByID(ctx context.Context, id string, includeInactive bool) (Form, error)
	List(ctx context.Context, includeInactive bool) ([]Form, error)
	ListByTeam(ctx context.Context, teamID string, includeInactive bool) ([]Form, error)
	Update(ctx context.Context, form Form) error
	Deactivate(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, id string) error
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Create persists a new form after enforcing the weight invariant. Forms
// authored without sections are legacy flat-scoring templates and skip the
// weight check; anything with sections must sum to exactly 100.
func (s *Service) Create(ctx context.Context, form Form) (string, error) {
	if len(form.Sections) > 0 {
		if err := scoring.ValidateWeights(form.Sections); err != nil {
			return "", err
		}
	}
	if form.Status == "" {
		form.Status = StatusActive
	}
	if form.Weight == 0 {
		form.Weight = scoring.RequiredWeightTotal
	}
	return s.store.Create(ctx, form)
}

func (s *Service) Get(ctx context.Context, id string, includeInactive bool) (Form, error) {
	return s.store.GetByID(ctx, id, includeInactive)
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]Form, error) {
	return s.store.List(ctx, includeInactive)
}

func (s *Service) ListByTeam(ctx context.Context, teamID string, includeInactive bool) ([]Form, error) {
	return s.store.ListByTeam(ctx, teamID, includeInactive)
}

// Update re-runs the weight invariant against the merged form before
// persisting, mirroring Create.
func (s *Service) Update(ctx context.Context, form Form) error {
	if len(form.Sections) > 0 {
		if err := scoring.ValidateWeights(form.Sections); err != nil {
			return err
		}
	}
	return s.store.Update(ctx, form)
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	return s.store.Deactivate(ctx, id)
}

func (s *Service) IncrementUsage(ctx context.Context, id string) error {
	return s.store.IncrementUsage(ctx, id)
}
