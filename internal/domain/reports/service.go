package reports

import (
	"context"

	"evaltrack/internal/domain/evaluations"
)

type EvaluationLister interface {
	ListByUser(ctx context.Context, userID string) ([]evaluations.Evaluation, error)
}

type Service struct {
	store *Store
	evals EvaluationLister
}

func NewService(store *Store, evals EvaluationLister) *Service {
	return &Service{store: store, evals: evals}
}

func (s *Service) PerformanceReport(ctx context.Context) ([]EmployeeReport, error) {
	return s.store.PerformanceReport(ctx)
}

func (s *Service) EmployeeReport(ctx context.Context, userID string) (EmployeeReport, error) {
	return s.store.EmployeeReport(ctx, userID)
}

func (s *Service) QuarterlyPerformance(ctx context.Context, userID string) ([]PeriodScore, error) {
	evals, err := s.evals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return AggregateByPeriod(evals), nil
}

func (s *Service) QuarterlyDashboard(ctx context.Context, userID string) (Dashboard, error) {
	evals, err := s.evals.ListByUser(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(evals), nil
}
