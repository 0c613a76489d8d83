package evaluations

import (
	"context"
	"errors"
	"testing"

	"evaltrack/internal/domain/forms"
	"evaltrack/internal/domain/scoring"
)

type fakeEvalStore struct {
	inserted  *Evaluation
	updated   *Evaluation
	existing  map[string]Evaluation
	insertErr error
}

func (f *fakeEvalStore) Insert(_ context.Context, eval Evaluation) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = &eval
	return "eval-1", nil
}

func (f *fakeEvalStore) GetByID(_ context.Context, id string) (Evaluation, error) {
	eval, ok := f.existing[id]
	if !ok {
		return Evaluation{}, ErrNotFound
	}
	return eval, nil
}

func (f *fakeEvalStore) ListByUser(context.Context, string) ([]Evaluation, error) { return nil, nil }
func (f *fakeEvalStore) ListAll(context.Context) ([]Evaluation, error)            { return nil, nil }

func (f *fakeEvalStore) Update(_ context.Context, eval Evaluation) error {
	f.updated = &eval
	return nil
}

type fakeFormAPI struct {
	form        forms.Form
	getErr      error
	usageCalls  int
	usageErr    error
	sawInactive bool
}

func (f *fakeFormAPI) Get(_ context.Context, _ string, includeInactive bool) (forms.Form, error) {
	f.sawInactive = includeInactive
	if f.getErr != nil {
		return forms.Form{}, f.getErr
	}
	return f.form, nil
}

func (f *fakeFormAPI) IncrementUsage(context.Context, string) error {
	f.usageCalls++
	return f.usageErr
}

func weightedTestForm() forms.Form {
	return forms.Form{
		ID:     "form-1",
		Status: forms.StatusActive,
		Sections: []scoring.Section{
			{Name: "Delivery", Criteria: []scoring.Criterion{
				{ID: "a", MaxScore: 5, Weight: 60},
				{ID: "b", MaxScore: 10, Weight: 40},
			}},
		},
	}
}

func TestSubmitComputesAndPersists(t *testing.T) {
	store := &fakeEvalStore{}
	formAPI := &fakeFormAPI{form: weightedTestForm()}
	svc := NewService(store, formAPI)

	id, err := svc.Submit(context.Background(), SubmitInput{
		UserID:      "user-1",
		EvaluatorID: "user-2",
		FormID:      "form-1",
		Scores:      map[string]any{"a": 5, "b": "10"},
		Comments:    "strong quarter",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if id != "eval-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if store.inserted.TotalPoints != 100 {
		t.Fatalf("expected total 100, got %v", store.inserted.TotalPoints)
	}
	if store.inserted.AveragePoints != 50 {
		t.Fatalf("expected average 50, got %v", store.inserted.AveragePoints)
	}
	if store.inserted.Scores["a"].Points != 60 {
		t.Fatalf("expected 60 points for a, got %+v", store.inserted.Scores["a"])
	}
	if formAPI.usageCalls != 1 {
		t.Fatalf("expected one usage increment, got %d", formAPI.usageCalls)
	}
	if formAPI.sawInactive {
		t.Fatal("submit must only see active forms")
	}
}

func TestSubmitRequiresScores(t *testing.T) {
	svc := NewService(&fakeEvalStore{}, &fakeFormAPI{form: weightedTestForm()})

	_, err := svc.Submit(context.Background(), SubmitInput{FormID: "form-1"})
	if !errors.Is(err, ErrNoScores) {
		t.Fatalf("expected no-scores error, got %v", err)
	}
}

func TestSubmitMapsMissingForm(t *testing.T) {
	svc := NewService(&fakeEvalStore{}, &fakeFormAPI{getErr: forms.ErrNotFound})

	_, err := svc.Submit(context.Background(), SubmitInput{
		FormID: "form-9",
		Scores: map[string]any{"a": 5},
	})
	if !errors.Is(err, ErrFormNotFound) {
		t.Fatalf("expected form not found, got %v", err)
	}
}

func TestSubmitRejectsNonNumericScores(t *testing.T) {
	store := &fakeEvalStore{}
	svc := NewService(store, &fakeFormAPI{form: weightedTestForm()})

	_, err := svc.Submit(context.Background(), SubmitInput{
		FormID: "form-1",
		Scores: map[string]any{"a": "excellent"},
	})
	if !errors.Is(err, scoring.ErrBadScore) {
		t.Fatalf("expected bad score error, got %v", err)
	}
	if store.inserted != nil {
		t.Fatal("nothing must be persisted on validation failure")
	}
}

func TestSubmitSurvivesUsageCounterFailure(t *testing.T) {
	store := &fakeEvalStore{}
	formAPI := &fakeFormAPI{form: weightedTestForm(), usageErr: errors.New("connection reset")}
	svc := NewService(store, formAPI)

	id, err := svc.Submit(context.Background(), SubmitInput{
		FormID: "form-1",
		Scores: map[string]any{"a": 4},
	})
	if err != nil {
		t.Fatalf("submit must succeed despite counter failure, got %v", err)
	}
	if id != "eval-1" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestSubmitDoesNotBumpUsageWhenInsertFails(t *testing.T) {
	store := &fakeEvalStore{insertErr: errors.New("constraint violation")}
	formAPI := &fakeFormAPI{form: weightedTestForm()}
	svc := NewService(store, formAPI)

	if _, err := svc.Submit(context.Background(), SubmitInput{
		FormID: "form-1",
		Scores: map[string]any{"a": 4},
	}); err == nil {
		t.Fatal("expected insert error")
	}
	if formAPI.usageCalls != 0 {
		t.Fatalf("usage counter must not move on failed insert, got %d calls", formAPI.usageCalls)
	}
}

func TestSubmitUsesFlatSumForFormsWithoutCriteria(t *testing.T) {
	store := &fakeEvalStore{}
	formAPI := &fakeFormAPI{form: forms.Form{ID: "form-2", Status: forms.StatusActive}}
	svc := NewService(store, formAPI)

	if _, err := svc.Submit(context.Background(), SubmitInput{
		FormID: "form-2",
		Scores: map[string]any{"q1": 4, "q2": 2},
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if store.inserted.TotalPoints != 6 {
		t.Fatalf("expected flat sum 6, got %v", store.inserted.TotalPoints)
	}
	if store.inserted.AveragePoints != 3 {
		t.Fatalf("expected average 3, got %v", store.inserted.AveragePoints)
	}
}

func TestUpdateRecomputesWhenScoresResupplied(t *testing.T) {
	store := &fakeEvalStore{existing: map[string]Evaluation{
		"eval-1": {ID: "eval-1", FormID: "form-1", TotalPoints: 100, Comments: "old"},
	}}
	formAPI := &fakeFormAPI{form: weightedTestForm()}
	svc := NewService(store, formAPI)

	err := svc.Update(context.Background(), "eval-1", UpdatePatch{
		Scores: map[string]any{"a": 2.5, "b": 5},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if store.updated.TotalPoints != 50 {
		t.Fatalf("expected recomputed total 50, got %v", store.updated.TotalPoints)
	}
	if !formAPI.sawInactive {
		t.Fatal("update must be able to resolve inactive forms")
	}
	if store.updated.Comments != "old" {
		t.Fatalf("comments must be untouched, got %q", store.updated.Comments)
	}
}

func TestUpdateMergesFieldsWithoutRecomputation(t *testing.T) {
	store := &fakeEvalStore{existing: map[string]Evaluation{
		"eval-1": {ID: "eval-1", FormID: "form-1", TotalPoints: 80},
	}}
	formAPI := &fakeFormAPI{form: weightedTestForm()}
	svc := NewService(store, formAPI)

	comments := "revised wording"
	if err := svc.Update(context.Background(), "eval-1", UpdatePatch{Comments: &comments}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if store.updated.TotalPoints != 80 {
		t.Fatalf("total must be untouched without scores, got %v", store.updated.TotalPoints)
	}
	if store.updated.Comments != "revised wording" {
		t.Fatalf("unexpected comments %q", store.updated.Comments)
	}
}

func TestUpdateUnknownEvaluation(t *testing.T) {
	svc := NewService(&fakeEvalStore{}, &fakeFormAPI{form: weightedTestForm()})

	if err := svc.Update(context.Background(), "missing", UpdatePatch{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
