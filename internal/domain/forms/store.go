package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"evaltrack/internal/domain/scoring"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const formColumns = `
    id, title, COALESCE(description, ''), form_type, target_evaluator, weight,
    sections, rating_scale, team_id::text, period_id::text, status, usage_count,
    COALESCE(created_by::text, ''), last_modified
`

func (s *Store) Create(ctx context.Context, form Form) (string, error) {
	sectionsJSON, err := json.Marshal(form.Sections)
	if err != nil {
		return "", err
	}
	scaleJSON, err := json.Marshal(form.RatingScale)
	if err != nil {
		return "", err
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO evaluation_forms
      (title, description, form_type, target_evaluator, weight, sections, rating_scale,
       team_id, period_id, status, usage_count, created_by, last_modified)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,0,$11,now())
    RETURNING id
  `, form.Title, form.Description, form.FormType, form.TargetEvaluator, form.Weight,
		sectionsJSON, scaleJSON, form.TeamID, form.PeriodID, form.Status, form.CreatedBy).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetByID resolves a form. Inactive forms are hidden unless the caller asks
// for them, which reporting and historical fix-up paths do.
func (s *Store) GetByID(ctx context.Context, id string, includeInactive bool) (Form, error) {
	query := "SELECT " + formColumns + " FROM evaluation_forms WHERE id = $1"
	if !includeInactive {
		query += " AND status = 'active'"
	}
	form, err := scanForm(s.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Form{}, ErrNotFound
	}
	return form, err
}

func (s *Store) List(ctx context.Context, includeInactive bool) ([]Form, error) {
	query := "SELECT " + formColumns + " FROM evaluation_forms"
	if !includeInactive {
		query += " WHERE status = 'active'"
	}
	query += " ORDER BY last_modified DESC"
	return s.queryForms(ctx, query)
}

func (s *Store) ListByTeam(ctx context.Context, teamID string, includeInactive bool) ([]Form, error) {
	query := "SELECT " + formColumns + ` FROM evaluation_forms WHERE (team_id = $1 OR team_id IS NULL)`
	if !includeInactive {
		query += " AND status = 'active'"
	}
	query += " ORDER BY last_modified DESC"
	return s.queryForms(ctx, query, teamID)
}

func (s *Store) Update(ctx context.Context, form Form) error {
	sectionsJSON, err := json.Marshal(form.Sections)
	if err != nil {
		return err
	}
	scaleJSON, err := json.Marshal(form.RatingScale)
	if err != nil {
		return err
	}

	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluation_forms
    SET title = $1, description = $2, form_type = $3, target_evaluator = $4, weight = $5,
        sections = $6, rating_scale = $7, team_id = $8, period_id = $9, status = $10,
        last_modified = now()
    WHERE id = $11
  `, form.Title, form.Description, form.FormType, form.TargetEvaluator, form.Weight,
		sectionsJSON, scaleJSON, form.TeamID, form.PeriodID, form.Status, form.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate is the delete operation: a soft status flip so historical
// evaluations referencing the form remain resolvable.
func (s *Store) Deactivate(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluation_forms SET status = 'inactive', last_modified = now()
    WHERE id = $1 AND status = 'active'
  `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementUsage bumps the advisory usage counter in a single statement so
// concurrent submissions cannot lose increments.
func (s *Store) IncrementUsage(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE evaluation_forms SET usage_count = usage_count + 1 WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) queryForms(ctx context.Context, query string, args ...any) ([]Form, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Form
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, form)
	}
	return out, rows.Err()
}

func scanForm(row pgx.Row) (Form, error) {
	var form Form
	var sectionsJSON, scaleJSON []byte
	var teamID, periodID *string
	err := row.Scan(
		&form.ID, &form.Title, &form.Description, &form.FormType, &form.TargetEvaluator,
		&form.Weight, &sectionsJSON, &scaleJSON, &teamID, &periodID,
		&form.Status, &form.UsageCount, &form.CreatedBy, &form.LastModified,
	)
	if err != nil {
		return Form{}, err
	}
	form.TeamID = teamID
	form.PeriodID = periodID

	if len(sectionsJSON) > 0 {
		if err := json.Unmarshal(sectionsJSON, &form.Sections); err != nil {
			return Form{}, fmt.Errorf("form %s has malformed sections: %w", form.ID, err)
		}
	}
	if len(scaleJSON) > 0 {
		if err := json.Unmarshal(scaleJSON, &form.RatingScale); err != nil {
			return Form{}, fmt.Errorf("form %s has malformed rating scale: %w", form.ID, err)
		}
	}
	if form.Sections == nil {
		form.Sections = []scoring.Section{}
	}
	if form.RatingScale == nil {
		form.RatingScale = []scoring.RatingLevel{}
	}
	return form, nil
}
