package evaluations

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

const evalColumns = `
    e.id, e.user_id::text, e.evaluator_id::text, e.form_id::text,
    e.scores, e.total_points, e.average_points, COALESCE(e.comments, ''),
    e.period_id::text, COALESCE(p.name, ''), e.submitted_at
`

const evalFrom = " FROM evaluations e LEFT JOIN periods p ON e.period_id = p.id"

func (s *Store) Insert(ctx context.Context, eval Evaluation) (string, error) {
	scoresJSON, err := json.Marshal(eval.Scores)
	if err != nil {
		return "", err
	}

	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO evaluations
      (user_id, evaluator_id, form_id, scores, total_points, average_points, comments, period_id, submitted_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, eval.UserID, eval.EvaluatorID, eval.FormID, scoresJSON,
		eval.TotalPoints, eval.AveragePoints, eval.Comments, eval.PeriodID, eval.SubmittedAt).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (Evaluation, error) {
	eval, err := scanEvaluation(s.DB.QueryRow(ctx, "SELECT "+evalColumns+evalFrom+" WHERE e.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Evaluation{}, ErrNotFound
	}
	return eval, err
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]Evaluation, error) {
	return s.queryEvaluations(ctx,
		"SELECT "+evalColumns+evalFrom+" WHERE e.user_id = $1 ORDER BY e.submitted_at DESC", userID)
}

func (s *Store) ListAll(ctx context.Context) ([]Evaluation, error) {
	return s.queryEvaluations(ctx, "SELECT "+evalColumns+evalFrom+" ORDER BY e.submitted_at DESC")
}

func (s *Store) Update(ctx context.Context, eval Evaluation) error {
	scoresJSON, err := json.Marshal(eval.Scores)
	if err != nil {
		return err
	}

	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluations
    SET scores = $1, total_points = $2, average_points = $3, comments = $4, period_id = $5
    WHERE id = $6
  `, scoresJSON, eval.TotalPoints, eval.AveragePoints, eval.Comments, eval.PeriodID, eval.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) queryEvaluations(ctx context.Context, query string, args ...any) ([]Evaluation, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Evaluation
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, eval)
	}
	return out, rows.Err()
}

func scanEvaluation(row pgx.Row) (Evaluation, error) {
	var eval Evaluation
	var scoresJSON []byte
	var periodID *string
	err := row.Scan(
		&eval.ID, &eval.UserID, &eval.EvaluatorID, &eval.FormID,
		&scoresJSON, &eval.TotalPoints, &eval.AveragePoints, &eval.Comments,
		&periodID, &eval.PeriodName, &eval.SubmittedAt,
	)
	if err != nil {
		return Evaluation{}, err
	}
	eval.PeriodID = periodID

	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &eval.Scores); err != nil {
			return Evaluation{}, fmt.Errorf("evaluation %s has malformed scores: %w", eval.ID, err)
		}
	}
	if eval.Scores == nil {
		eval.Scores = map[string]scoring.CriterionScore{}
	}
	return eval, nil
}
