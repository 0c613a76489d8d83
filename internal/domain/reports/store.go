package reports

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type EmployeeReport struct {
	EmployeeID       string    `json:"employeeId"`
	EmployeeName     string    `json:"employeeName"`
	JobTitle         string    `json:"jobTitle"`
	Department       string    `json:"department"`
	TotalEvaluations int       `json:"totalEvaluations"`
	PeerScores       []float64 `json:"peerScores"`
	SelfScores       []float64 `json:"selfScores"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const reportColumns = `
    u.id, u.name, COALESCE(u.job_title, ''), COALESCE(d.name, ''),
    (SELECT COUNT(1) FROM evaluations ev WHERE ev.user_id = u.id),
    COALESCE((
      SELECT array_agg(e.total_points ORDER BY e.submitted_at)
      FROM evaluations e
      JOIN evaluation_forms f ON e.form_id = f.id
      WHERE e.user_id = u.id AND f.form_type = 'peer_evaluation'
    ), '{}'),
    COALESCE((
      SELECT array_agg(e.total_points ORDER BY e.submitted_at)
      FROM evaluations e
      JOIN evaluation_forms f ON e.form_id = f.id
      WHERE e.user_id = u.id AND f.form_type = 'self_assessment'
    ), '{}')
`

// PerformanceReport returns the all-employee rollup: per user, the list of
// peer and self evaluation totals plus the submission count. Evaluations
// against inactive forms still contribute.
func (s *Store) PerformanceReport(ctx context.Context) ([]EmployeeReport, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+reportColumns+`
    FROM users u
    LEFT JOIN departments d ON u.department_id = d.id
    ORDER BY u.name ASC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

func (s *Store) EmployeeReport(ctx context.Context, userID string) (EmployeeReport, error) {
	report, err := scanReport(s.DB.QueryRow(ctx, `
    SELECT `+reportColumns+`
    FROM users u
    LEFT JOIN departments d ON u.department_id = d.id
    WHERE u.id = $1
  `, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeReport{}, ErrEmployeeNotFound
	}
	return report, err
}

func scanReport(row pgx.Row) (EmployeeReport, error) {
	var report EmployeeReport
	err := row.Scan(
		&report.EmployeeID, &report.EmployeeName, &report.JobTitle, &report.Department,
		&report.TotalEvaluations, &report.PeerScores, &report.SelfScores,
	)
	if err != nil {
		return EmployeeReport{}, err
	}
	if report.PeerScores == nil {
		report.PeerScores = []float64{}
	}
	if report.SelfScores == nil {
		report.SelfScores = []float64{}
	}
	return report, nil
}
