package departments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const departmentColumns = `
    d.id, d.name, COALESCE(d.description, ''),
    d.manager_id::text, COALESCE(u.name, ''),
    (SELECT COUNT(*) FROM teams t WHERE t.department_id = d.id),
    (SELECT COUNT(*) FROM users s WHERE s.department_id = d.id),
    d.created_at
`

const departmentFrom = `
    FROM departments d
    LEFT JOIN users u ON d.manager_id = u.id
`

func (s *Store) NameExists(ctx context.Context, name string, excludeID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM departments WHERE LOWER(name) = LOWER($1) AND id::text <> $2)",
		name, excludeID).Scan(&exists)
	return exists, err
}

func (s *Store) Create(ctx context.Context, dep Department) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description, manager_id)
    VALUES ($1,$2,$3)
    RETURNING id
  `, dep.Name, dep.Description, dep.ManagerID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (Department, error) {
	dep, err := scanDepartment(s.DB.QueryRow(ctx,
		"SELECT "+departmentColumns+departmentFrom+" WHERE d.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrNotFound
	}
	return dep, err
}

func (s *Store) List(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+departmentColumns+departmentFrom+" ORDER BY d.name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		dep, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, dep)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, dep Department) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE departments
    SET name = $1, description = $2, manager_id = $3
    WHERE id = $4
  `, dep.Name, dep.Description, dep.ManagerID, dep.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete detaches teams and staff before removing the department row.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "UPDATE teams SET department_id = NULL WHERE department_id = $1", id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "UPDATE users SET department_id = NULL WHERE department_id = $1", id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func scanDepartment(row pgx.Row) (Department, error) {
	var dep Department
	err := row.Scan(
		&dep.ID, &dep.Name, &dep.Description,
		&dep.ManagerID, &dep.ManagerName,
		&dep.TeamCount, &dep.StaffCount,
		&dep.CreatedAt,
	)
	if err != nil {
		return Department{}, err
	}
	return dep, nil
}
