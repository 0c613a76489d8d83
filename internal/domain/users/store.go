package users

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = `
    u.id, u.name, COALESCE(u.job_title, ''), COALESCE(u.level, ''), u.email,
    u.department_id::text, COALESCE(d.name, ''),
    u.team_id::text, COALESCE(t.name, ''),
    COALESCE(u.phone, ''), COALESCE(u.address, ''), COALESCE(u.emergency_contact, ''),
    u.salary, COALESCE(u.profile_image, ''),
    u.role_id::text, r.name, u.status, u.date_registered
`

const userFrom = `
    FROM users u
    JOIN roles r ON u.role_id = r.id
    LEFT JOIN teams t ON u.team_id = t.id
    LEFT JOIN departments d ON u.department_id = d.id
`

func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Create(ctx context.Context, user User, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users
      (name, job_title, level, email, password_hash, department_id, team_id,
       phone, address, emergency_contact, salary, profile_image, role_id, status, date_registered)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,CURRENT_DATE)
    RETURNING id
  `, user.Name, user.JobTitle, user.Level, user.Email, passwordHash,
		user.DepartmentID, user.TeamID, user.Phone, user.Address, user.EmergencyContact,
		user.Salary, user.ProfileImage, user.RoleID, user.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (User, error) {
	user, err := scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+userFrom+" WHERE u.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]User, error) {
	query := "SELECT " + userColumns + userFrom + " WHERE 1=1"
	var args []any

	if filter.RestrictToTeamOf != "" {
		args = append(args, filter.RestrictToTeamOf)
		query += " AND u.team_id = (SELECT team_id FROM users WHERE id = $1)"
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		query += " AND d.name = $" + itoa(len(args))
	}
	if filter.Role != "" {
		args = append(args, filter.Role)
		query += " AND r.name = $" + itoa(len(args))
	}
	query += " ORDER BY u.name ASC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, user User) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE users
    SET name = $1, job_title = $2, level = $3, email = $4, department_id = $5,
        team_id = $6, phone = $7, address = $8, emergency_contact = $9,
        salary = $10, profile_image = $11, role_id = $12, status = $13
    WHERE id = $14
  `, user.Name, user.JobTitle, user.Level, user.Email, user.DepartmentID,
		user.TeamID, user.Phone, user.Address, user.EmergencyContact,
		user.Salary, user.ProfileImage, user.RoleID, user.Status, user.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) PasswordHash(ctx context.Context, id string) (string, error) {
	var hash string
	err := s.DB.QueryRow(ctx, "SELECT password_hash FROM users WHERE id = $1", id).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return hash, err
}

func (s *Store) SetPasswordHash(ctx context.Context, id, hash string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) RoleIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Name, &user.JobTitle, &user.Level, &user.Email,
		&user.DepartmentID, &user.DepartmentName,
		&user.TeamID, &user.TeamName,
		&user.Phone, &user.Address, &user.EmergencyContact,
		&user.Salary, &user.ProfileImage,
		&user.RoleID, &user.Role, &user.Status, &user.DateRegistered,
	)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
