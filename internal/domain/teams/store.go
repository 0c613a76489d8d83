package teams

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

const teamColumns = `
    t.id, t.name, COALESCE(t.description, ''),
    t.leader_id::text, COALESCE(u.name, ''),
    t.department_id::text, COALESCE(d.name, ''),
    t.created_at
`

const teamFrom = `
    FROM teams t
    LEFT JOIN users u ON t.leader_id = u.id
    LEFT JOIN departments d ON t.department_id = d.id
`

func (s *Store) Create(ctx context.Context, team Team) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO teams (name, description, leader_id, department_id)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, team.Name, team.Description, team.LeaderID, team.DepartmentID).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (Team, error) {
	team, err := scanTeam(s.DB.QueryRow(ctx, "SELECT "+teamColumns+teamFrom+" WHERE t.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, ErrNotFound
	}
	if err != nil {
		return Team{}, err
	}
	if err := s.loadMembers(ctx, &team); err != nil {
		return Team{}, err
	}
	return team, nil
}

func (s *Store) List(ctx context.Context) ([]Team, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+teamColumns+teamFrom+" ORDER BY t.created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := s.loadMembers(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, team Team) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE teams
    SET name = $1, description = $2, leader_id = $3, department_id = $4
    WHERE id = $5
  `, team.Name, team.Description, team.LeaderID, team.DepartmentID, team.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the team and releases its members back to the unassigned
// pool.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "UPDATE users SET team_id = NULL WHERE team_id = $1", id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "DELETE FROM teams WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

// AssignedMemberNames returns the names of candidate members that already
// belong to some team.
func (s *Store) AssignedMemberNames(ctx context.Context, memberIDs []string) ([]string, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT name FROM users WHERE id = ANY($1) AND team_id IS NOT NULL", memberIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) AssignMembers(ctx context.Context, teamID string, memberIDs []string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET team_id = $1 WHERE id = ANY($2)", teamID, memberIDs)
	return err
}

func (s *Store) UnassignMembers(ctx context.Context, memberIDs []string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET team_id = NULL WHERE id = ANY($1)", memberIDs)
	return err
}

func (s *Store) loadMembers(ctx context.Context, team *Team) error {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM users WHERE team_id = $1 ORDER BY name ASC", team.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	team.Members = []Member{}
	for rows.Next() {
		var member Member
		if err := rows.Scan(&member.ID, &member.Name); err != nil {
			return err
		}
		team.Members = append(team.Members, member)
	}
	team.MembersCount = len(team.Members)
	return rows.Err()
}

func scanTeam(row pgx.Row) (Team, error) {
	var team Team
	err := row.Scan(
		&team.ID, &team.Name, &team.Description,
		&team.LeaderID, &team.LeaderName,
		&team.DepartmentID, &team.DepartmentName,
		&team.CreatedAt,
	)
	if err != nil {
		return Team{}, err
	}
	return team, nil
}
