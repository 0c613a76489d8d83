package periods

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("review period not found")
	ErrNameExists = errors.New("review period already exists")
)

type Period struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, name string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx,
		"INSERT INTO periods (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id",
		name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNameExists
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (Period, error) {
	var p Period
	err := s.DB.QueryRow(ctx,
		"SELECT id, name, created_at FROM periods WHERE id = $1", id).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrNotFound
	}
	return p, err
}

func (s *Store) GetByName(ctx context.Context, name string) (Period, error) {
	var p Period
	err := s.DB.QueryRow(ctx,
		"SELECT id, name, created_at FROM periods WHERE name = $1", name).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Period{}, ErrNotFound
	}
	return p, err
}

func (s *Store) List(ctx context.Context) ([]Period, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, created_at FROM periods ORDER BY created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
