package users

import (
	"context"

	"evaltrack/internal/domain/auth"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Register creates a user account with a hashed password. The email must be
// unique across the organization.
func (s *Service) Register(ctx context.Context, user User, password string) (string, error) {
	exists, err := s.store.EmailExists(ctx, user.Email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrEmailExists
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if user.Status == "" {
		user.Status = StatusActive
	}
	return s.store.Create(ctx, user, hash)
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]User, error) {
	return s.store.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, user User) error {
	return s.store.Update(ctx, user)
}

// ChangePassword verifies the old password before storing the new hash.
func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	hash, err := s.store.PasswordHash(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(hash, oldPassword); err != nil {
		return ErrBadPassword
	}

	newHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.SetPasswordHash(ctx, id, newHash)
}

func (s *Service) RoleIDByName(ctx context.Context, name string) (string, error) {
	return s.store.RoleIDByName(ctx, name)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
