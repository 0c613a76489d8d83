package departments

import "context"

type StoreAPI interface {
	NameExists(ctx context.Context, name string, excludeID string) (bool, error)
	Create(ctx context.Context, dep Department) (string, error)
	GetByID(ctx context.Context, id string) (Department, error)
	List(ctx context.Context) ([]Department, error)
	Update(ctx context.Context, dep Department) error
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, dep Department) (string, error) {
	exists, err := s.store.NameExists(ctx, dep.Name, "")
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrNameExists
	}
	return s.store.Create(ctx, dep)
}

func (s *Service) Get(ctx context.Context, id string) (Department, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Department, error) {
	return s.store.List(ctx)
}

func (s *Service) Update(ctx context.Context, dep Department) error {
	exists, err := s.store.NameExists(ctx, dep.Name, dep.ID)
	if err != nil {
		return err
	}
	if exists {
		return ErrNameExists
	}
	return s.store.Update(ctx, dep)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
