package teams

import (
	"context"
)

type StoreAPI interface {
	Create(ctx context.Context, team Team) (string, error)
	GetByID(ctx context.Context, id string) (Team, error)
	List(ctx context.Context) ([]Team, error)
	Update(ctx context.Context, team Team) error
	Delete(ctx context.Context, id string) error
	AssignedMemberNames(ctx context.Context, memberIDs []string) ([]string, error)
	AssignMembers(ctx context.Context, teamID string, memberIDs []string) error
	UnassignMembers(ctx context.Context, memberIDs []string) error
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Create rejects member candidates that already belong to another team and
// reports their names so the caller can resolve the conflict.
func (s *Service) Create(ctx context.Context, team Team, memberIDs []string) (string, error) {
	if len(memberIDs) > 0 {
		taken, err := s.store.AssignedMemberNames(ctx, memberIDs)
		if err != nil {
			return "", err
		}
		if len(taken) > 0 {
			return "", &MembersTakenError{Names: taken}
		}
	}

	id, err := s.store.Create(ctx, team)
	if err != nil {
		return "", err
	}
	if len(memberIDs) > 0 {
		if err := s.store.AssignMembers(ctx, id, memberIDs); err != nil {
			return "", err
		}
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id string) (Team, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Team, error) {
	return s.store.List(ctx)
}

// Update replaces the team row and, when memberIDs is non-nil, reassigns
// membership to exactly that set.
func (s *Service) Update(ctx context.Context, team Team, memberIDs []string) error {
	if err := s.store.Update(ctx, team); err != nil {
		return err
	}
	if memberIDs == nil {
		return nil
	}
	current, err := s.store.GetByID(ctx, team.ID)
	if err != nil {
		return err
	}
	incoming := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		incoming[id] = true
	}
	var added []string
	for _, id := range memberIDs {
		found := false
		for _, m := range current.Members {
			if m.ID == id {
				found = true
				break
			}
		}
		if !found {
			added = append(added, id)
		}
	}
	if len(added) > 0 {
		taken, err := s.store.AssignedMemberNames(ctx, added)
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			return &MembersTakenError{Names: taken}
		}
		if err := s.store.AssignMembers(ctx, team.ID, added); err != nil {
			return err
		}
	}
	var removed []string
	for _, m := range current.Members {
		if !incoming[m.ID] {
			removed = append(removed, m.ID)
		}
	}
	if len(removed) > 0 {
		if err := s.store.UnassignMembers(ctx, removed); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
