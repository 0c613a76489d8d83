package teams

import (
	"context"
	"errors"
	"testing"
)

type fakeTeamStore struct {
	teams       map[string]Team
	assigned    map[string]string
	names       map[string]string
	assignCalls int
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{
		teams:    map[string]Team{},
		assigned: map[string]string{},
		names:    map[string]string{},
	}
}

func (f *fakeTeamStore) Create(_ context.Context, team Team) (string, error) {
	team.ID = "team-1"
	f.teams[team.ID] = team
	return team.ID, nil
}

func (f *fakeTeamStore) GetByID(_ context.Context, id string) (Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return Team{}, ErrNotFound
	}
	team.Members = nil
	for memberID, teamID := range f.assigned {
		if teamID == id {
			team.Members = append(team.Members, Member{ID: memberID, Name: f.names[memberID]})
		}
	}
	team.MembersCount = len(team.Members)
	return team, nil
}

func (f *fakeTeamStore) List(_ context.Context) ([]Team, error) {
	var out []Team
	for _, team := range f.teams {
		out = append(out, team)
	}
	return out, nil
}

func (f *fakeTeamStore) Update(_ context.Context, team Team) error {
	if _, ok := f.teams[team.ID]; !ok {
		return ErrNotFound
	}
	f.teams[team.ID] = team
	return nil
}

func (f *fakeTeamStore) Delete(_ context.Context, id string) error {
	if _, ok := f.teams[id]; !ok {
		return ErrNotFound
	}
	delete(f.teams, id)
	return nil
}

func (f *fakeTeamStore) AssignedMemberNames(_ context.Context, memberIDs []string) ([]string, error) {
	var names []string
	for _, id := range memberIDs {
		if _, ok := f.assigned[id]; ok {
			names = append(names, f.names[id])
		}
	}
	return names, nil
}

func (f *fakeTeamStore) AssignMembers(_ context.Context, teamID string, memberIDs []string) error {
	f.assignCalls++
	for _, id := range memberIDs {
		f.assigned[id] = teamID
	}
	return nil
}

func (f *fakeTeamStore) UnassignMembers(_ context.Context, memberIDs []string) error {
	for _, id := range memberIDs {
		delete(f.assigned, id)
	}
	return nil
}

func TestCreateAssignsMembers(t *testing.T) {
	store := newFakeTeamStore()
	store.names["u1"] = "Alice"
	store.names["u2"] = "Bob"
	svc := NewService(store)

	id, err := svc.Create(context.Background(), Team{Name: "Platform"}, []string{"u1", "u2"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if store.assigned["u1"] != id || store.assigned["u2"] != id {
		t.Fatalf("members not assigned to %s: %v", id, store.assigned)
	}
}

func TestCreateRejectsTakenMembers(t *testing.T) {
	store := newFakeTeamStore()
	store.names["u1"] = "Alice"
	store.assigned["u1"] = "other-team"
	svc := NewService(store)

	_, err := svc.Create(context.Background(), Team{Name: "Platform"}, []string{"u1"})
	var taken *MembersTakenError
	if !errors.As(err, &taken) {
		t.Fatalf("expected MembersTakenError, got %v", err)
	}
	if len(taken.Names) != 1 || taken.Names[0] != "Alice" {
		t.Fatalf("unexpected names: %v", taken.Names)
	}
	if len(store.teams) != 0 {
		t.Fatal("team should not be created when members are taken")
	}
}

func TestUpdateReassignsMembership(t *testing.T) {
	store := newFakeTeamStore()
	store.teams["team-1"] = Team{ID: "team-1", Name: "Platform"}
	store.names["u1"] = "Alice"
	store.names["u2"] = "Bob"
	store.assigned["u1"] = "team-1"
	svc := NewService(store)

	err := svc.Update(context.Background(), Team{ID: "team-1", Name: "Platform"}, []string{"u2"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, ok := store.assigned["u1"]; ok {
		t.Fatal("u1 should have been unassigned")
	}
	if store.assigned["u2"] != "team-1" {
		t.Fatalf("u2 not assigned: %v", store.assigned)
	}
}

func TestUpdateNilMembersLeavesAssignmentsAlone(t *testing.T) {
	store := newFakeTeamStore()
	store.teams["team-1"] = Team{ID: "team-1", Name: "Platform"}
	store.assigned["u1"] = "team-1"
	svc := NewService(store)

	if err := svc.Update(context.Background(), Team{ID: "team-1", Name: "Renamed"}, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if store.assigned["u1"] != "team-1" {
		t.Fatal("membership should be untouched when no member list is given")
	}
	if store.assignCalls != 0 {
		t.Fatalf("unexpected assign calls: %d", store.assignCalls)
	}
}
