package service

import (
	"context"
	"errors"
	"testing"

	"github.com/emberfall/crucible/api/internal/model"
)

// ============================================================================
// Helper Functions
// ============================================================================

func newTestPartyService(parties PartyStore, store QueueStore) *PartyService {
	if parties == nil {
		parties = &mockPartyStore{}
	}
	if store == nil {
		store = &mockQueueStore{}
	}
	return NewPartyService(PartyServiceConfig{
		Parties:  parties,
		Store:    store,
		Notifier: &mockNotifier{},
	})
}

// ============================================================================
// Create Tests
// ============================================================================

func TestCreateParty_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	parties := &mockPartyStore{
		createPartyFunc: func(ctx context.Context, party *model.Party) error {
			party.ID = "party:new"
			return nil
		},
	}

	svc := newTestPartyService(parties, nil)
	party, err := svc.Create(ctx, model.CreatePartyRequest{
		LeaderID:          "p1",
		LeaderCharacterID: "character:p1",
		LeaderRawRole:     "tank",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if party.Status != model.PartyStatusForming {
		t.Errorf("expected forming status, got %q", party.Status)
	}
	if len(party.Members) != 1 {
		t.Fatalf("expected leader as sole member, got %d members", len(party.Members))
	}
	if party.Members[0].ParticipantID != "p1" {
		t.Errorf("expected leader on the roster, got %s", party.Members[0].ParticipantID)
	}
}

func TestCreateParty_MissingLeader(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestPartyService(nil, nil)
	_, err := svc.Create(ctx, model.CreatePartyRequest{LeaderCharacterID: "character:p1"})
	if !errors.Is(err, ErrMissingParticipant) {
		t.Errorf("expected ErrMissingParticipant, got %v", err)
	}
}

// ============================================================================
// AddMember Tests
// ============================================================================

func TestAddMember_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var updated []model.PartyMember
	parties := &mockPartyStore{
		getPartyFunc: func(ctx context.Context, partyID string) (*model.Party, error) {
			return formingParty(), nil
		},
		updateMembersFunc: func(ctx context.Context, partyID string, members []model.PartyMember) error {
			updated = members
			return nil
		},
	}

	svc := newTestPartyService(parties, nil)
	party, err := svc.AddMember(ctx, "party:a", model.AddPartyMemberRequest{
		ParticipantID: "p3",
		CharacterID:   "character:p3",
		RawRole:       "rogue",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(party.Members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(party.Members))
	}
	if len(updated) != 3 {
		t.Errorf("expected roster persisted with 3 members, got %d", len(updated))
	}
}

func TestAddMember_NotForming(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	parties := &mockPartyStore{
		getPartyFunc: func(ctx context.Context, partyID string) (*model.Party, error) {
			p := formingParty()
			p.Status = model.PartyStatusQueued
			return p, nil
		},
	}

	svc := newTestPartyService(parties, nil)
	_, err := svc.AddMember(ctx, "party:a", model.AddPartyMemberRequest{
		ParticipantID: "p3",
		CharacterID:   "character:p3",
	})
	if !errors.Is(err, ErrPartyNotForming) {
		t.Errorf("expected ErrPartyNotForming, got %v", err)
	}
}

func TestAddMember_Duplicate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	parties := &mockPartyStore{
		getPartyFunc: func(ctx context.Context, partyID string) (*model.Party, error) {
			return formingParty(), nil
		},
	}

	svc := newTestPartyService(parties, nil)
	_, err := svc.AddMember(ctx, "party:a", model.AddPartyMemberRequest{
		ParticipantID: "p2",
		CharacterID:   "character:alt",
	})
	if !errors.Is(err, ErrAlreadyPartyMember) {
		t.Errorf("expected ErrAlreadyPartyMember, got %v", err)
	}
}

func TestAddMember_PartyFull(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	parties := &mockPartyStore{
		getPartyFunc: func(ctx context.Context, partyID string) (*model.Party, error) {
			p := formingParty()
			for len(p.Members) < model.MaxPartyMembers {
				id := "filler" + string(rune('0'+len(p.Members)))
				p.Members = append(p.Members, model.PartyMember{ParticipantID: id, CharacterID: "character:" + id})
			}
			return p, nil
		},
	}

	svc := newTestPartyService(parties, nil)
	_, err := svc.AddMember(ctx, "party:a", model.AddPartyMemberRequest{
		ParticipantID: "p9",
		CharacterID:   "character:p9",
	})
	if !errors.Is(err, ErrPartyFull) {
		t.Errorf("expected ErrPartyFull, got %v", err)
	}
}

// ============================================================================
// RemoveMember Tests
// ============================================================================

func TestRemoveMember_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	parties := &mockPartyStore{
		getPartyFunc: func(ctx context.Context, partyID string) (*model.Party, error) {
			return formingParty(), nil
		},
	}

	svc := newTestPartyService(parties, nil)
	party, err := svc.RemoveMember(ctx, "party:a", "p2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if party.HasMember("p2") {
		t.Error("expected p2 removed from the roster")
	}
	if len(party.Members) != 1 {
		t.Errorf("expected 1 member left, got %d", len(party.Members))
	}
}

func TestRemoveMember_LeaderBlocked(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	parties := &mockPartyStore{
		getPartyFunc: func(ctx context.Context, partyID string) (*model.Party, error) {
			return formingParty(), nil
		},
	}

	svc := newTestPartyService(parties, nil)
	_, err := svc.RemoveMember(ctx, "party:a", "p1")
	if !errors.Is(err, ErrLeaderCannotLeave) {
		t.Errorf("expected ErrLeaderCannotLeave, got %v", err)
	}
}

func TestRemoveMember_NotAMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	parties := &mockPartyStore{
		getPartyFunc: func(ctx context.Context, partyID string) (*model.Party, error) {
			return formingParty(), nil
		},
	}

	svc := newTestPartyService(parties, nil)
	_, err := svc.RemoveMember(ctx, "party:a", "stranger")
	if !errors.Is(err, ErrNotPartyMember) {
		t.Errorf("expected ErrNotPartyMember, got %v", err)
	}
}

// ============================================================================
// Cancel Tests
// ============================================================================

func TestCancel_Success(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var removedIDs []string
	store := &mockQueueStore{
		listByPartyFunc: func(ctx context.Context, partyID string) ([]model.QueueEntry, error) {
			return []model.QueueEntry{
				partyEntry("1", "p1", model.RoleTank, partyID),
				partyEntry("2", "p2", model.RoleHealer, partyID),
			}, nil
		},
		removeByIDFunc: func(ctx context.Context, id string) (bool, error) {
			removedIDs = append(removedIDs, id)
			return true, nil
		},
	}
	var status string
	parties := &mockPartyStore{
		getPartyFunc: func(ctx context.Context, partyID string) (*model.Party, error) {
			p := formingParty()
			p.Status = model.PartyStatusQueued
			return p, nil
		},
		updateStatusFunc: func(ctx context.Context, partyID, s string) error {
			status = s
			return nil
		},
	}

	svc := newTestPartyService(parties, store)
	party, err := svc.Cancel(ctx, "party:a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(removedIDs) != 2 {
		t.Errorf("expected both queue entries removed, got %d", len(removedIDs))
	}
	if status != model.PartyStatusForming {
		t.Errorf("expected transition persisted to forming, got %q", status)
	}
	if party.Status != model.PartyStatusForming {
		t.Errorf("expected returned party forming, got %q", party.Status)
	}
}

func TestCancel_NotQueued(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	parties := &mockPartyStore{
		getPartyFunc: func(ctx context.Context, partyID string) (*model.Party, error) {
			return formingParty(), nil
		},
	}

	svc := newTestPartyService(parties, nil)
	_, err := svc.Cancel(ctx, "party:a")
	if !errors.Is(err, ErrPartyNotQueued) {
		t.Errorf("expected ErrPartyNotQueued, got %v", err)
	}
}

func TestCancel_InInstance(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	parties := &mockPartyStore{
		getPartyFunc: func(ctx context.Context, partyID string) (*model.Party, error) {
			p := formingParty()
			p.Status = model.PartyStatusInInstance
			return p, nil
		},
	}

	svc := newTestPartyService(parties, nil)
	_, err := svc.Cancel(ctx, "party:a")
	if !errors.Is(err, ErrPartyNotQueued) {
		t.Errorf("expected ErrPartyNotQueued, got %v", err)
	}
}
