package service

import (
	"context"
	"strings"

	"github.com/emberfall/crucible/api/internal/model"
)

// PartyService handles party lifecycle: form, change the roster while
// forming, and cancel out of the queue. Queueing a party is QueueService's
// job; transitioning to in_instance is the matchmaker's.
type PartyService struct {
	parties  PartyStore
	store    QueueStore
	notifier Notifier
}

// PartyServiceConfig holds configuration for the party service
type PartyServiceConfig struct {
	Parties  PartyStore
	Store    QueueStore
	Notifier Notifier
}

// NewPartyService creates a new party service
func NewPartyService(cfg PartyServiceConfig) *PartyService {
	return &PartyService{
		parties:  cfg.Parties,
		store:    cfg.Store,
		notifier: cfg.Notifier,
	}
}

// Create forms a new party with the leader as its sole roster member
func (s *PartyService) Create(ctx context.Context, req model.CreatePartyRequest) (*model.Party, error) {
	if strings.TrimSpace(req.LeaderID) == "" {
		return nil, ErrMissingParticipant
	}
	if strings.TrimSpace(req.LeaderCharacterID) == "" {
		return nil, ErrMissingCharacter
	}

	party := &model.Party{
		LeaderID: req.LeaderID,
		Status:   model.PartyStatusForming,
		Members: []model.PartyMember{{
			ParticipantID: req.LeaderID,
			CharacterID:   req.LeaderCharacterID,
			RawRole:       req.LeaderRawRole,
			PowerScore:    req.LeaderPowerScore,
		}},
	}
	if err := s.parties.CreateParty(ctx, party); err != nil {
		return nil, err
	}
	return party, nil
}

// GetParty retrieves a party by ID
func (s *PartyService) GetParty(ctx context.Context, partyID string) (*model.Party, error) {
	party, err := s.parties.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, ErrPartyNotFound
	}
	return party, nil
}

// AddMember adds a participant to a forming party's roster
func (s *PartyService) AddMember(ctx context.Context, partyID string, req model.AddPartyMemberRequest) (*model.Party, error) {
	if strings.TrimSpace(req.ParticipantID) == "" {
		return nil, ErrMissingParticipant
	}
	if strings.TrimSpace(req.CharacterID) == "" {
		return nil, ErrMissingCharacter
	}

	party, err := s.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if party.Status != model.PartyStatusForming {
		return nil, ErrPartyNotForming
	}
	if party.HasMember(req.ParticipantID) {
		return nil, ErrAlreadyPartyMember
	}
	if len(party.Members) >= model.MaxPartyMembers {
		return nil, ErrPartyFull
	}

	party.Members = append(party.Members, model.PartyMember{
		ParticipantID: req.ParticipantID,
		CharacterID:   req.CharacterID,
		RawRole:       req.RawRole,
		PowerScore:    req.PowerScore,
	})
	if err := s.parties.UpdateMembers(ctx, party.ID, party.Members); err != nil {
		return nil, err
	}
	return party, nil
}

// RemoveMember removes a participant from a forming party's roster. The
// leader cannot be removed.
func (s *PartyService) RemoveMember(ctx context.Context, partyID, participantID string) (*model.Party, error) {
	party, err := s.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if party.Status != model.PartyStatusForming {
		return nil, ErrPartyNotForming
	}
	if participantID == party.LeaderID {
		return nil, ErrLeaderCannotLeave
	}
	if !party.HasMember(participantID) {
		return nil, ErrNotPartyMember
	}

	members := make([]model.PartyMember, 0, len(party.Members)-1)
	for _, m := range party.Members {
		if m.ParticipantID != participantID {
			members = append(members, m)
		}
	}
	party.Members = members
	if err := s.parties.UpdateMembers(ctx, party.ID, members); err != nil {
		return nil, err
	}
	return party, nil
}

// Cancel pulls a queued party back out of the queue: its entries are
// removed and the party returns to forming. A party already matched into an
// instance cannot cancel.
func (s *PartyService) Cancel(ctx context.Context, partyID string) (*model.Party, error) {
	party, err := s.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if party.Status != model.PartyStatusQueued {
		return nil, ErrPartyNotQueued
	}
	if !party.CanTransition(model.PartyStatusForming) {
		return nil, ErrIllegalPartyStatus
	}

	entries, err := s.store.ListByParty(ctx, party.ID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		removed, err := s.store.RemoveByID(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		if removed {
			s.notifier.Notify(queueChannel(entry.ContentType), EventParticipantLeft, map[string]interface{}{
				"participant_id": entry.ParticipantID,
				"party_id":       party.ID,
				"content_type":   entry.ContentType,
			})
		}
	}

	if err := s.parties.UpdateStatus(ctx, party.ID, model.PartyStatusForming); err != nil {
		return nil, err
	}
	party.Status = model.PartyStatusForming
	return party, nil
}
