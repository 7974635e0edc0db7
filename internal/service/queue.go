package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/emberfall/crucible/api/internal/model"
)

// QueueService handles the join/leave surface of the matchmaking queue
type QueueService struct {
	store    QueueStore
	parties  PartyStore
	matcher  *Matchmaker
	notifier Notifier
	entryTTL time.Duration
}

// QueueServiceConfig holds configuration for the queue service
type QueueServiceConfig struct {
	Store    QueueStore
	Parties  PartyStore
	Matcher  *Matchmaker
	Notifier Notifier
	EntryTTL time.Duration // Optional, defaults to model.DefaultEntryTTL
}

// NewQueueService creates a new queue service
func NewQueueService(cfg QueueServiceConfig) *QueueService {
	ttl := cfg.EntryTTL
	if ttl == 0 {
		ttl = model.DefaultEntryTTL
	}
	return &QueueService{
		store:    cfg.Store,
		parties:  cfg.Parties,
		matcher:  cfg.Matcher,
		notifier: cfg.Notifier,
		entryTTL: ttl,
	}
}

// Join queues an individual participant. Joining twice for the same content
// type is an idempotent no-op: the existing live entry is returned and no
// second entry is created.
func (s *QueueService) Join(ctx context.Context, req model.JoinRequest) (*model.JoinResult, error) {
	if err := validateJoinRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.store.FindByParticipant(ctx, req.ParticipantID, req.ContentType)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if existing != nil {
		if !existing.Expired(now) {
			return &model.JoinResult{Entry: existing, AlreadyQueued: true}, nil
		}
		// A stale entry does not block a fresh join.
		if _, err := s.store.RemoveByID(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	entry := &model.QueueEntry{
		ParticipantID:  req.ParticipantID,
		CharacterID:    req.CharacterID,
		RawRole:        req.RawRole,
		NormalizedRole: model.NormalizeRole(req.RawRole),
		PowerScore:     req.PowerScore,
		ContentType:    req.ContentType,
		DifficultyHint: req.DifficultyHint,
		QueuedAt:       now,
		ExpiresAt:      now.Add(s.entryTTL),
	}
	if _, err := s.store.Append(ctx, entry); err != nil {
		return nil, err
	}

	s.notifier.Notify(queueChannel(req.ContentType), EventParticipantQueued, map[string]interface{}{
		"participant_id": entry.ParticipantID,
		"role":           entry.NormalizedRole,
		"content_type":   entry.ContentType,
	})

	formed := s.runPass(ctx, req.ContentType)
	return &model.JoinResult{Entry: entry, GroupsFormed: formed}, nil
}

// Leave removes a participant's pending entry. An absent entry means the
// participant was already matched or never queued; both are benign.
func (s *QueueService) Leave(ctx context.Context, req model.LeaveRequest) (*model.LeaveResult, error) {
	if req.ParticipantID == "" {
		return nil, ErrMissingParticipant
	}
	if !validContentType(req.ContentType) {
		return nil, ErrInvalidContentType
	}

	entry, err := s.store.FindByParticipant(ctx, req.ParticipantID, req.ContentType)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return &model.LeaveResult{Removed: false}, nil
	}

	// The removal itself can still lose to an in-flight matching pass;
	// that race resolves in the pass's favor.
	removed, err := s.store.RemoveByID(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if removed {
		s.notifier.Notify(queueChannel(req.ContentType), EventParticipantLeft, map[string]interface{}{
			"participant_id": req.ParticipantID,
			"content_type":   req.ContentType,
		})
	}
	return &model.LeaveResult{Removed: removed}, nil
}

// QueueParty queues a forming party as a block: one entry per roster
// member, all sharing the party id.
func (s *QueueService) QueueParty(ctx context.Context, req model.PartyQueueRequest) (*model.JoinResult, error) {
	if !validContentType(req.ContentType) {
		return nil, ErrInvalidContentType
	}

	party, err := s.parties.GetParty(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}
	if party == nil {
		return nil, ErrPartyNotFound
	}
	if !party.CanTransition(model.PartyStatusQueued) {
		return nil, ErrPartyNotForming
	}
	if len(party.Members) == 0 {
		return nil, ErrPartyEmpty
	}
	if hasDuplicateMembers(party.Members) {
		return nil, ErrDuplicateRoster
	}

	queued, err := s.store.ListByParty(ctx, party.ID)
	if err != nil {
		return nil, err
	}
	if len(queued) > 0 {
		return nil, ErrPartyAlreadyInQueue
	}
	for _, m := range party.Members {
		existing, err := s.store.FindByParticipant(ctx, m.ParticipantID, req.ContentType)
		if err != nil {
			return nil, err
		}
		if existing != nil && !existing.Expired(time.Now().UTC()) {
			return nil, ErrPartyMemberInQueue
		}
	}

	now := time.Now().UTC()
	for _, m := range party.Members {
		partyID := party.ID
		entry := &model.QueueEntry{
			ParticipantID:  m.ParticipantID,
			CharacterID:    m.CharacterID,
			RawRole:        m.RawRole,
			NormalizedRole: model.NormalizeRole(m.RawRole),
			PowerScore:     m.PowerScore,
			ContentType:    req.ContentType,
			DifficultyHint: req.DifficultyHint,
			PartyID:        &partyID,
			QueuedAt:       now,
			ExpiresAt:      now.Add(s.entryTTL),
		}
		if _, err := s.store.Append(ctx, entry); err != nil {
			return nil, err
		}
	}

	if err := s.parties.UpdateStatus(ctx, party.ID, model.PartyStatusQueued); err != nil {
		return nil, err
	}

	s.notifier.Notify(queueChannel(req.ContentType), EventParticipantQueued, map[string]interface{}{
		"party_id":     party.ID,
		"members":      party.MemberIDs(),
		"content_type": req.ContentType,
	})

	formed := s.runPass(ctx, req.ContentType)
	return &model.JoinResult{GroupsFormed: formed}, nil
}

// runPass triggers a synchronous matchmaking pass. Once entries are
// appended the join has succeeded; a failing pass is logged and retried by
// the sweeper rather than surfaced to the caller.
func (s *QueueService) runPass(ctx context.Context, contentType string) int {
	formed, err := s.matcher.RunPass(ctx, contentType)
	if err != nil {
		slog.Error("matchmaking pass failed",
			slog.String("content_type", contentType),
			slog.String("error", err.Error()))
	}
	return formed
}

func validateJoinRequest(req model.JoinRequest) error {
	if strings.TrimSpace(req.ParticipantID) == "" {
		return ErrMissingParticipant
	}
	if strings.TrimSpace(req.CharacterID) == "" {
		return ErrMissingCharacter
	}
	if !validContentType(req.ContentType) {
		return ErrInvalidContentType
	}
	return nil
}

func validContentType(contentType string) bool {
	return contentType == model.ContentTypeDungeon || contentType == model.ContentTypeRaid
}

func hasDuplicateMembers(members []model.PartyMember) bool {
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		if seen[m.ParticipantID] {
			return true
		}
		seen[m.ParticipantID] = true
	}
	return false
}
