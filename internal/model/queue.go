package model

import "time"

// QueueEntry is one participant's pending request to be matched into a
// group. Entries are immutable once created; the only mutation is deletion,
// guarded by Version (see EntryRef).
type QueueEntry struct {
	ID             string    `json:"id"`
	ParticipantID  string    `json:"participant_id"`
	CharacterID    string    `json:"character_id"`
	RawRole        string    `json:"raw_role"`
	NormalizedRole Role      `json:"normalized_role"`
	PowerScore     int       `json:"power_score"`
	ContentType    string    `json:"content_type"`
	DifficultyHint string    `json:"difficulty_hint,omitempty"`
	PartyID        *string   `json:"party_id,omitempty"`
	Version        int64     `json:"version"`
	QueuedAt       time.Time `json:"queued_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Expired reports whether the entry's lifetime has elapsed at the given
// instant. Expired entries must never be eligible for matching.
func (e *QueueEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// InParty reports whether the entry was queued as part of a party block.
func (e *QueueEntry) InParty() bool {
	return e.PartyID != nil && *e.PartyID != ""
}

// EntryRef identifies an entry together with the version it had when read.
// Conditional removal only succeeds while the stored version still matches,
// which is what keeps two overlapping matchmaking passes from both claiming
// the same entry.
type EntryRef struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
}

// Ref returns the entry's removal reference.
func (e *QueueEntry) Ref() EntryRef {
	return EntryRef{ID: e.ID, Version: e.Version}
}

// ContentTypes recognized by the queue.
const (
	ContentTypeDungeon = "dungeon"
	ContentTypeRaid    = "raid"
)

// Default queue entry lifetime; configurable via QUEUE_ENTRY_TTL.
const DefaultEntryTTL = 30 * time.Minute

// JoinRequest is an individual join submitted by the command layer.
type JoinRequest struct {
	ParticipantID string `json:"participant_id"`
	CharacterID   string `json:"character_id"`
	RawRole       string `json:"raw_role"`
	PowerScore    int    `json:"power_score"`
	ContentType   string `json:"content_type"`
	// DifficultyHint is the participant's preferred difficulty; empty means
	// no preference.
	DifficultyHint string `json:"difficulty_hint,omitempty"`
}

// JoinResult reports whether the join created a new entry or found the
// participant already queued (an idempotent no-op).
type JoinResult struct {
	Entry         *QueueEntry `json:"entry"`
	AlreadyQueued bool        `json:"already_queued"`
	GroupsFormed  int         `json:"groups_formed"`
}

// PartyQueueRequest queues a pre-formed party as a block.
type PartyQueueRequest struct {
	PartyID        string `json:"party_id"`
	ContentType    string `json:"content_type"`
	DifficultyHint string `json:"difficulty_hint,omitempty"`
}

// LeaveRequest removes a participant's pending entry.
type LeaveRequest struct {
	ParticipantID string `json:"participant_id"`
	ContentType   string `json:"content_type"`
}

// LeaveResult reports whether an entry was actually removed. Removed=false
// means the entry was already gone: matched, expired, or never queued.
type LeaveResult struct {
	Removed bool `json:"removed"`
}
