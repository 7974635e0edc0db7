package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emberfall/crucible/api/internal/model"
)

// MemoryQueueStore is a mutex-guarded in-memory queue implementation.
// It honors the same contract as QueueRepository, including conditional
// removal, and preserves arrival order per content type. Used by tests and
// single-process deployments.
type MemoryQueueStore struct {
	mu      sync.Mutex
	entries []model.QueueEntry
}

// NewMemoryQueueStore creates an empty in-memory queue store
func NewMemoryQueueStore() *MemoryQueueStore {
	return &MemoryQueueStore{entries: make([]model.QueueEntry, 0)}
}

// Append inserts a new entry at version 1 and returns its assigned ID.
func (s *MemoryQueueStore) Append(ctx context.Context, entry *model.QueueEntry) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = "queue_entry:" + uuid.NewString()
	}
	entry.Version = 1
	s.entries = append(s.entries, *entry)
	return entry.ID, nil
}

// ListAll returns a snapshot of pending entries for a content type in
// arrival order.
func (s *MemoryQueueStore) ListAll(ctx context.Context, contentType string) ([]model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.QueueEntry, 0)
	for _, e := range s.entries {
		if e.ContentType == contentType {
			out = append(out, e)
		}
	}
	return out, nil
}

// RemoveByID deletes an entry regardless of version. False means it was
// already absent.
func (s *MemoryQueueStore) RemoveByID(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// RemoveMany performs a version-conditional delete per ref.
func (s *MemoryQueueStore) RemoveMany(ctx context.Context, refs []model.EntryRef) ([]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make([]bool, len(refs))
	for i, ref := range refs {
		for j, e := range s.entries {
			if e.ID == ref.ID && e.Version == ref.Version {
				s.entries = append(s.entries[:j], s.entries[j+1:]...)
				removed[i] = true
				break
			}
		}
	}
	return removed, nil
}

// ListByParty returns the pending entries of a party block in arrival order.
func (s *MemoryQueueStore) ListByParty(ctx context.Context, partyID string) ([]model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.QueueEntry, 0)
	for _, e := range s.entries {
		if e.PartyID != nil && *e.PartyID == partyID {
			out = append(out, e)
		}
	}
	return out, nil
}

// FindByParticipant returns the participant's pending entry for a content
// type, or nil when they are not queued.
func (s *MemoryQueueStore) FindByParticipant(ctx context.Context, participantID, contentType string) (*model.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ParticipantID == participantID && e.ContentType == contentType {
			entry := e
			return &entry, nil
		}
	}
	return nil, nil
}

// PurgeExpired removes every entry past its lifetime and returns the count.
func (s *MemoryQueueStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	purged := 0
	for _, e := range s.entries {
		if e.Expired(now) {
			purged++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return purged, nil
}

// ListContentTypes returns the distinct content types with pending entries.
func (s *MemoryQueueStore) ListContentTypes(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	types := make([]string, 0)
	for _, e := range s.entries {
		if !seen[e.ContentType] {
			seen[e.ContentType] = true
			types = append(types, e.ContentType)
		}
	}
	return types, nil
}

// Len reports the number of pending entries across all content types.
func (s *MemoryQueueStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
