package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emberfall/crucible/api/internal/database"
	"github.com/emberfall/crucible/api/internal/model"
)

// QueueRepository handles queue entry data access against SurrealDB.
//
// Entries are append-only. Matching passes consume entries through
// conditional removal: a delete only takes effect while the stored version
// still matches the version the caller read, and the caller learns whether
// the claim succeeded.
type QueueRepository struct {
	db database.Database
}

// NewQueueRepository creates a new queue repository
func NewQueueRepository(db database.Database) *QueueRepository {
	return &QueueRepository{db: db}
}

// Append inserts a new queue entry and returns its assigned ID. The stored
// record always starts at version 1.
func (r *QueueRepository) Append(ctx context.Context, entry *model.QueueEntry) (string, error) {
	query := `
		CREATE queue_entry CONTENT {
			participant_id: $participant_id,
			character_id: $character_id,
			raw_role: $raw_role,
			normalized_role: $normalized_role,
			power_score: $power_score,
			content_type: $content_type,
			difficulty_hint: $difficulty_hint,
			party_id: $party_id,
			version: 1,
			queued_at: $queued_at,
			expires_at: $expires_at
		}
	`
	result, err := r.db.Query(ctx, query, map[string]interface{}{
		"participant_id":  entry.ParticipantID,
		"character_id":    entry.CharacterID,
		"raw_role":        entry.RawRole,
		"normalized_role": entry.NormalizedRole,
		"power_score":     entry.PowerScore,
		"content_type":    entry.ContentType,
		"difficulty_hint": entry.DifficultyHint,
		"party_id":        entry.PartyID,
		"queued_at":       entry.QueuedAt,
		"expires_at":      entry.ExpiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to append queue entry: %w", err)
	}

	records, ok := extractQueryResults(result)
	if !ok || len(records) == 0 {
		return "", errors.New("no record returned for created queue entry")
	}
	data, ok := records[0].(map[string]interface{})
	if !ok {
		return "", errors.New("unexpected result format for created queue entry")
	}

	entry.ID = convertRecordID(data["id"])
	entry.Version = 1
	return entry.ID, nil
}

// ListAll returns a snapshot of every pending entry for a content type in
// queued order.
func (r *QueueRepository) ListAll(ctx context.Context, contentType string) ([]model.QueueEntry, error) {
	query := `
		SELECT * FROM queue_entry
		WHERE content_type = $content_type
		ORDER BY queued_at ASC
	`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"content_type": contentType})
	if err != nil {
		return nil, fmt.Errorf("failed to list queue entries: %w", err)
	}

	return parseQueueEntries(result)
}

// RemoveByID deletes an entry unconditionally. It reports false when the
// entry was already absent, which callers treat as a benign no-op.
func (r *QueueRepository) RemoveByID(ctx context.Context, id string) (bool, error) {
	query := `DELETE queue_entry WHERE id = type::record($id) RETURN BEFORE`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return false, fmt.Errorf("failed to remove queue entry: %w", err)
	}

	records, _ := extractQueryResults(result)
	return len(records) > 0, nil
}

// RemoveMany attempts a version-conditional delete for each ref and reports
// per-ref success. A false result means the entry was gone or its version no
// longer matched, i.e. some other pass claimed it first.
func (r *QueueRepository) RemoveMany(ctx context.Context, refs []model.EntryRef) ([]bool, error) {
	removed := make([]bool, len(refs))
	for i, ref := range refs {
		query := `
			DELETE queue_entry
			WHERE id = type::record($id) AND version = $version
			RETURN BEFORE
		`
		result, err := r.db.Query(ctx, query, map[string]interface{}{
			"id":      ref.ID,
			"version": ref.Version,
		})
		if err != nil {
			return removed, fmt.Errorf("failed to remove queue entry %s: %w", ref.ID, err)
		}
		records, _ := extractQueryResults(result)
		removed[i] = len(records) > 0
	}
	return removed, nil
}

// ListByParty returns the pending entries belonging to a party block.
func (r *QueueRepository) ListByParty(ctx context.Context, partyID string) ([]model.QueueEntry, error) {
	query := `
		SELECT * FROM queue_entry
		WHERE party_id = $party_id
		ORDER BY queued_at ASC
	`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"party_id": partyID})
	if err != nil {
		return nil, fmt.Errorf("failed to list party entries: %w", err)
	}

	return parseQueueEntries(result)
}

// FindByParticipant returns the participant's pending entry for a content
// type, or nil when they are not queued.
func (r *QueueRepository) FindByParticipant(ctx context.Context, participantID, contentType string) (*model.QueueEntry, error) {
	query := `
		SELECT * FROM queue_entry
		WHERE participant_id = $participant_id AND content_type = $content_type
		LIMIT 1
	`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{
		"participant_id": participantID,
		"content_type":   contentType,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find queue entry: %w", err)
	}

	return parseQueueEntry(result)
}

// PurgeExpired deletes every entry whose lifetime elapsed before now and
// returns how many were removed.
func (r *QueueRepository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	query := `DELETE queue_entry WHERE expires_at <= $now RETURN BEFORE`
	result, err := r.db.Query(ctx, query, map[string]interface{}{"now": now})
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired entries: %w", err)
	}

	records, _ := extractQueryResults(result)
	return len(records), nil
}

// ListContentTypes returns the distinct content types with pending entries.
func (r *QueueRepository) ListContentTypes(ctx context.Context) ([]string, error) {
	query := `SELECT content_type FROM queue_entry GROUP BY content_type`
	result, err := r.db.Query(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list content types: %w", err)
	}

	records, _ := extractQueryResults(result)
	types := make([]string, 0, len(records))
	for _, rec := range records {
		if data, ok := rec.(map[string]interface{}); ok {
			if ct, ok := data["content_type"].(string); ok && ct != "" {
				types = append(types, ct)
			}
		}
	}
	return types, nil
}

func parseQueueEntry(result interface{}) (*model.QueueEntry, error) {
	if result == nil {
		return nil, nil
	}

	// Navigate through SurrealDB response structure
	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, nil
				}
				result = resultData[0]
			}
		}
	}

	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, nil
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected queue entry format")
	}

	entry := &model.QueueEntry{
		ID:             convertRecordID(data["id"]),
		ParticipantID:  getStringField(data, "participant_id"),
		CharacterID:    getStringField(data, "character_id"),
		RawRole:        getStringField(data, "raw_role"),
		NormalizedRole: model.Role(getStringField(data, "normalized_role")),
		PowerScore:     extractCountValue(data["power_score"]),
		ContentType:    getStringField(data, "content_type"),
		DifficultyHint: getStringField(data, "difficulty_hint"),
		Version:        int64(extractCountValue(data["version"])),
		QueuedAt:       parseTime(data["queued_at"]),
		ExpiresAt:      parseTime(data["expires_at"]),
	}
	if partyID, ok := data["party_id"].(string); ok && partyID != "" {
		entry.PartyID = &partyID
	}
	return entry, nil
}

func parseQueueEntries(result []interface{}) ([]model.QueueEntry, error) {
	entries := make([]model.QueueEntry, 0)
	records, ok := extractQueryResults(result)
	if !ok {
		return entries, nil
	}
	for _, rec := range records {
		entry, err := parseQueueEntry(rec)
		if err == nil && entry != nil {
			entries = append(entries, *entry)
		}
	}
	return entries, nil
}

func getStringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
