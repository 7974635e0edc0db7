package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emberfall/crucible/api/internal/database"
	"github.com/emberfall/crucible/api/internal/model"
)

// InstanceRepository handles instance and match record data access
type InstanceRepository struct {
	db database.Database
}

// NewInstanceRepository creates a new instance repository
func NewInstanceRepository(db database.Database) *InstanceRepository {
	return &InstanceRepository{db: db}
}

// CreateInstance persists a provisioned instance together with its match
// audit record in a single transaction. The instance ID is assigned here so
// both records can reference it.
func (r *InstanceRepository) CreateInstance(ctx context.Context, instance *model.Instance, record *model.MatchRecord) error {
	instance.ID = "instance:" + uuid.NewString()
	now := time.Now().UTC()
	instance.CreatedAt = now
	instance.UpdatedAt = now

	batch := database.NewAtomicBatch()
	batch.Add(`
		CREATE type::record($id) CONTENT {
			content_id: $content_id,
			content_type: $content_type,
			difficulty: $difficulty,
			status: $status,
			participants: $participants,
			participant_ids: $participant_ids,
			current_stage: $current_stage,
			max_stages: $max_stages,
			stages: $stages,
			event_log: $event_log,
			created_at: $created_at,
			updated_at: $updated_at
		}
	`, map[string]interface{}{
		"id":              instance.ID,
		"content_id":      instance.ContentID,
		"content_type":    instance.ContentType,
		"difficulty":      instance.Difficulty,
		"status":          instance.Status,
		"participants":    instance.Participants,
		"participant_ids": instance.ParticipantIDs,
		"current_stage":   instance.CurrentStage,
		"max_stages":      instance.MaxStages,
		"stages":          instance.Stages,
		"event_log":       instance.EventLog,
		"created_at":      instance.CreatedAt,
		"updated_at":      instance.UpdatedAt,
	})
	batch.Add(`
		CREATE match_record CONTENT {
			instance_id: $instance_id,
			content_type: $content_type,
			participant_ids: $participant_ids,
			party_id: $party_id,
			created_on: time::now()
		}
	`, map[string]interface{}{
		"instance_id":     instance.ID,
		"content_type":    record.ContentType,
		"participant_ids": record.ParticipantIDs,
		"party_id":        record.PartyID,
	})

	if err := batch.Execute(ctx, r.db); err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}

	record.InstanceID = instance.ID
	record.CreatedOn = now
	return nil
}

// GetInstance retrieves an instance by ID
func (r *InstanceRepository) GetInstance(ctx context.Context, instanceID string) (*model.Instance, error) {
	query := `SELECT * FROM type::record($id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": instanceID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}

	return parseInstanceResult(result)
}

// ListRecentMatches returns the most recent match records for a content
// type, newest first.
func (r *InstanceRepository) ListRecentMatches(ctx context.Context, contentType string, limit int) ([]*model.MatchRecord, error) {
	query := `
		SELECT * FROM match_record
		WHERE content_type = $content_type
		ORDER BY created_on DESC
		LIMIT $limit
	`
	result, err := r.db.Query(ctx, query, map[string]interface{}{
		"content_type": contentType,
		"limit":        limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list match records: %w", err)
	}

	records, _ := extractQueryResults(result)
	out := make([]*model.MatchRecord, 0, len(records))
	for _, rec := range records {
		data, ok := rec.(map[string]interface{})
		if !ok {
			continue
		}
		var mr model.MatchRecord
		if err := unmarshalRecord(data, &mr); err == nil {
			out = append(out, &mr)
		}
	}
	return out, nil
}

func parseInstanceResult(result interface{}) (*model.Instance, error) {
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
		return nil, errors.New("unexpected instance format")
	}

	var instance model.Instance
	if err := unmarshalRecord(data, &instance); err != nil {
		return nil, err
	}
	return &instance, nil
}
