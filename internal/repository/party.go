package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emberfall/crucible/api/internal/database"
	"github.com/emberfall/crucible/api/internal/model"
)

// PartyRepository handles party data access
type PartyRepository struct {
	db database.Database
}

// NewPartyRepository creates a new party repository
func NewPartyRepository(db database.Database) *PartyRepository {
	return &PartyRepository{db: db}
}

// CreateParty creates a new party record
func (r *PartyRepository) CreateParty(ctx context.Context, party *model.Party) error {
	query := `
		CREATE party CONTENT {
			leader_id: $leader_id,
			status: $status,
			members: $members,
			created_on: time::now(),
			updated_on: time::now()
		}
	`
	result, err := r.db.Query(ctx, query, map[string]interface{}{
		"leader_id": party.LeaderID,
		"status":    party.Status,
		"members":   party.Members,
	})
	if err != nil {
		return fmt.Errorf("failed to create party: %w", err)
	}

	records, ok := extractQueryResults(result)
	if !ok || len(records) == 0 {
		return errors.New("no record returned for created party")
	}
	data, ok := records[0].(map[string]interface{})
	if !ok {
		return errors.New("unexpected result format for created party")
	}

	party.ID = convertRecordID(data["id"])
	party.CreatedOn = parseTime(data["created_on"])
	party.UpdatedOn = parseTime(data["updated_on"])
	return nil
}

// GetParty retrieves a party by ID
func (r *PartyRepository) GetParty(ctx context.Context, partyID string) (*model.Party, error) {
	query := `SELECT * FROM type::record($id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": partyID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get party: %w", err)
	}

	return parsePartyResult(result)
}

// UpdateStatus moves a party to a new status
func (r *PartyRepository) UpdateStatus(ctx context.Context, partyID, status string) error {
	query := `UPDATE type::record($id) SET status = $status, updated_on = time::now()`
	if err := r.db.Execute(ctx, query, map[string]interface{}{
		"id":     partyID,
		"status": status,
	}); err != nil {
		return fmt.Errorf("failed to update party status: %w", err)
	}
	return nil
}

// UpdateMembers replaces a party's roster
func (r *PartyRepository) UpdateMembers(ctx context.Context, partyID string, members []model.PartyMember) error {
	query := `UPDATE type::record($id) SET members = $members, updated_on = time::now()`
	if err := r.db.Execute(ctx, query, map[string]interface{}{
		"id":      partyID,
		"members": members,
	}); err != nil {
		return fmt.Errorf("failed to update party members: %w", err)
	}
	return nil
}

func parsePartyResult(result interface{}) (*model.Party, error) {
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
		return nil, errors.New("unexpected party format")
	}

	party := &model.Party{
		ID:       convertRecordID(data["id"]),
		LeaderID: getStringField(data, "leader_id"),
		Status:   getStringField(data, "status"),
		Members:  parsePartyMembers(data["members"]),
	}
	if t := parseTime(data["created_on"]); !t.IsZero() {
		party.CreatedOn = t
	} else {
		party.CreatedOn = time.Now()
	}
	if t := parseTime(data["updated_on"]); !t.IsZero() {
		party.UpdatedOn = t
	}
	return party, nil
}

func parsePartyMembers(v interface{}) []model.PartyMember {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	members := make([]model.PartyMember, 0, len(items))
	for _, item := range items {
		data, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		members = append(members, model.PartyMember{
			ParticipantID: getStringField(data, "participant_id"),
			CharacterID:   getStringField(data, "character_id"),
			RawRole:       getStringField(data, "raw_role"),
			PowerScore:    extractCountValue(data["power_score"]),
		})
	}
	return members
}
