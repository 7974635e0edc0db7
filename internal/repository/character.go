package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberfall/crucible/api/internal/database"
	"github.com/emberfall/crucible/api/internal/model"
)

// CharacterRepository reads character profiles and records which instance a
// character is currently locked to. The profile subsystem owns everything
// else about the character table.
type CharacterRepository struct {
	db database.Database
}

// NewCharacterRepository creates a new character repository
func NewCharacterRepository(db database.Database) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// GetCharacter retrieves a character snapshot by ID. Returns nil when the
// record does not exist.
func (r *CharacterRepository) GetCharacter(ctx context.Context, characterID string) (*model.CharacterSnapshot, error) {
	query := `SELECT * FROM type::record($id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": characterID})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	return parseCharacterResult(result)
}

// SetActiveInstance points a character at the instance it was provisioned
// into.
func (r *CharacterRepository) SetActiveInstance(ctx context.Context, characterID, instanceID string) error {
	query := `UPDATE type::record($id) SET active_instance_id = $instance_id`
	if err := r.db.Execute(ctx, query, map[string]interface{}{
		"id":          characterID,
		"instance_id": instanceID,
	}); err != nil {
		return fmt.Errorf("failed to set active instance: %w", err)
	}
	return nil
}

func parseCharacterResult(result interface{}) (*model.CharacterSnapshot, error) {
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
		return nil, errors.New("unexpected character format")
	}

	var snapshot model.CharacterSnapshot
	if err := unmarshalRecord(data, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
