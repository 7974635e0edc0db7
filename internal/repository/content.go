package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberfall/crucible/api/internal/database"
	"github.com/emberfall/crucible/api/internal/model"
)

// ContentRepository reads the content catalog
type ContentRepository struct {
	db database.Database
}

// NewContentRepository creates a new content repository
func NewContentRepository(db database.Database) *ContentRepository {
	return &ContentRepository{db: db}
}

// FindContent retrieves the content definition matching a content type,
// difficulty, and group size. Returns nil when nothing matches.
func (r *ContentRepository) FindContent(ctx context.Context, contentType, difficulty string, groupSize int) (*model.ContentDefinition, error) {
	query := `
		SELECT * FROM content
		WHERE content_type = $content_type
			AND difficulty = $difficulty
			AND group_size = $group_size
		LIMIT 1
	`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{
		"content_type": contentType,
		"difficulty":   difficulty,
		"group_size":   groupSize,
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find content: %w", err)
	}

	return parseContentResult(result)
}

// GetDefaultContent retrieves the fallback content definition for a content
// type. Returns nil when no default is configured.
func (r *ContentRepository) GetDefaultContent(ctx context.Context, contentType string) (*model.ContentDefinition, error) {
	query := `
		SELECT * FROM content
		WHERE content_type = $content_type AND default = true
		LIMIT 1
	`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"content_type": contentType})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get default content: %w", err)
	}

	return parseContentResult(result)
}

func parseContentResult(result interface{}) (*model.ContentDefinition, error) {
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
		return nil, errors.New("unexpected content format")
	}

	var content model.ContentDefinition
	if err := unmarshalRecord(data, &content); err != nil {
		return nil, err
	}
	return &content, nil
}
