package service

import (
	"context"

	"github.com/emberfall/crucible/api/internal/model"
)

// InstanceReader is the read side of instance storage
type InstanceReader interface {
	GetInstance(ctx context.Context, instanceID string) (*model.Instance, error)
	ListRecentMatches(ctx context.Context, contentType string, limit int) ([]*model.MatchRecord, error)
}

// InstanceService exposes provisioned instances and match history
type InstanceService struct {
	instances InstanceReader
}

// NewInstanceService creates a new instance service
func NewInstanceService(instances InstanceReader) *InstanceService {
	return &InstanceService{instances: instances}
}

// GetInstance retrieves a provisioned instance by ID
func (s *InstanceService) GetInstance(ctx context.Context, instanceID string) (*model.Instance, error) {
	instance, err := s.instances.GetInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, ErrInstanceNotFound
	}
	return instance, nil
}

// RecentMatches returns the latest match records for a content type
func (s *InstanceService) RecentMatches(ctx context.Context, contentType string, limit int) ([]*model.MatchRecord, error) {
	if !validContentType(contentType) {
		return nil, ErrInvalidContentType
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.instances.ListRecentMatches(ctx, contentType, limit)
}
