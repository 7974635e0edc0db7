package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/emberfall/crucible/api/internal/model"
)

// CharacterStore is the profile store contract consumed at provisioning
// time.
type CharacterStore interface {
	GetCharacter(ctx context.Context, characterID string) (*model.CharacterSnapshot, error)
	SetActiveInstance(ctx context.Context, characterID, instanceID string) error
}

// ContentCatalog is the content definition lookup contract.
type ContentCatalog interface {
	FindContent(ctx context.Context, contentType, difficulty string, groupSize int) (*model.ContentDefinition, error)
	GetDefaultContent(ctx context.Context, contentType string) (*model.ContentDefinition, error)
}

// InstanceStore persists provisioned instances.
type InstanceStore interface {
	CreateInstance(ctx context.Context, instance *model.Instance, record *model.MatchRecord) error
}

// InstanceProvisioner turns matched groups into persisted instances.
//
// Failures here are group-scoped: a group that cannot be provisioned is
// logged and dropped, its members already removed from the queue. Nothing
// is rolled back or re-queued.
type InstanceProvisioner struct {
	characters       CharacterStore
	catalog          ContentCatalog
	instances        InstanceStore
	notifier         Notifier
	characterTimeout time.Duration
}

// InstanceProvisionerConfig holds configuration for the provisioner
type InstanceProvisionerConfig struct {
	Characters       CharacterStore
	Catalog          ContentCatalog
	Instances        InstanceStore
	Notifier         Notifier
	CharacterTimeout time.Duration // Optional, defaults to 5s per fetch
}

// NewInstanceProvisioner creates a new instance provisioner
func NewInstanceProvisioner(cfg InstanceProvisionerConfig) *InstanceProvisioner {
	timeout := cfg.CharacterTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &InstanceProvisioner{
		characters:       cfg.Characters,
		catalog:          cfg.Catalog,
		instances:        cfg.Instances,
		notifier:         cfg.Notifier,
		characterTimeout: timeout,
	}
}

// Provision creates an instance for a claimed group: resolve content, take
// character snapshots, persist the instance, lock real characters to it,
// and notify everyone involved.
func (p *InstanceProvisioner) Provision(ctx context.Context, group *model.Group) error {
	contentType := group.Tank.ContentType

	content, err := p.resolveContent(ctx, group)
	if err != nil {
		return err
	}

	entries := group.Entries()
	snapshots := make([]model.ParticipantSnapshot, 0, len(entries))
	participantIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		snapshot, err := p.snapshotParticipant(ctx, entry)
		if err != nil {
			return err
		}
		snapshots = append(snapshots, snapshot)
		participantIDs = append(participantIDs, entry.ParticipantID)
	}

	stages := make([]model.InstanceStage, len(content.Stages))
	for i, s := range content.Stages {
		stages[i] = model.InstanceStage{Index: i, Name: s.Name, BossName: s.BossName}
	}

	instance := &model.Instance{
		ContentID:      content.ID,
		ContentType:    contentType,
		Difficulty:     content.Difficulty,
		Status:         model.InstanceStatusActive,
		Participants:   snapshots,
		ParticipantIDs: participantIDs,
		CurrentStage:   0,
		MaxStages:      len(stages),
		Stages:         stages,
		EventLog: []model.InstanceEvent{{
			At:      time.Now().UTC(),
			Kind:    "created",
			Message: "instance provisioned for matched group",
		}},
	}
	record := &model.MatchRecord{
		ContentType:    contentType,
		ParticipantIDs: participantIDs,
		PartyID:        group.PartyID,
	}

	if err := p.instances.CreateInstance(ctx, instance, record); err != nil {
		return fmt.Errorf("failed to persist instance: %w", err)
	}

	// Only real character records get the active instance pointer.
	for _, snapshot := range snapshots {
		if snapshot.Placeholder {
			continue
		}
		if err := p.characters.SetActiveInstance(ctx, snapshot.CharacterID, instance.ID); err != nil {
			slog.Warn("failed to set active instance pointer",
				slog.String("character_id", snapshot.CharacterID),
				slog.String("instance_id", instance.ID),
				slog.String("error", err.Error()))
		}
	}

	p.notifier.Notify("instance:"+instance.ID, EventInstanceCreated, instance)
	for _, snapshot := range snapshots {
		if snapshot.Placeholder {
			continue
		}
		p.notifier.SendToParticipant(snapshot.ParticipantID, Event{
			Type: EventInstanceCreated,
			Data: map[string]string{
				"instance_id":  instance.ID,
				"content_id":   instance.ContentID,
				"content_type": instance.ContentType,
			},
		})
	}

	return nil
}

// resolveContent picks the content definition for a group using the first
// stated difficulty preference in slot order (tank, healer, first dps),
// falling back to the content type's default definition.
func (p *InstanceProvisioner) resolveContent(ctx context.Context, group *model.Group) (*model.ContentDefinition, error) {
	contentType := group.Tank.ContentType

	difficulty := model.DifficultyNormal
	for _, e := range []model.QueueEntry{group.Tank, group.Healer, group.Dps[0]} {
		if e.DifficultyHint != "" {
			difficulty = e.DifficultyHint
			break
		}
	}

	content, err := p.catalog.FindContent(ctx, contentType, difficulty, model.GroupSize)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content: %w", err)
	}
	if content == nil {
		content, err = p.catalog.GetDefaultContent(ctx, contentType)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve default content: %w", err)
		}
	}
	if content == nil {
		return nil, ErrNoUsableContent
	}
	return content, nil
}

// snapshotParticipant fetches one character record under a per-call
// timeout. A missing record gets a flagged placeholder so the rest of the
// group still gets an instance; a store failure is group-fatal.
func (p *InstanceProvisioner) snapshotParticipant(ctx context.Context, entry model.QueueEntry) (model.ParticipantSnapshot, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.characterTimeout)
	defer cancel()

	character, err := p.characters.GetCharacter(fetchCtx, entry.CharacterID)
	if err != nil {
		return model.ParticipantSnapshot{}, fmt.Errorf("failed to fetch character %s: %w", entry.CharacterID, err)
	}
	if character == nil {
		slog.Warn("character record missing, using placeholder",
			slog.String("character_id", entry.CharacterID),
			slog.String("participant_id", entry.ParticipantID))
		return model.ParticipantSnapshot{
			ParticipantID: entry.ParticipantID,
			CharacterID:   entry.CharacterID,
			Name:          "Unknown Adventurer",
			Role:          entry.NormalizedRole,
			PowerScore:    entry.PowerScore,
			Placeholder:   true,
		}, nil
	}

	return model.ParticipantSnapshot{
		ParticipantID: entry.ParticipantID,
		CharacterID:   entry.CharacterID,
		Name:          character.Name,
		Class:         character.Class,
		Level:         character.Level,
		Role:          entry.NormalizedRole,
		PowerScore:    character.PowerScore,
	}, nil
}
