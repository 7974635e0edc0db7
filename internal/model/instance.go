package model

import "time"

// Instance statuses.
const (
	InstanceStatusActive    = "active"
	InstanceStatusCompleted = "completed"
	InstanceStatusAbandoned = "abandoned"
)

// ParticipantSnapshot is the denormalized view of a group member captured
// at provisioning time. Snapshots are copies, not live references: later
// profile changes do not alter a running instance.
type ParticipantSnapshot struct {
	ParticipantID string `json:"participant_id"`
	CharacterID   string `json:"character_id"`
	Name          string `json:"name"`
	Class         string `json:"class"`
	Level         int    `json:"level"`
	Role          Role   `json:"role"`
	PowerScore    int    `json:"power_score"`
	// Placeholder is set when the character record could not be found at
	// provisioning time and a synthetic stand-in was used instead.
	Placeholder bool `json:"placeholder"`
}

// InstanceStage is one stage of the instanced content.
type InstanceStage struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	BossName  string `json:"boss_name,omitempty"`
	Completed bool   `json:"completed"`
}

// InstanceEvent is an entry in the instance's event log.
type InstanceEvent struct {
	At      time.Time `json:"at"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
}

// Instance is a persisted, provisioned session for a matched group. It is
// created once by the provisioner; the combat subsystem owns it afterwards.
type Instance struct {
	ID             string                `json:"id"`
	ContentID      string                `json:"content_id"`
	ContentType    string                `json:"content_type"`
	Difficulty     string                `json:"difficulty"`
	Status         string                `json:"status"`
	Participants   []ParticipantSnapshot `json:"participants"`
	ParticipantIDs []string              `json:"participant_ids"`
	CurrentStage   int                   `json:"current_stage"`
	MaxStages      int                   `json:"max_stages"`
	Stages         []InstanceStage       `json:"stages"`
	EventLog       []InstanceEvent       `json:"event_log"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}
