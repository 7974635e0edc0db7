package model

// CharacterSnapshot is the profile store's view of a character. The queue
// core only reads it at provisioning time and writes the active instance
// pointer; everything else about a character belongs to the profile
// subsystem.
type CharacterSnapshot struct {
	ID               string `json:"id"`
	ParticipantID    string `json:"participant_id"`
	Name             string `json:"name"`
	Class            string `json:"class"`
	Level            int    `json:"level"`
	PowerScore       int    `json:"power_score"`
	ActiveInstanceID string `json:"active_instance_id,omitempty"`
}
