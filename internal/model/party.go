package model

import "time"

// Party statuses. Transitions move forward only: forming -> queued ->
// in_instance, with the single exception of an explicit cancel returning a
// queued party to forming. Nothing skips or reverses through in_instance.
const (
	PartyStatusForming    = "forming"
	PartyStatusQueued     = "queued"
	PartyStatusInInstance = "in_instance"
)

// PartyMember is one roster slot of a pre-formed party.
type PartyMember struct {
	ParticipantID string `json:"participant_id"`
	CharacterID   string `json:"character_id"`
	RawRole       string `json:"raw_role"`
	PowerScore    int    `json:"power_score"`
}

// Party is a pre-formed group of participants that queues as a block:
// every roster member produces one QueueEntry sharing the party id.
type Party struct {
	ID        string        `json:"id"`
	LeaderID  string        `json:"leader_id"`
	Status    string        `json:"status"`
	Members   []PartyMember `json:"members"`
	CreatedOn time.Time     `json:"created_on"`
	UpdatedOn time.Time     `json:"updated_on"`
}

// MemberIDs returns the roster's participant ids in roster order.
func (p *Party) MemberIDs() []string {
	ids := make([]string, len(p.Members))
	for i, m := range p.Members {
		ids[i] = m.ParticipantID
	}
	return ids
}

// HasMember reports whether the participant is on the roster.
func (p *Party) HasMember(participantID string) bool {
	for _, m := range p.Members {
		if m.ParticipantID == participantID {
			return true
		}
	}
	return false
}

// CanTransition reports whether moving from the party's current status to
// the target status is legal.
func (p *Party) CanTransition(to string) bool {
	switch p.Status {
	case PartyStatusForming:
		return to == PartyStatusQueued
	case PartyStatusQueued:
		// Forward to in_instance, or back to forming on explicit cancel.
		return to == PartyStatusInInstance || to == PartyStatusForming
	default:
		return false
	}
}

// Party constraints.
const (
	MaxPartyMembers = GroupSize
	MinPartyMembers = 1
)

// CreatePartyRequest forms a new party with the leader as sole member.
type CreatePartyRequest struct {
	LeaderID          string `json:"leader_id"`
	LeaderCharacterID string `json:"leader_character_id"`
	LeaderRawRole     string `json:"leader_raw_role"`
	LeaderPowerScore  int    `json:"leader_power_score"`
}

// AddPartyMemberRequest adds a member to a forming party.
type AddPartyMemberRequest struct {
	ParticipantID string `json:"participant_id"`
	CharacterID   string `json:"character_id"`
	RawRole       string `json:"raw_role"`
	PowerScore    int    `json:"power_score"`
}
