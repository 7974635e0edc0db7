package model

import "time"

// RequiredComposition is the fixed slot requirement for a full group:
// one tank, one healer, three damage dealers. The planner and the party
// completion resolver consume this as a generic vector, so a future
// composition change is a constant edit.
var RequiredComposition = map[Role]int{
	RoleTank:   1,
	RoleHealer: 1,
	RoleDps:    3,
}

// GroupSize is the total slot count implied by RequiredComposition.
const GroupSize = 5

// Group is a fully composed set of queue entries ready for instance
// provisioning. It is ephemeral: it exists only between a matchmaking pass
// and the provisioning of its instance, and is never persisted as such.
type Group struct {
	Tank   QueueEntry   `json:"tank"`
	Healer QueueEntry   `json:"healer"`
	Dps    []QueueEntry `json:"dps"`
	// PartyID is set when the group was completed from a party block.
	PartyID *string `json:"party_id,omitempty"`
}

// Entries returns the group's five entries in slot order: tank, healer,
// then dps in queue order.
func (g *Group) Entries() []QueueEntry {
	out := make([]QueueEntry, 0, GroupSize)
	out = append(out, g.Tank, g.Healer)
	out = append(out, g.Dps...)
	return out
}

// Refs returns the removal references for all five entries.
func (g *Group) Refs() []EntryRef {
	entries := g.Entries()
	refs := make([]EntryRef, len(entries))
	for i, e := range entries {
		refs[i] = e.Ref()
	}
	return refs
}

// RoleCounts tallies the group's entries by normalized role.
func (g *Group) RoleCounts() map[Role]int {
	counts := make(map[Role]int, 3)
	for _, e := range g.Entries() {
		counts[e.NormalizedRole]++
	}
	return counts
}

// MatchRecord is the durable audit trail of a formed group. Unlike Group it
// outlives provisioning, so operators can answer "who got matched with whom"
// after the fact.
type MatchRecord struct {
	ID             string    `json:"id"`
	InstanceID     string    `json:"instance_id"`
	ContentType    string    `json:"content_type"`
	ParticipantIDs []string  `json:"participant_ids"`
	PartyID        *string   `json:"party_id,omitempty"`
	CreatedOn      time.Time `json:"created_on"`
}
