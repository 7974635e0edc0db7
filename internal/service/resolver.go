package service

import (
	"github.com/emberfall/crucible/api/internal/model"
)

// Party completion: a party block whose entries do not cover the full
// composition on their own can be topped up from the individual pool. The
// resolver never mixes two parties into one group and never substitutes one
// role for another; a short block either gets exactly what it is missing or
// stays queued untouched.

// partyBlock is the set of still-queued entries sharing a party id, in
// snapshot order.
type partyBlock struct {
	id      string
	entries []model.QueueEntry
}

// collectPartyBlocks groups party-linked entries by party id, preserving
// the order parties first appear in the snapshot (earliest queued first).
func collectPartyBlocks(entries []model.QueueEntry) []partyBlock {
	index := make(map[string]int)
	blocks := make([]partyBlock, 0)
	for _, e := range entries {
		id := *e.PartyID
		i, ok := index[id]
		if !ok {
			i = len(blocks)
			index[id] = i
			blocks = append(blocks, partyBlock{id: id})
		}
		blocks[i].entries = append(blocks[i].entries, e)
	}
	return blocks
}

// resolvePartyBlock attempts to complete one party block into a full group
// using the individual pool. On success the consumed individuals are popped
// from the pool; on failure the pool is left untouched and the block stays
// queued for the next pass.
func resolvePartyBlock(block partyBlock, pool *roleBuckets) (*model.Group, bool) {
	// Party entries per role, capped at the required count. Surplus party
	// entries for a role stay queued.
	byRole := make(map[model.Role][]model.QueueEntry, len(model.RequiredComposition))
	for _, e := range block.entries {
		role := e.NormalizedRole
		if len(byRole[role]) < model.RequiredComposition[role] {
			byRole[role] = append(byRole[role], e)
		}
	}

	// Every role's need must be satisfiable from the pool simultaneously,
	// with exact-role matching.
	needed := make(map[model.Role]int, len(model.RequiredComposition))
	for role, required := range model.RequiredComposition {
		needed[role] = required - len(byRole[role])
		if pool.count(role) < needed[role] {
			return nil, false
		}
	}

	for role, n := range needed {
		if n > 0 {
			byRole[role] = append(byRole[role], pool.take(role, n)...)
		}
	}

	partyID := block.id
	return &model.Group{
		Tank:    byRole[model.RoleTank][0],
		Healer:  byRole[model.RoleHealer][0],
		Dps:     byRole[model.RoleDps],
		PartyID: &partyID,
	}, true
}
