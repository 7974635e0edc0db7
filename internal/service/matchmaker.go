package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/emberfall/crucible/api/internal/model"
)

// QueueStore defines the storage contract for queue entries
type QueueStore interface {
	Append(ctx context.Context, entry *model.QueueEntry) (string, error)
	ListAll(ctx context.Context, contentType string) ([]model.QueueEntry, error)
	RemoveByID(ctx context.Context, id string) (bool, error)
	RemoveMany(ctx context.Context, refs []model.EntryRef) ([]bool, error)
	ListByParty(ctx context.Context, partyID string) ([]model.QueueEntry, error)
	FindByParticipant(ctx context.Context, participantID, contentType string) (*model.QueueEntry, error)
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
	ListContentTypes(ctx context.Context) ([]string, error)
}

// PartyStore defines the storage contract for parties
type PartyStore interface {
	CreateParty(ctx context.Context, party *model.Party) error
	GetParty(ctx context.Context, partyID string) (*model.Party, error)
	UpdateStatus(ctx context.Context, partyID, status string) error
	UpdateMembers(ctx context.Context, partyID string, members []model.PartyMember) error
}

// GroupProvisioner turns a claimed group into a persisted instance
type GroupProvisioner interface {
	Provision(ctx context.Context, group *model.Group) error
}

// Notifier is the best-effort broadcast contract. Implementations must
// never block or fail the operation that triggered the notification.
type Notifier interface {
	Notify(channelID string, eventType EventType, data interface{})
	SendToParticipant(participantID string, event Event)
}

// queueChannel is the broadcast channel for a content type's queue
func queueChannel(contentType string) string {
	return "queue:" + contentType
}

// MatchPlan is the output of the pure planning phase: the groups a snapshot
// supports, each carrying the entry refs to claim.
type MatchPlan struct {
	Groups []model.Group
}

// Matchmaker forms groups from queue snapshots.
//
// Each pass runs in two phases. Planning is pure: it works on a snapshot
// and decides which groups could form. Execution claims each planned
// group's entries through version-conditional removal and only dispatches
// provisioning when all five removals succeeded.
//
// Two mechanisms close the snapshot-then-remove race. Passes for one
// content type serialize on a mutex, so in-process passes never interleave.
// The conditional removal additionally protects against another process
// claiming the same entries: a partial claim is abandoned, and the entries
// it did remove stay removed rather than being re-inserted, which keeps
// matching at-most-once.
type Matchmaker struct {
	store            QueueStore
	parties          PartyStore
	provisioner      GroupProvisioner
	notifier         Notifier
	provisionTimeout time.Duration

	mu        sync.Mutex
	passLocks map[string]*sync.Mutex
}

// MatchmakerConfig holds configuration for the matchmaker
type MatchmakerConfig struct {
	Store            QueueStore
	Parties          PartyStore
	Provisioner      GroupProvisioner
	Notifier         Notifier
	ProvisionTimeout time.Duration // Optional, defaults to 30s
}

// NewMatchmaker creates a new matchmaker
func NewMatchmaker(cfg MatchmakerConfig) *Matchmaker {
	timeout := cfg.ProvisionTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Matchmaker{
		store:            cfg.Store,
		parties:          cfg.Parties,
		provisioner:      cfg.Provisioner,
		notifier:         cfg.Notifier,
		provisionTimeout: timeout,
		passLocks:        make(map[string]*sync.Mutex),
	}
}

// passLock returns the serialization mutex for a content type
func (m *Matchmaker) passLock(contentType string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.passLocks[contentType]
	if !ok {
		lock = &sync.Mutex{}
		m.passLocks[contentType] = lock
	}
	return lock
}

// RunPass executes one matchmaking pass for a content type and returns the
// number of groups formed. A store failure before any removal aborts the
// pass with the queue untouched.
func (m *Matchmaker) RunPass(ctx context.Context, contentType string) (int, error) {
	lock := m.passLock(contentType)
	lock.Lock()
	defer lock.Unlock()

	entries, err := m.store.ListAll(ctx, contentType)
	if err != nil {
		return 0, fmt.Errorf("failed to read queue snapshot: %w", err)
	}

	plan := planPass(entries, time.Now().UTC())

	formed := 0
	for _, group := range plan.Groups {
		claimed, err := m.claim(ctx, &group)
		if err != nil {
			return formed, err
		}
		if !claimed {
			continue
		}

		if group.PartyID != nil {
			if err := m.parties.UpdateStatus(ctx, *group.PartyID, model.PartyStatusInInstance); err != nil {
				slog.Error("failed to transition matched party",
					slog.String("party_id", *group.PartyID),
					slog.String("error", err.Error()))
			}
		}

		formed++
		m.notifier.Notify(queueChannel(contentType), EventGroupFormed, map[string]interface{}{
			"content_type":    contentType,
			"participant_ids": participantIDs(&group),
		})
		m.dispatch(&group)
	}
	return formed, nil
}

// claim removes a planned group's five entries conditionally. False means
// another pass got there first and the group must not be provisioned.
func (m *Matchmaker) claim(ctx context.Context, group *model.Group) (bool, error) {
	refs := group.Refs()
	removed, err := m.store.RemoveMany(ctx, refs)
	if err != nil {
		return false, fmt.Errorf("failed to claim group entries: %w", err)
	}

	missed := 0
	for _, ok := range removed {
		if !ok {
			missed++
		}
	}
	if missed > 0 {
		// Entries this pass did remove stay removed. Re-inserting them
		// could hand the same entry to two groups if another pass already
		// read them.
		slog.Warn("abandoned partially claimed group",
			slog.Int("missed", missed),
			slog.Int("claimed", len(removed)-missed))
		return false, nil
	}
	return true, nil
}

// dispatch hands a claimed group to the provisioner on its own goroutine so
// one group's provisioning never delays or aborts the rest of the pass.
func (m *Matchmaker) dispatch(group *model.Group) {
	g := *group
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.provisionTimeout)
		defer cancel()

		if err := m.provisioner.Provision(ctx, &g); err != nil {
			slog.Error("group provisioning failed",
				slog.String("content_type", g.Tank.ContentType),
				slog.String("error", err.Error()))
		}
	}()
}

// planPass is the pure planning phase: filter expired entries, carve full
// groups from individually queued entries role by role, then try to
// complete party blocks from the leftover pool.
func planPass(entries []model.QueueEntry, now time.Time) MatchPlan {
	var individuals, partyLinked []model.QueueEntry
	for _, e := range entries {
		if e.Expired(now) {
			continue
		}
		if e.InParty() {
			partyLinked = append(partyLinked, e)
		} else {
			individuals = append(individuals, e)
		}
	}

	pool := bucketByRole(individuals)

	var groups []model.Group
	for pool.canCarve() {
		groups = append(groups, pool.carve())
	}

	for _, block := range collectPartyBlocks(partyLinked) {
		if g, ok := resolvePartyBlock(block, pool); ok {
			groups = append(groups, *g)
		}
	}

	return MatchPlan{Groups: groups}
}

// roleBuckets holds individually queued entries by normalized role in FIFO
// order.
type roleBuckets struct {
	tanks   []model.QueueEntry
	healers []model.QueueEntry
	dps     []model.QueueEntry
}

func bucketByRole(entries []model.QueueEntry) *roleBuckets {
	b := &roleBuckets{}
	for _, e := range entries {
		switch e.NormalizedRole {
		case model.RoleTank:
			b.tanks = append(b.tanks, e)
		case model.RoleHealer:
			b.healers = append(b.healers, e)
		default:
			b.dps = append(b.dps, e)
		}
	}
	return b
}

func (b *roleBuckets) bucket(role model.Role) *[]model.QueueEntry {
	switch role {
	case model.RoleTank:
		return &b.tanks
	case model.RoleHealer:
		return &b.healers
	default:
		return &b.dps
	}
}

func (b *roleBuckets) count(role model.Role) int {
	return len(*b.bucket(role))
}

// take pops n entries from the head of a role bucket. Callers must check
// count first.
func (b *roleBuckets) take(role model.Role, n int) []model.QueueEntry {
	bucket := b.bucket(role)
	taken := (*bucket)[:n]
	*bucket = (*bucket)[n:]
	return taken
}

func (b *roleBuckets) canCarve() bool {
	for role, required := range model.RequiredComposition {
		if b.count(role) < required {
			return false
		}
	}
	return true
}

func (b *roleBuckets) carve() model.Group {
	return model.Group{
		Tank:   b.take(model.RoleTank, 1)[0],
		Healer: b.take(model.RoleHealer, 1)[0],
		Dps:    b.take(model.RoleDps, model.RequiredComposition[model.RoleDps]),
	}
}

func participantIDs(group *model.Group) []string {
	entries := group.Entries()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ParticipantID
	}
	return ids
}
