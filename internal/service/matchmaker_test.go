package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/emberfall/crucible/api/internal/model"
)

// ============================================================================
// Mock Stores
// ============================================================================

type mockQueueStore struct {
	appendFunc            func(ctx context.Context, entry *model.QueueEntry) (string, error)
	listAllFunc           func(ctx context.Context, contentType string) ([]model.QueueEntry, error)
	removeByIDFunc        func(ctx context.Context, id string) (bool, error)
	removeManyFunc        func(ctx context.Context, refs []model.EntryRef) ([]bool, error)
	listByPartyFunc       func(ctx context.Context, partyID string) ([]model.QueueEntry, error)
	findByParticipantFunc func(ctx context.Context, participantID, contentType string) (*model.QueueEntry, error)
	purgeExpiredFunc      func(ctx context.Context, now time.Time) (int, error)
	listContentTypesFunc  func(ctx context.Context) ([]string, error)
}

func (m *mockQueueStore) Append(ctx context.Context, entry *model.QueueEntry) (string, error) {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, entry)
	}
	return "queue_entry:test", nil
}

func (m *mockQueueStore) ListAll(ctx context.Context, contentType string) ([]model.QueueEntry, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx, contentType)
	}
	return nil, nil
}

func (m *mockQueueStore) RemoveByID(ctx context.Context, id string) (bool, error) {
	if m.removeByIDFunc != nil {
		return m.removeByIDFunc(ctx, id)
	}
	return true, nil
}

func (m *mockQueueStore) RemoveMany(ctx context.Context, refs []model.EntryRef) ([]bool, error) {
	if m.removeManyFunc != nil {
		return m.removeManyFunc(ctx, refs)
	}
	removed := make([]bool, len(refs))
	for i := range removed {
		removed[i] = true
	}
	return removed, nil
}

func (m *mockQueueStore) ListByParty(ctx context.Context, partyID string) ([]model.QueueEntry, error) {
	if m.listByPartyFunc != nil {
		return m.listByPartyFunc(ctx, partyID)
	}
	return nil, nil
}

func (m *mockQueueStore) FindByParticipant(ctx context.Context, participantID, contentType string) (*model.QueueEntry, error) {
	if m.findByParticipantFunc != nil {
		return m.findByParticipantFunc(ctx, participantID, contentType)
	}
	return nil, nil
}

func (m *mockQueueStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	if m.purgeExpiredFunc != nil {
		return m.purgeExpiredFunc(ctx, now)
	}
	return 0, nil
}

func (m *mockQueueStore) ListContentTypes(ctx context.Context) ([]string, error) {
	if m.listContentTypesFunc != nil {
		return m.listContentTypesFunc(ctx)
	}
	return nil, nil
}

type mockPartyStore struct {
	createPartyFunc   func(ctx context.Context, party *model.Party) error
	getPartyFunc      func(ctx context.Context, partyID string) (*model.Party, error)
	updateStatusFunc  func(ctx context.Context, partyID, status string) error
	updateMembersFunc func(ctx context.Context, partyID string, members []model.PartyMember) error
}

func (m *mockPartyStore) CreateParty(ctx context.Context, party *model.Party) error {
	if m.createPartyFunc != nil {
		return m.createPartyFunc(ctx, party)
	}
	party.ID = "party:test"
	return nil
}

func (m *mockPartyStore) GetParty(ctx context.Context, partyID string) (*model.Party, error) {
	if m.getPartyFunc != nil {
		return m.getPartyFunc(ctx, partyID)
	}
	return nil, nil
}

func (m *mockPartyStore) UpdateStatus(ctx context.Context, partyID, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, partyID, status)
	}
	return nil
}

func (m *mockPartyStore) UpdateMembers(ctx context.Context, partyID string, members []model.PartyMember) error {
	if m.updateMembersFunc != nil {
		return m.updateMembersFunc(ctx, partyID, members)
	}
	return nil
}

type mockProvisioner struct {
	mu        sync.Mutex
	groups    []model.Group
	provision func(ctx context.Context, group *model.Group) error
}

func (m *mockProvisioner) Provision(ctx context.Context, group *model.Group) error {
	m.mu.Lock()
	m.groups = append(m.groups, *group)
	m.mu.Unlock()
	if m.provision != nil {
		return m.provision(ctx, group)
	}
	return nil
}

type mockNotifier struct {
	mu     sync.Mutex
	events []EventType
}

func (m *mockNotifier) Notify(channelID string, eventType EventType, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, eventType)
}

func (m *mockNotifier) SendToParticipant(participantID string, event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event.Type)
}

// ============================================================================
// Helper Functions
// ============================================================================

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func testEntry(id, participantID string, role model.Role) model.QueueEntry {
	return model.QueueEntry{
		ID:             "queue_entry:" + id,
		ParticipantID:  participantID,
		CharacterID:    "character:" + participantID,
		NormalizedRole: role,
		ContentType:    model.ContentTypeDungeon,
		Version:        1,
		QueuedAt:       testNow.Add(-time.Minute),
		ExpiresAt:      testNow.Add(29 * time.Minute),
	}
}

func partyEntry(id, participantID string, role model.Role, partyID string) model.QueueEntry {
	e := testEntry(id, participantID, role)
	e.PartyID = &partyID
	return e
}

func newTestMatchmaker(store QueueStore, parties PartyStore, prov GroupProvisioner) *Matchmaker {
	if store == nil {
		store = &mockQueueStore{}
	}
	if parties == nil {
		parties = &mockPartyStore{}
	}
	if prov == nil {
		prov = &mockProvisioner{}
	}
	return NewMatchmaker(MatchmakerConfig{
		Store:       store,
		Parties:     parties,
		Provisioner: prov,
		Notifier:    &mockNotifier{},
	})
}

// ============================================================================
// planPass Tests
// ============================================================================

func TestPlanPass_CarvesFullGroup(t *testing.T) {
	t.Parallel()
	entries := []model.QueueEntry{
		testEntry("1", "p1", model.RoleTank),
		testEntry("2", "p2", model.RoleHealer),
		testEntry("3", "p3", model.RoleDps),
		testEntry("4", "p4", model.RoleDps),
		testEntry("5", "p5", model.RoleDps),
	}

	plan := planPass(entries, testNow)
	if len(plan.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(plan.Groups))
	}

	g := plan.Groups[0]
	if g.Tank.ParticipantID != "p1" {
		t.Errorf("expected tank p1, got %s", g.Tank.ParticipantID)
	}
	if g.Healer.ParticipantID != "p2" {
		t.Errorf("expected healer p2, got %s", g.Healer.ParticipantID)
	}
	if len(g.Dps) != 3 {
		t.Fatalf("expected 3 dps, got %d", len(g.Dps))
	}
	if g.PartyID != nil {
		t.Error("individually carved group should have no party id")
	}
}

func TestPlanPass_FIFOWithinRole(t *testing.T) {
	t.Parallel()
	// Two tanks queued; the earlier one must be picked.
	entries := []model.QueueEntry{
		testEntry("1", "tank-early", model.RoleTank),
		testEntry("2", "tank-late", model.RoleTank),
		testEntry("3", "p3", model.RoleHealer),
		testEntry("4", "p4", model.RoleDps),
		testEntry("5", "p5", model.RoleDps),
		testEntry("6", "p6", model.RoleDps),
	}

	plan := planPass(entries, testNow)
	if len(plan.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(plan.Groups))
	}
	if plan.Groups[0].Tank.ParticipantID != "tank-early" {
		t.Errorf("expected earliest tank, got %s", plan.Groups[0].Tank.ParticipantID)
	}
}

func TestPlanPass_InsufficientRoles(t *testing.T) {
	t.Parallel()
	// Four dps and a healer: no tank, no group, nobody removed.
	entries := []model.QueueEntry{
		testEntry("1", "p1", model.RoleHealer),
		testEntry("2", "p2", model.RoleDps),
		testEntry("3", "p3", model.RoleDps),
		testEntry("4", "p4", model.RoleDps),
		testEntry("5", "p5", model.RoleDps),
	}

	plan := planPass(entries, testNow)
	if len(plan.Groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(plan.Groups))
	}
}

func TestPlanPass_NoRoleSubstitution(t *testing.T) {
	t.Parallel()
	// Five tanks never form a group.
	entries := []model.QueueEntry{
		testEntry("1", "p1", model.RoleTank),
		testEntry("2", "p2", model.RoleTank),
		testEntry("3", "p3", model.RoleTank),
		testEntry("4", "p4", model.RoleTank),
		testEntry("5", "p5", model.RoleTank),
	}

	plan := planPass(entries, testNow)
	if len(plan.Groups) != 0 {
		t.Fatalf("expected no groups, got %d", len(plan.Groups))
	}
}

func TestPlanPass_SkipsExpiredEntries(t *testing.T) {
	t.Parallel()
	expired := testEntry("1", "p1", model.RoleTank)
	expired.ExpiresAt = testNow.Add(-time.Second)

	entries := []model.QueueEntry{
		expired,
		testEntry("2", "p2", model.RoleHealer),
		testEntry("3", "p3", model.RoleDps),
		testEntry("4", "p4", model.RoleDps),
		testEntry("5", "p5", model.RoleDps),
	}

	plan := planPass(entries, testNow)
	if len(plan.Groups) != 0 {
		t.Fatalf("expired tank should not be matched, got %d groups", len(plan.Groups))
	}
}

func TestPlanPass_MultipleGroups(t *testing.T) {
	t.Parallel()
	var entries []model.QueueEntry
	for i := 0; i < 2; i++ {
		prefix := string(rune('a' + i))
		entries = append(entries,
			testEntry(prefix+"1", prefix+"-tank", model.RoleTank),
			testEntry(prefix+"2", prefix+"-healer", model.RoleHealer),
			testEntry(prefix+"3", prefix+"-dps1", model.RoleDps),
			testEntry(prefix+"4", prefix+"-dps2", model.RoleDps),
			testEntry(prefix+"5", prefix+"-dps3", model.RoleDps),
		)
	}

	plan := planPass(entries, testNow)
	if len(plan.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(plan.Groups))
	}

	// No participant appears in two groups.
	seen := make(map[string]bool)
	for _, g := range plan.Groups {
		for _, e := range g.Entries() {
			if seen[e.ParticipantID] {
				t.Fatalf("participant %s matched twice", e.ParticipantID)
			}
			seen[e.ParticipantID] = true
		}
	}
}

func TestPlanPass_GroupCompositionAlwaysExact(t *testing.T) {
	t.Parallel()
	// A mixed bag of entries; every planned group must have exactly the
	// required role counts regardless of input shape.
	entries := []model.QueueEntry{
		testEntry("1", "p1", model.RoleDps),
		testEntry("2", "p2", model.RoleTank),
		testEntry("3", "p3", model.RoleDps),
		testEntry("4", "p4", model.RoleHealer),
		testEntry("5", "p5", model.RoleDps),
		testEntry("6", "p6", model.RoleTank),
		testEntry("7", "p7", model.RoleDps),
		testEntry("8", "p8", model.RoleHealer),
		testEntry("9", "p9", model.RoleDps),
	}

	plan := planPass(entries, testNow)
	for i, g := range plan.Groups {
		counts := g.RoleCounts()
		for role, required := range model.RequiredComposition {
			if counts[role] != required {
				t.Errorf("group %d: expected %d %s, got %d", i, required, role, counts[role])
			}
		}
	}
}

// ============================================================================
// RunPass Tests
// ============================================================================

func TestRunPass_FormsAndDispatches(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &mockQueueStore{
		listAllFunc: func(ctx context.Context, contentType string) ([]model.QueueEntry, error) {
			return []model.QueueEntry{
				testEntry("1", "p1", model.RoleTank),
				testEntry("2", "p2", model.RoleHealer),
				testEntry("3", "p3", model.RoleDps),
				testEntry("4", "p4", model.RoleDps),
				testEntry("5", "p5", model.RoleDps),
			}, nil
		},
	}
	prov := &mockProvisioner{}

	m := newTestMatchmaker(store, nil, prov)
	formed, err := m.RunPass(ctx, model.ContentTypeDungeon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if formed != 1 {
		t.Fatalf("expected 1 group formed, got %d", formed)
	}
}

func TestRunPass_PartialClaimAbandoned(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &mockQueueStore{
		listAllFunc: func(ctx context.Context, contentType string) ([]model.QueueEntry, error) {
			return []model.QueueEntry{
				testEntry("1", "p1", model.RoleTank),
				testEntry("2", "p2", model.RoleHealer),
				testEntry("3", "p3", model.RoleDps),
				testEntry("4", "p4", model.RoleDps),
				testEntry("5", "p5", model.RoleDps),
			}, nil
		},
		removeManyFunc: func(ctx context.Context, refs []model.EntryRef) ([]bool, error) {
			// One entry lost to a concurrent claim.
			return []bool{true, true, true, false, true}, nil
		},
	}
	prov := &mockProvisioner{}

	m := newTestMatchmaker(store, nil, prov)
	formed, err := m.RunPass(ctx, model.ContentTypeDungeon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if formed != 0 {
		t.Fatalf("partially claimed group must not count as formed, got %d", formed)
	}

	prov.mu.Lock()
	dispatched := len(prov.groups)
	prov.mu.Unlock()
	if dispatched != 0 {
		t.Errorf("partially claimed group must not be provisioned, got %d dispatches", dispatched)
	}
}

func TestRunPass_SnapshotErrorAbortsPass(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := &mockQueueStore{
		listAllFunc: func(ctx context.Context, contentType string) ([]model.QueueEntry, error) {
			return nil, errors.New("connection reset")
		},
	}

	m := newTestMatchmaker(store, nil, nil)
	_, err := m.RunPass(ctx, model.ContentTypeDungeon)
	if err == nil {
		t.Fatal("expected error from failed snapshot")
	}
}

func TestRunPass_PartyTransitionedOnMatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var transitioned string
	var transitionedTo string
	parties := &mockPartyStore{
		updateStatusFunc: func(ctx context.Context, partyID, status string) error {
			transitioned = partyID
			transitionedTo = status
			return nil
		},
	}
	store := &mockQueueStore{
		listAllFunc: func(ctx context.Context, contentType string) ([]model.QueueEntry, error) {
			return []model.QueueEntry{
				partyEntry("1", "p1", model.RoleTank, "party:abc"),
				partyEntry("2", "p2", model.RoleHealer, "party:abc"),
				partyEntry("3", "p3", model.RoleDps, "party:abc"),
				partyEntry("4", "p4", model.RoleDps, "party:abc"),
				partyEntry("5", "p5", model.RoleDps, "party:abc"),
			}, nil
		},
	}

	m := newTestMatchmaker(store, parties, nil)
	formed, err := m.RunPass(ctx, model.ContentTypeDungeon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if formed != 1 {
		t.Fatalf("expected 1 group formed, got %d", formed)
	}
	if transitioned != "party:abc" {
		t.Errorf("expected party:abc transitioned, got %q", transitioned)
	}
	if transitionedTo != model.PartyStatusInInstance {
		t.Errorf("expected transition to in_instance, got %q", transitionedTo)
	}
}

func TestRunPass_EmptyQueue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := newTestMatchmaker(nil, nil, nil)
	formed, err := m.RunPass(ctx, model.ContentTypeDungeon)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if formed != 0 {
		t.Fatalf("expected 0 groups, got %d", formed)
	}
}
