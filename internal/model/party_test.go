package model

import "testing"

func TestCanTransition(t *testing.T) {
	t.Parallel()
	cases := []struct {
		from string
		to   string
		ok   bool
	}{
		{PartyStatusForming, PartyStatusQueued, true},
		{PartyStatusForming, PartyStatusInInstance, false},
		{PartyStatusForming, PartyStatusForming, false},
		{PartyStatusQueued, PartyStatusInInstance, true},
		{PartyStatusQueued, PartyStatusForming, true},
		{PartyStatusQueued, PartyStatusQueued, false},
		{PartyStatusInInstance, PartyStatusForming, false},
		{PartyStatusInInstance, PartyStatusQueued, false},
	}

	for _, tc := range cases {
		p := &Party{Status: tc.from}
		if got := p.CanTransition(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestHasMember(t *testing.T) {
	t.Parallel()
	p := &Party{Members: []PartyMember{
		{ParticipantID: "p1"},
		{ParticipantID: "p2"},
	}}

	if !p.HasMember("p1") {
		t.Error("expected p1 on the roster")
	}
	if p.HasMember("p3") {
		t.Error("p3 is not on the roster")
	}
}

func TestMemberIDs_PreservesOrder(t *testing.T) {
	t.Parallel()
	p := &Party{Members: []PartyMember{
		{ParticipantID: "c"},
		{ParticipantID: "a"},
		{ParticipantID: "b"},
	}}

	ids := p.MemberIDs()
	if len(ids) != 3 || ids[0] != "c" || ids[1] != "a" || ids[2] != "b" {
		t.Errorf("expected roster order preserved, got %v", ids)
	}
}
