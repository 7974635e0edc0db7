package model

import "testing"

func TestNormalizeRole_TankAliases(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"tank", "warrior", "guardian", "protector", "bruiser"} {
		if got := NormalizeRole(raw); got != RoleTank {
			t.Errorf("expected %q to normalize to tank, got %s", raw, got)
		}
	}
}

func TestNormalizeRole_HealerAliases(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"healer", "priest", "medic", "support", "cleric"} {
		if got := NormalizeRole(raw); got != RoleHealer {
			t.Errorf("expected %q to normalize to healer, got %s", raw, got)
		}
	}
}

func TestNormalizeRole_CaseAndWhitespace(t *testing.T) {
	t.Parallel()
	if got := NormalizeRole("  TANK "); got != RoleTank {
		t.Errorf("expected padded uppercase tank to normalize, got %s", got)
	}
	if got := NormalizeRole("Priest"); got != RoleHealer {
		t.Errorf("expected mixed-case priest to normalize, got %s", got)
	}
}

func TestNormalizeRole_UnknownDefaultsToDps(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "rogue", "mage", "banana", "dps", "damage"} {
		if got := NormalizeRole(raw); got != RoleDps {
			t.Errorf("expected %q to default to dps, got %s", raw, got)
		}
	}
}

func TestRole_Valid(t *testing.T) {
	t.Parallel()
	for _, r := range []Role{RoleTank, RoleHealer, RoleDps} {
		if !r.Valid() {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if Role("warrior").Valid() {
		t.Error("raw labels are not normalized roles")
	}
}
