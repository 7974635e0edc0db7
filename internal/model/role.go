package model

import "strings"

// Role is the normalized combat role used for group composition.
type Role string

const (
	RoleTank   Role = "tank"
	RoleHealer Role = "healer"
	RoleDps    Role = "dps"
)

// Alias tables for role normalization. Adding a class spec is a one-line
// edit here, not a new branch anywhere else.
var (
	tankAliases = map[string]bool{
		"tank":      true,
		"warrior":   true,
		"guardian":  true,
		"protector": true,
		"bruiser":   true,
	}
	healerAliases = map[string]bool{
		"healer":  true,
		"priest":  true,
		"medic":   true,
		"support": true,
		"cleric":  true,
	}
)

// NormalizeRole maps an arbitrary role label to one of the three normalized
// roles. The lookup is case-insensitive and whitespace-tolerant. Any label
// not found in the tank or healer alias tables, including the empty string,
// normalizes to RoleDps. That default is a behavioral contract: group
// composition guarantees depend on unknown inputs landing in the dps bucket.
func NormalizeRole(raw string) Role {
	key := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case tankAliases[key]:
		return RoleTank
	case healerAliases[key]:
		return RoleHealer
	default:
		return RoleDps
	}
}

// Valid reports whether r is one of the three normalized roles.
func (r Role) Valid() bool {
	return r == RoleTank || r == RoleHealer || r == RoleDps
}
