package auth

import "errors"

// Role represents an authorisation tier within a household.
type Role string

const (
	// RoleMember is an ordinary household member: sees and operates
	// devices but cannot provision hardware or manage people.
	RoleMember Role = "member"

	// RoleAdmin manages the household: device provisioning, security
	// arming, camera recording, inviting and removing members.
	RoleAdmin Role = "admin"

	// RoleOwner is the household owner. Everything admin can do; the
	// backend additionally reserves ownership transfer for this role.
	RoleOwner Role = "owner"
)

// ValidRoles is the closed set of roles the client recognises.
var ValidRoles = []Role{RoleMember, RoleAdmin, RoleOwner}

// roleRanks defines the total order over roles: owner > admin > member.
// Any role string absent from this table ranks 0 and is denied against
// every defined role, including member. Fail closed, no error raised;
// callers surface the denial explicitly.
var roleRanks = map[Role]int{
	RoleOwner:  3,
	RoleAdmin:  2,
	RoleMember: 1,
}

// Rank returns the ordinal rank of a role. Unrecognised roles rank 0.
func Rank(r Role) int {
	return roleRanks[r]
}

// Evaluate reports whether an actor with the given role may perform an
// action requiring the given role. Pure and total: every pair of strings
// produces a decision, with unknown actor roles always denied.
func Evaluate(actor, required Role) bool {
	return Rank(actor) >= Rank(required)
}

// IsValidRole returns true if the role is one of the defined tiers.
func IsValidRole(r Role) bool {
	_, ok := roleRanks[r]
	return ok
}

// ErrPermissionDenied is returned when the permission evaluator denies an
// action. It is raised before any network call is issued.
var ErrPermissionDenied = errors.New("insufficient permissions")
