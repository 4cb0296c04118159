package auth

// MutationClass groups remote mutations by the role required to issue them.
type MutationClass string

const (
	// ClassDeviceControl covers toggling a device and changing a numeric
	// setpoint. Its required role is configurable: the reference backend
	// lets any member operate devices they can see.
	ClassDeviceControl MutationClass = "device:control"

	// ClassProvision covers adding, reconfiguring and removing devices.
	ClassProvision MutationClass = "device:provision"

	// ClassSecurity covers arming and disarming the security subsystem.
	ClassSecurity MutationClass = "security:arm"

	// ClassRecording covers starting and stopping camera recording.
	ClassRecording MutationClass = "camera:record"

	// ClassHousehold covers inviting and removing household members.
	ClassHousehold MutationClass = "household:manage"
)

// Policy maps mutation classes to the minimum role required to perform them.
// It is the single source of truth for client-side authorisation gating.
type Policy struct {
	required map[MutationClass]Role
}

// NewPolicy builds the default policy. deviceControlRole sets the minimum
// role for ClassDeviceControl; an empty or unrecognised value falls back to
// member. Administrative classes are fixed at admin.
func NewPolicy(deviceControlRole Role) Policy {
	if !IsValidRole(deviceControlRole) {
		deviceControlRole = RoleMember
	}
	return Policy{
		required: map[MutationClass]Role{
			ClassDeviceControl: deviceControlRole,
			ClassProvision:     RoleAdmin,
			ClassSecurity:      RoleAdmin,
			ClassRecording:     RoleAdmin,
			ClassHousehold:     RoleAdmin,
		},
	}
}

// RequiredRole returns the minimum role for a mutation class.
// Unknown classes require owner: a class the policy has never heard of
// must not be quietly permitted.
func (p Policy) RequiredRole(class MutationClass) Role {
	r, ok := p.required[class]
	if !ok {
		return RoleOwner
	}
	return r
}

// Allows reports whether an actor with the given role may perform
// mutations of the given class.
func (p Policy) Allows(actor Role, class MutationClass) bool {
	return Evaluate(actor, p.RequiredRole(class))
}
