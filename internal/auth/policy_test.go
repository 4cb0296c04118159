package auth

import "testing"

func TestPolicy_Defaults(t *testing.T) {
	p := NewPolicy(RoleMember)

	admin := []MutationClass{ClassProvision, ClassSecurity, ClassRecording, ClassHousehold}
	for _, class := range admin {
		if p.RequiredRole(class) != RoleAdmin {
			t.Errorf("%s should require admin", class)
		}
		if p.Allows(RoleMember, class) {
			t.Errorf("member should not be allowed %s", class)
		}
		if !p.Allows(RoleAdmin, class) {
			t.Errorf("admin should be allowed %s", class)
		}
		if !p.Allows(RoleOwner, class) {
			t.Errorf("owner should be allowed %s", class)
		}
	}

	if !p.Allows(RoleMember, ClassDeviceControl) {
		t.Error("member should be allowed device control by default")
	}
}

func TestPolicy_ConfigurableDeviceControl(t *testing.T) {
	p := NewPolicy(RoleAdmin)
	if p.Allows(RoleMember, ClassDeviceControl) {
		t.Error("member should be denied device control under an admin-gated policy")
	}
	if !p.Allows(RoleAdmin, ClassDeviceControl) {
		t.Error("admin should be allowed device control under an admin-gated policy")
	}
}

func TestPolicy_InvalidControlRoleFallsBack(t *testing.T) {
	p := NewPolicy(Role("invalid"))
	if p.RequiredRole(ClassDeviceControl) != RoleMember {
		t.Error("invalid device control role should fall back to member")
	}
}

func TestPolicy_UnknownClassRequiresOwner(t *testing.T) {
	p := NewPolicy(RoleMember)
	if p.RequiredRole(MutationClass("made:up")) != RoleOwner {
		t.Error("unknown mutation class should require owner")
	}
	if p.Allows(RoleAdmin, MutationClass("made:up")) {
		t.Error("admin should be denied an unknown mutation class")
	}
}
