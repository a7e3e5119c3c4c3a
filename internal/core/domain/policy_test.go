package domain

import "testing"

func TestAllow(t *testing.T) {
	admin := Claims{UserID: 1, Username: "admin", Roles: []Role{RoleAdmin}}
	moderator := Claims{UserID: 2, Username: "mod", Roles: []Role{RoleModerator}}
	user := Claims{UserID: 3, Username: "joe", Roles: []Role{RoleUser}}
	anonymous := Claims{}

	tests := []struct {
		name     string
		claims   Claims
		op       Operation
		targetID int64
		want     bool
	}{
		{"admin lists users", admin, OpListUsers, 0, true},
		{"moderator lists users", moderator, OpListUsers, 0, true},
		{"plain user cannot list", user, OpListUsers, 0, false},
		{"anonymous cannot list", anonymous, OpListUsers, 0, false},

		{"admin reads any user", admin, OpGetUser, 3, true},
		{"user reads own record", user, OpGetUser, 3, true},
		{"user cannot read others", user, OpGetUser, 2, false},
		{"moderator cannot read others", moderator, OpGetUser, 3, false},

		{"anonymous signup allowed", anonymous, OpCreateUser, 0, true},
		{"authenticated signup allowed", user, OpCreateUser, 0, true},

		{"admin updates any user", admin, OpUpdateUser, 3, true},
		{"user cannot update others", user, OpUpdateUser, 3, false},
		{"moderator cannot update", moderator, OpUpdateUser, 3, false},

		{"admin deletes", admin, OpDeleteUser, 3, true},
		{"user cannot delete", user, OpDeleteUser, 3, false},

		{"any authenticated self-update", user, OpUpdateSelf, 3, true},
		{"anonymous cannot self-update", anonymous, OpUpdateSelf, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allow(tt.claims, tt.op, tt.targetID); got != tt.want {
				t.Fatalf("Allow(%+v, %v, %d) = %v, want %v", tt.claims, tt.op, tt.targetID, got, tt.want)
			}
		})
	}
}

func TestClaims_HasAnyRole(t *testing.T) {
	c := Claims{Username: "joe", Roles: []Role{RoleUser, RoleModerator}}

	if !c.HasAnyRole(RoleAdmin, RoleModerator) {
		t.Fatalf("expected moderator match")
	}
	if c.HasAnyRole(RoleAdmin) {
		t.Fatalf("did not expect admin match")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleUser, RoleModerator} {
		if !ValidRole(r) {
			t.Fatalf("expected %s to be valid", r)
		}
	}
	if ValidRole("SUPERUSER") {
		t.Fatalf("unknown role accepted")
	}
}
