package session

import (
	"testing"

	"github.com/VladimirStojanovski/MealStack/internal/models"
)

func TestDecide(t *testing.T) {
	authed := func(roles ...string) Snapshot {
		return Snapshot{
			State:   StateAuthenticated,
			Session: &models.Session{Token: "tok", User: models.User{Username: "alice", Roles: roles}},
		}
	}

	tc := []struct {
		name     string
		snap     Snapshot
		from     string
		roles    []string
		expected Decision
	}{
		{
			name:     "initializing is pending",
			snap:     Snapshot{State: StateInitializing},
			from:     "/recipes",
			expected: Decision{Pending: true},
		},
		{
			name:     "unauthenticated redirects to login with origin",
			snap:     Snapshot{State: StateUnauthenticated},
			from:     "/recipes",
			expected: Decision{RedirectTo: TargetLogin, From: "/recipes"},
		},
		{
			name:     "authenticated without role requirement is allowed",
			snap:     authed(),
			from:     "/recipes",
			expected: Decision{Allow: true},
		},
		{
			name:     "authenticated with matching role is allowed",
			snap:     authed("ROLE_USER", models.RoleAdmin),
			from:     "/admin",
			roles:    []string{models.RoleAdmin},
			expected: Decision{Allow: true},
		},
		{
			name:     "authenticated missing role goes home not to login",
			snap:     authed("ROLE_USER"),
			from:     "/admin",
			roles:    []string{models.RoleAdmin},
			expected: Decision{RedirectTo: TargetHome},
		},
		{
			name:     "any of several required roles suffices",
			snap:     authed("ROLE_EDITOR"),
			from:     "/admin",
			roles:    []string{models.RoleAdmin, "ROLE_EDITOR"},
			expected: Decision{Allow: true},
		},
		{
			name:     "unauthenticated with role requirement still goes to login",
			snap:     Snapshot{State: StateUnauthenticated},
			from:     "/admin",
			roles:    []string{models.RoleAdmin},
			expected: Decision{RedirectTo: TargetLogin, From: "/admin"},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.snap, tt.from, tt.roles...)
			if got != tt.expected {
				t.Errorf("Decide() = %+v, want %+v", got, tt.expected)
			}
		})
	}

	t.Run("same inputs give same decision", func(t *testing.T) {
		snap := authed("ROLE_USER")
		first := Decide(snap, "/recipes")
		second := Decide(snap, "/recipes")
		if first != second {
			t.Errorf("Decide is not pure: %+v vs %+v", first, second)
		}
	})
}
