package guard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alumnet-dev/alumnet/internal/models"
	"github.com/alumnet-dev/alumnet/internal/session"
)

var allKinds = []Kind{PublicOnlyAlumni, PublicOnlyAdmin, ProtectedAlumni, ProtectedAdmin}

func user(admin, approved bool) *models.Alumni {
	return &models.Alumni{ID: "u1", Email: "a@example.com", IsAdmin: admin, IsApproved: approved}
}

func TestLoadingNeverRedirects(t *testing.T) {
	users := []*models.Alumni{nil, user(false, false), user(false, true), user(true, false), user(true, true)}

	for _, kind := range allKinds {
		for _, u := range users {
			d := Evaluate(kind, session.Snapshot{User: u, Loading: true})
			require.NotEqual(t, Redirect, d.Action, "%s redirected while loading", kind)
			require.Empty(t, d.Target)
		}
	}

	require.Equal(t, RenderLoading, PublicAlumni(session.Snapshot{Loading: true}).Action)
	require.Equal(t, RenderLoading, PublicAdmin(session.Snapshot{Loading: true}).Action)
	require.Equal(t, RenderNothing, Alumni(session.Snapshot{Loading: true}).Action)
	require.Equal(t, RenderNothing, Admin(session.Snapshot{Loading: true}).Action)
}

func TestGuards(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		user *models.Alumni
		want Decision
	}{
		{"public alumni: anonymous", PublicOnlyAlumni, nil, render},
		{"public alumni: admin", PublicOnlyAlumni, user(true, true), redirect(PathAdminDashboard)},
		{"public alumni: unapproved admin", PublicOnlyAlumni, user(true, false), redirect(PathAdminDashboard)},
		{"public alumni: approved", PublicOnlyAlumni, user(false, true), redirect(PathAlumniProfile)},
		{"public alumni: pending", PublicOnlyAlumni, user(false, false), render},

		{"public admin: anonymous", PublicOnlyAdmin, nil, render},
		{"public admin: approved admin", PublicOnlyAdmin, user(true, true), redirect(PathAdminDashboard)},
		{"public admin: unapproved admin", PublicOnlyAdmin, user(true, false), render},
		{"public admin: alumni", PublicOnlyAdmin, user(false, true), render},

		{"protected alumni: anonymous", ProtectedAlumni, nil, redirect(PathAlumniLogin)},
		{"protected alumni: pending", ProtectedAlumni, user(false, false), redirect(PathAlumniRegister)},
		{"protected alumni: approved", ProtectedAlumni, user(false, true), render},
		{"protected alumni: approved admin", ProtectedAlumni, user(true, true), render},

		{"protected admin: anonymous", ProtectedAdmin, nil, redirect(PathAdminLogin)},
		{"protected admin: alumni", ProtectedAdmin, user(false, true), redirect(PathAlumniProfile)},
		{"protected admin: pending alumni", ProtectedAdmin, user(false, false), redirect(PathAlumniProfile)},
		{"protected admin: unapproved admin", ProtectedAdmin, user(true, false), redirect(PathAdminLogin)},
		{"protected admin: approved admin", ProtectedAdmin, user(true, true), render},

		{"unguarded: anonymous", Unguarded, nil, render},
		{"unguarded: admin", Unguarded, user(true, true), render},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.kind, session.Snapshot{User: tt.user})
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNoSessionRedirectsToLogin(t *testing.T) {
	anon := session.Snapshot{}
	require.Equal(t, Decision{Action: Redirect, Target: "/alumni/login"}, Alumni(anon))
	require.Equal(t, Decision{Action: Redirect, Target: "/admin"}, Admin(anon))
}

func TestApprovedAdminLeavesPublicPages(t *testing.T) {
	snap := session.Snapshot{User: user(true, true)}
	require.Equal(t, "/admin/dashboard", PublicAdmin(snap).Target)
	require.Equal(t, "/admin/dashboard", PublicAlumni(snap).Target)
}

func TestPendingAlumni(t *testing.T) {
	snap := session.Snapshot{User: user(false, false)}
	require.Equal(t, Decision{Action: Redirect, Target: "/alumni/register"}, Alumni(snap))
	require.Equal(t, Render, PublicAlumni(snap).Action)
}

func TestDecisionString(t *testing.T) {
	require.Equal(t, "redirect /admin", redirect(PathAdminLogin).String())
	require.Equal(t, "render", render.String())
	require.Equal(t, "loading", renderLoading.String())
	require.Equal(t, "protected(admin)", ProtectedAdmin.String())
}
