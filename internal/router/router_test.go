package router

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/alumnet-dev/alumnet/internal/guard"
	"github.com/alumnet-dev/alumnet/internal/models"
	"github.com/alumnet-dev/alumnet/internal/session"
)

func newRouter() *Router {
	return New(DefaultRoutes(), guard.PathRoot, zerolog.Nop())
}

func TestNavigate(t *testing.T) {
	r := newRouter()

	require.True(t, r.Navigate("/alumni/login", false))
	require.False(t, r.Navigate("/alumni/login", true), "navigating to the current route is a no-op")
	require.True(t, r.Navigate("/alumni/profile", true))

	require.Equal(t, "/alumni/profile", r.Current())
	require.Equal(t, []string{"/", "/alumni/profile"}, r.History())
	require.Len(t, r.Navigations(), 2)

	require.True(t, r.Back())
	require.Equal(t, "/", r.Current())
	require.False(t, r.Back())
}

func TestNavigateCleansPath(t *testing.T) {
	r := newRouter()
	r.Navigate("alumni/map/", false)
	require.Equal(t, "/alumni/map", r.Current())
	require.True(t, r.Navigate("", false))
	require.Equal(t, "/", r.Current())
}

func TestLookup(t *testing.T) {
	r := newRouter()

	require.Equal(t, guard.PublicOnlyAdmin, r.Lookup("/admin").Guard)
	require.Equal(t, guard.ProtectedAdmin, r.Lookup("/admin/dashboard").Guard)
	require.Equal(t, guard.ProtectedAdmin, r.Lookup("/admin/settings").Guard)
	require.Equal(t, guard.Unguarded, r.Lookup("/administrator").Guard)
	require.Equal(t, guard.Unguarded, r.Lookup("/alumni/forgot-password").Guard)
	require.Equal(t, guard.ProtectedAlumni, r.Lookup("/alumni/directory").Guard)
}

func TestVisit(t *testing.T) {
	pending := &models.Alumni{Email: "p@example.com"}
	alumnus := &models.Alumni{Email: "a@example.com", IsApproved: true}
	admin := &models.Alumni{Email: "root@example.com", IsAdmin: true, IsApproved: true}

	tests := []struct {
		name      string
		path      string
		snap      session.Snapshot
		wantPath  string
		action    guard.Action
		redirects int
	}{
		{"loading profile renders nothing", "/alumni/profile", session.Snapshot{Loading: true}, "/alumni/profile", guard.RenderNothing, 0},
		{"anonymous profile goes to login", "/alumni/profile", session.Snapshot{}, "/alumni/login", guard.Render, 1},
		{"pending profile goes to register", "/alumni/profile", session.Snapshot{User: pending}, "/alumni/register", guard.Render, 1},
		{"approved login goes to profile", "/alumni/login", session.Snapshot{User: alumnus}, "/alumni/profile", guard.Render, 1},
		{"admin login page goes to dashboard", "/admin", session.Snapshot{User: admin}, "/admin/dashboard", guard.Render, 1},
		{"alumni on admin page goes to profile", "/admin/dashboard", session.Snapshot{User: alumnus}, "/alumni/profile", guard.Render, 1},
		{"pending on admin page ends at register", "/admin/dashboard", session.Snapshot{User: pending}, "/alumni/register", guard.Render, 2},
		{"forgot password is open", "/alumni/forgot-password", session.Snapshot{}, "/alumni/forgot-password", guard.Render, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter()
			out, err := r.Visit(tt.path, tt.snap)
			require.NoError(t, err)
			require.Equal(t, tt.wantPath, out.Path)
			require.Equal(t, tt.action, out.Action)
			require.Len(t, out.Redirects, tt.redirects)
			require.Equal(t, tt.wantPath, r.Current())
			require.Equal(t, tt.redirects == 0 && tt.action == guard.Render, out.Rendered())
		})
	}
}

func TestVisitRedirectReplacesHistory(t *testing.T) {
	r := newRouter()
	_, err := r.Visit("/alumni/profile", session.Snapshot{})
	require.NoError(t, err)
	require.Equal(t, []string{"/", "/alumni/login"}, r.History())
}

func TestVisitDetectsLoop(t *testing.T) {
	routes := []Route{
		{Path: "/a", Guard: guard.ProtectedAlumni},
		{Path: "/alumni/login", Guard: guard.ProtectedAdmin},
		{Path: "/admin", Guard: guard.ProtectedAlumni},
	}
	r := New(routes, "/", zerolog.Nop())

	out, err := r.Visit("/a", session.Snapshot{})
	require.ErrorIs(t, err, ErrRedirectLoop)
	require.Len(t, out.Redirects, MaxRedirects)
}
