// Package router is the client-side navigation stack. Routes are bound to a
// guard kind; Visit resolves the guard decision for a path against a session
// snapshot and follows redirects.
package router

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alumnet-dev/alumnet/internal/guard"
	"github.com/alumnet-dev/alumnet/internal/session"
)

// MaxRedirects bounds how many redirects one Visit follows
const MaxRedirects = 8

// ErrRedirectLoop is returned by Visit when redirects do not settle
var ErrRedirectLoop = errors.New("too many redirects")

// Route binds a path to the guard that protects it
type Route struct {
	Path  string
	Guard guard.Kind
	Title string
}

// DefaultRoutes is the route surface of the portal
func DefaultRoutes() []Route {
	return []Route{
		{Path: guard.PathRoot, Guard: guard.Unguarded, Title: "Home"},
		{Path: guard.PathAlumniRegister, Guard: guard.PublicOnlyAlumni, Title: "Register"},
		{Path: guard.PathAlumniLogin, Guard: guard.PublicOnlyAlumni, Title: "Alumni login"},
		{Path: guard.PathAlumniForgotPassword, Guard: guard.Unguarded, Title: "Forgot password"},
		{Path: guard.PathAlumniProfile, Guard: guard.ProtectedAlumni, Title: "Profile"},
		{Path: guard.PathAlumniDashboard, Guard: guard.ProtectedAlumni, Title: "Dashboard"},
		{Path: guard.PathAlumniDirectory, Guard: guard.ProtectedAlumni, Title: "Directory"},
		{Path: guard.PathAlumniMap, Guard: guard.ProtectedAlumni, Title: "Alumni map"},
		{Path: guard.PathAdminLogin, Guard: guard.PublicOnlyAdmin, Title: "Admin login"},
		{Path: guard.PathAdminDashboard, Guard: guard.ProtectedAdmin, Title: "Admin dashboard"},
		{Path: guard.PathAdminApprovals, Guard: guard.ProtectedAdmin, Title: "Pending approvals"},
	}
}

// Navigation records one effective move of the router
type Navigation struct {
	From    string
	To      string
	Replace bool
}

// Outcome is the result of visiting a path
type Outcome struct {
	Requested string
	Path      string // route that ended up current
	Action    guard.Action
	Redirects []string
}

// Rendered reports whether the requested page itself is shown
func (o Outcome) Rendered() bool {
	return o.Action == guard.Render && o.Path == o.Requested
}

// Redirected reports whether at least one redirect happened
func (o Outcome) Redirected() bool {
	return len(o.Redirects) > 0
}

// Router holds the current route and the history stack. Safe for concurrent
// use; the event bridge navigates from its own goroutine.
type Router struct {
	routes map[string]Route
	logger zerolog.Logger

	mu          sync.Mutex
	history     []string
	navigations []Navigation
}

// New creates a router positioned at start
func New(routes []Route, start string, logger zerolog.Logger) *Router {
	r := &Router{
		routes:  make(map[string]Route, len(routes)),
		logger:  logger,
		history: []string{start},
	}
	for _, route := range routes {
		r.routes[route.Path] = route
	}
	return r
}

// Lookup returns the route registered for path. Unregistered paths under
// /admin/ are protected as admin pages; anything else is unguarded.
func (r *Router) Lookup(path string) Route {
	path = clean(path)
	if route, ok := r.routes[path]; ok {
		return route
	}
	if strings.HasPrefix(path, guard.PathAdminLogin+"/") {
		return Route{Path: path, Guard: guard.ProtectedAdmin}
	}
	return Route{Path: path, Guard: guard.Unguarded}
}

// Current returns the current route path
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history[len(r.history)-1]
}

// History returns a copy of the history stack, oldest first
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// Navigations returns every effective navigation so far
func (r *Router) Navigations() []Navigation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Navigation(nil), r.navigations...)
}

// Navigate moves to path. With replace the current history entry is
// overwritten. Navigating to the current route does nothing and returns
// false.
func (r *Router) Navigate(path string, replace bool) bool {
	path = clean(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	from := r.history[len(r.history)-1]
	if from == path {
		return false
	}

	if replace {
		r.history[len(r.history)-1] = path
	} else {
		r.history = append(r.history, path)
	}
	r.navigations = append(r.navigations, Navigation{From: from, To: path, Replace: replace})

	r.logger.Debug().Str("from", from).Str("to", path).Bool("replace", replace).Msg("Navigate")
	return true
}

// Back pops the history stack. It returns false when there is nowhere to go.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) < 2 {
		return false
	}
	r.history = r.history[:len(r.history)-1]
	return true
}

// Visit navigates to path and applies guards until a route renders. Each
// redirect replaces the current history entry.
func (r *Router) Visit(path string, snap session.Snapshot) (Outcome, error) {
	path = clean(path)
	out := Outcome{Requested: path, Path: path}

	r.Navigate(path, false)

	for {
		decision := guard.Evaluate(r.Lookup(out.Path).Guard, snap)
		if decision.Action != guard.Redirect {
			out.Action = decision.Action
			return out, nil
		}

		if len(out.Redirects) >= MaxRedirects {
			return out, fmt.Errorf("%w visiting %s: %s", ErrRedirectLoop, path, strings.Join(out.Redirects, " -> "))
		}

		out.Redirects = append(out.Redirects, decision.Target)
		out.Path = decision.Target
		r.Navigate(decision.Target, true)
	}
}

func clean(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return guard.PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
