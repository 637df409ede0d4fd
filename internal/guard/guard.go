// Package guard decides, from a session snapshot alone, whether a route
// renders or redirects. Guards never perform I/O and never fail.
package guard

import (
	"fmt"

	"github.com/alumnet-dev/alumnet/internal/session"
)

// Route paths referenced by the guards and the event bridge
const (
	PathRoot                 = "/"
	PathAlumniRegister       = "/alumni/register"
	PathAlumniLogin          = "/alumni/login"
	PathAlumniForgotPassword = "/alumni/forgot-password"
	PathAlumniProfile        = "/alumni/profile"
	PathAlumniDashboard      = "/alumni/dashboard"
	PathAlumniDirectory      = "/alumni/directory"
	PathAlumniMap            = "/alumni/map"
	PathAdminLogin           = "/admin"
	PathAdminDashboard       = "/admin/dashboard"
	PathAdminApprovals       = "/admin/approvals"
)

// Kind selects which guard protects a route
type Kind int

const (
	Unguarded Kind = iota
	PublicOnlyAlumni
	PublicOnlyAdmin
	ProtectedAlumni
	ProtectedAdmin
)

func (k Kind) String() string {
	switch k {
	case Unguarded:
		return "unguarded"
	case PublicOnlyAlumni:
		return "public-only(alumni)"
	case PublicOnlyAdmin:
		return "public-only(admin)"
	case ProtectedAlumni:
		return "protected(alumni)"
	case ProtectedAdmin:
		return "protected(admin)"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Action is what the route should do
type Action int

const (
	// Render shows the page
	Render Action = iota
	// RenderLoading shows the loading placeholder while the session is checked
	RenderLoading
	// RenderNothing shows nothing, so protected content never flashes
	RenderNothing
	// Redirect replaces the current route with Decision.Target
	Redirect
)

func (a Action) String() string {
	switch a {
	case Render:
		return "render"
	case RenderLoading:
		return "loading"
	case RenderNothing:
		return "nothing"
	case Redirect:
		return "redirect"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decision is the outcome of a guard
type Decision struct {
	Action Action
	Target string // set only for Redirect
}

func (d Decision) String() string {
	if d.Action == Redirect {
		return "redirect " + d.Target
	}
	return d.Action.String()
}

var (
	render        = Decision{Action: Render}
	renderLoading = Decision{Action: RenderLoading}
	renderNothing = Decision{Action: RenderNothing}
)

func redirect(target string) Decision {
	return Decision{Action: Redirect, Target: target}
}

// Evaluate runs the guard of the given kind
func Evaluate(kind Kind, s session.Snapshot) Decision {
	switch kind {
	case PublicOnlyAlumni:
		return PublicAlumni(s)
	case PublicOnlyAdmin:
		return PublicAdmin(s)
	case ProtectedAlumni:
		return Alumni(s)
	case ProtectedAdmin:
		return Admin(s)
	default:
		return render
	}
}

// PublicAlumni keeps signed-in alumni away from the login and registration
// pages. Pending registrants may still see them.
func PublicAlumni(s session.Snapshot) Decision {
	switch {
	case s.Loading:
		return renderLoading
	case s.User == nil:
		return render
	case s.User.IsAdmin:
		return redirect(PathAdminDashboard)
	case s.User.IsApproved:
		return redirect(PathAlumniProfile)
	default:
		return render
	}
}

// PublicAdmin keeps approved admins away from the admin login page
func PublicAdmin(s session.Snapshot) Decision {
	switch {
	case s.Loading:
		return renderLoading
	case s.User != nil && s.User.IsAdmin && s.User.IsApproved:
		return redirect(PathAdminDashboard)
	default:
		return render
	}
}

// Alumni protects pages that need an approved account
func Alumni(s session.Snapshot) Decision {
	switch {
	case s.Loading:
		return renderNothing
	case s.User == nil:
		return redirect(PathAlumniLogin)
	case !s.User.IsApproved:
		return redirect(PathAlumniRegister)
	default:
		return render
	}
}

// Admin protects admin pages. The role check runs before the approval check;
// an unapproved admin is sent back to the admin login.
func Admin(s session.Snapshot) Decision {
	switch {
	case s.Loading:
		return renderNothing
	case s.User == nil:
		return redirect(PathAdminLogin)
	case !s.User.IsAdmin:
		return redirect(PathAlumniProfile)
	case !s.User.IsApproved:
		return redirect(PathAdminLogin)
	default:
		return render
	}
}
