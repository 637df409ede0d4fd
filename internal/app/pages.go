package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alumnet-dev/alumnet/internal/client"
	"github.com/alumnet-dev/alumnet/internal/forms"
	"github.com/alumnet-dev/alumnet/internal/guard"
	"github.com/alumnet-dev/alumnet/internal/models"
	"github.com/alumnet-dev/alumnet/internal/router"
)

var (
	// ErrNoUserData means a login succeeded without returning an account
	ErrNoUserData = errors.New("login failed: no user data received")
	// ErrNotAdmin rejects an admin login by a regular alumnus
	ErrNotAdmin = errors.New("you do not have admin privileges")
	// ErrNotSignedIn is returned by pages that need a session
	ErrNotSignedIn = errors.New("not signed in")
	// ErrNotApproved rejects an admin login by an unapproved admin
	ErrNotApproved = errors.New("your account is not approved yet")
	// ErrSessionNotEstablished means the backend accepted the credentials
	// but rejected the session cookie right after
	ErrSessionNotEstablished = errors.New("session was not established")
)

// PageError carries the message shown on a page for a failed API call
type PageError struct {
	Message string
	Err     error
}

func (e *PageError) Error() string { return e.Message }

func (e *PageError) Unwrap() error { return e.Err }

func pageError(err error, fallback string) error {
	return &PageError{Message: client.Message(err, fallback), Err: err}
}

// LandingPath is where an alumnus goes after signing in
func LandingPath(a *models.Alumni) string {
	switch {
	case a.IsAdmin:
		return guard.PathAlumniDashboard
	case a.IsApproved:
		return guard.PathAlumniProfile
	default:
		return guard.PathAlumniRegister
	}
}

// LoginAlumni signs in from the alumni login page and lands on the page
// matching the account state.
func (a *App) LoginAlumni(ctx context.Context, form *forms.Login) (router.Outcome, error) {
	if err := forms.Validate(form); err != nil {
		return router.Outcome{}, err
	}

	resp, err := a.Client.Login(ctx, form.Email, form.Password)
	if err != nil {
		return router.Outcome{}, pageError(err, "Invalid email or password")
	}
	if resp.Alumni == nil {
		return router.Outcome{}, ErrNoUserData
	}

	if err := a.Session.Login(ctx, resp.Alumni); err != nil {
		return router.Outcome{}, err
	}
	return a.land(ctx, LandingPath(resp.Alumni))
}

// land visits the page shown after signing in. A session cleared by a
// rejected cookie in the meantime is an error, not a landing.
func (a *App) land(ctx context.Context, path string) (router.Outcome, error) {
	out, err := a.Visit(ctx, path)
	if err != nil {
		return out, err
	}
	if a.Session.Current() == nil {
		return out, fmt.Errorf("%w (redirected to %s)", ErrSessionNotEstablished, out.Path)
	}
	return out, nil
}

// LoginAdmin signs in from the admin login page. Accounts that are not
// approved admins are turned away before the session is seeded, and the
// cookie the backend set for them is dropped.
func (a *App) LoginAdmin(ctx context.Context, form *forms.Login) (router.Outcome, error) {
	if err := forms.Validate(form); err != nil {
		return router.Outcome{}, err
	}

	resp, err := a.Client.Login(ctx, form.Email, form.Password)
	if err != nil {
		msg := "Login failed. Please try again."
		switch client.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			msg = "Invalid email or password"
		case http.StatusForbidden:
			msg = "Admin account is inactive or not approved"
		}
		return router.Outcome{}, pageError(err, msg)
	}

	var reject error
	switch {
	case resp.Alumni == nil:
		reject = ErrNoUserData
	case !resp.Alumni.IsAdmin:
		reject = ErrNotAdmin
	case !resp.Alumni.IsApproved:
		reject = ErrNotApproved
	}
	if reject != nil {
		a.Jar.Reset()
		return router.Outcome{}, reject
	}

	if err := a.Session.Login(ctx, resp.Alumni); err != nil {
		return router.Outcome{}, err
	}
	return a.land(ctx, guard.PathAdminDashboard)
}

// Register creates the account and seeds the session with it. The new
// account is pending until an admin approves it.
func (a *App) Register(ctx context.Context, form *forms.Registration) (*models.Alumni, error) {
	if err := forms.Validate(form); err != nil {
		return nil, err
	}

	resp, err := a.Client.Register(ctx, form.Request())
	if err != nil {
		return nil, pageError(err, "Registration failed. Please try again.")
	}

	if resp.Alumni == nil {
		return nil, ErrNoUserData
	}
	if err := a.Session.Login(ctx, resp.Alumni); err != nil {
		return nil, err
	}
	if err := a.Sync(ctx); err != nil {
		return nil, err
	}

	user := a.Session.Current()
	if user == nil {
		return nil, ErrSessionNotEstablished
	}
	return user, nil
}

// Logout ends the session and returns to the alumni login page
func (a *App) Logout(ctx context.Context) {
	admin := false
	if u := a.Session.Current(); u != nil {
		admin = u.IsAdmin
	}

	a.Session.Logout(ctx)
	a.Jar.Reset()

	target := guard.PathAlumniLogin
	if admin {
		target = guard.PathAdminLogin
	}
	a.Router.Navigate(target, true)
}

// UpdateProfile saves edits to the signed-in profile and refreshes the
// session with the result.
func (a *App) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.Alumni, error) {
	user := a.Session.Current()
	if user == nil {
		return nil, ErrNotSignedIn
	}

	if _, err := a.Client.UpdateProfile(ctx, user.ID, update); err != nil {
		return nil, pageError(err, "Failed to update profile")
	}

	if err := a.Session.Refresh(ctx); err != nil {
		return nil, pageError(err, "Failed to reload profile")
	}
	return a.Session.Current(), nil
}

// ChangePassword changes the password of the signed-in account
func (a *App) ChangePassword(ctx context.Context, form *forms.ChangePassword) error {
	if err := forms.Validate(form); err != nil {
		return err
	}
	if err := a.Client.ChangePassword(ctx, form.CurrentPassword, form.NewPassword); err != nil {
		return pageError(err, "Failed to change password")
	}
	return nil
}

// RequestOTP is step one of the password reset
func (a *App) RequestOTP(ctx context.Context, email string) (string, error) {
	form := &forms.ForgotPassword{Email: email}
	if err := forms.Validate(form); err != nil {
		return "", err
	}
	resp, err := a.Client.ForgotPassword(ctx, form.Email)
	if err != nil {
		return "", pageError(err, "Email not found.")
	}
	return resp.Message, nil
}

// VerifyOTP is step two of the password reset
func (a *App) VerifyOTP(ctx context.Context, form *forms.OTP) error {
	if err := forms.Validate(form); err != nil {
		return err
	}
	if _, err := a.Client.VerifyOTP(ctx, form.Email, form.Code); err != nil {
		return pageError(err, "Invalid or expired OTP.")
	}
	return nil
}

// ResetPassword is the last step of the password reset
func (a *App) ResetPassword(ctx context.Context, otp *forms.OTP, form *forms.ResetPassword) error {
	if err := forms.Validate(otp); err != nil {
		return err
	}
	if err := forms.Validate(form); err != nil {
		return err
	}
	if _, err := a.Client.ResetPassword(ctx, otp.Email, otp.Code, form.Password); err != nil {
		return pageError(err, "Failed to reset password.")
	}
	return nil
}
