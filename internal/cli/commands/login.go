package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alumnet-dev/alumnet/internal/app"
	"github.com/alumnet-dev/alumnet/internal/config"
	"github.com/alumnet-dev/alumnet/internal/forms"
)

// NewLoginCmd creates the login command
func NewLoginCmd(rt *Runtime) *cobra.Command {
	cmd := newLoginCmd(rt, false)
	cmd.Short = "Sign in to the alumni portal"
	return cmd
}

func newLoginCmd(rt *Runtime, asAdmin bool) *cobra.Command {
	var email, password string
	admin := asAdmin

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for environment variables (useful for scripts)
			email = firstNonEmpty(email, os.Getenv("ALUMNET_EMAIL"), lastEmail(rt.Config))
			password = firstNonEmpty(password, os.Getenv("ALUMNET_PASSWORD"))

			if email == "" {
				return fmt.Errorf("email is required (use --email flag or ALUMNET_EMAIL env var)")
			}
			if password == "" {
				p, err := readPassword("Password")
				if err != nil {
					return fmt.Errorf("%w (use --password flag or ALUMNET_PASSWORD env var)", err)
				}
				password = p
			}

			return runLogin(cmd.Context(), rt, email, password, admin)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set ALUMNET_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set ALUMNET_PASSWORD, will prompt if not provided)")
	if !asAdmin {
		cmd.Flags().BoolVar(&admin, "admin", false, "Sign in through the admin login")
	}

	return cmd
}

func lastEmail(cfg *config.Config) string {
	if cfg == nil || cfg.UserFile == "" {
		return ""
	}
	user, err := config.LoadUserConfig(cfg.UserFile)
	if err != nil {
		return ""
	}
	return user.LastEmail
}

func runLogin(ctx context.Context, rt *Runtime, email, password string, admin bool) error {
	form := &forms.Login{Email: email, Password: password}

	rt.printf("Signing in to %s...\n", rt.Config.API.URL)

	login := rt.App.LoginAlumni
	if admin {
		login = rt.App.LoginAdmin
	}
	out, err := login(ctx, form)
	if err != nil {
		return fmt.Errorf("login failed: %w", describe(err))
	}

	if rt.Config.UserFile != "" {
		if err := config.RememberEmail(rt.Config.UserFile, form.Email); err != nil {
			rt.Logger.Warn().Err(err).Msg("Failed to remember email")
		}
	}

	user := rt.App.Session.Current()
	if user == nil {
		return fmt.Errorf("login failed: session was not established (redirected to %s)", out.Path)
	}
	rt.printf("✓ Login successful!\n")
	rt.printf("  User:   %s (%s)\n", user.FullName(), user.Email)
	rt.printf("  Status: %s\n", user.Status())
	rt.printf("  Page:   %s\n", out.Path)
	return nil
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context(), rt)
		},
	}
}

func runLogout(ctx context.Context, rt *Runtime) error {
	if rt.App.Session.Current() == nil {
		rt.printf("Not signed in.\n")
		return nil
	}
	rt.App.Logout(ctx)
	rt.printf("✓ Signed out.\n")
	return nil
}

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(rt)
		},
	}
}

func runWhoami(rt *Runtime) error {
	user := rt.App.Session.Current()
	if user == nil {
		if err := rt.App.Session.BootstrapErr(); err != nil && !isSignedOut(err) {
			return fmt.Errorf("could not check the session: %w", err)
		}
		rt.printf("Not signed in.\n")
		return nil
	}

	rt.printf("%s <%s>\n", user.FullName(), user.Email)
	rt.printf("Status: %s\n", user.Status())
	rt.printf("Home:   %s\n", app.LandingPath(user))
	return nil
}
