package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alumnet-dev/alumnet/internal/cli/prompt"
	"github.com/alumnet-dev/alumnet/internal/directory"
	"github.com/alumnet-dev/alumnet/internal/guard"
	"github.com/alumnet-dev/alumnet/internal/router"
)

// NewShellCmd creates the interactive shell command
func NewShellCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Browse the portal interactively",
		Long: `Browse the portal page by page. The session is re-validated in the
background on ALUMNET_REFRESH_SCHEDULE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), rt)
		},
	}
}

func runShell(ctx context.Context, rt *Runtime) error {
	stop, err := rt.App.KeepAlive(ctx, rt.Config.Session.RefreshSchedule)
	if err != nil {
		return err
	}
	defer stop()

	routes := router.DefaultRoutes()
	for {
		path, err := prompt.SelectRoute(rt.App.Router.Current(), routes)
		if errors.Is(err, prompt.ErrCancelled) || path == prompt.Exit {
			return nil
		}
		if err != nil {
			return err
		}

		if err := openPage(ctx, rt, path, terminalAsker()); err != nil {
			rt.printf("Error: %v\n", err)
		}
		rt.printf("\n")
	}
}

// openPage visits path and renders whatever page the guards settle on
func openPage(ctx context.Context, rt *Runtime, path string, ask asker) error {
	out, err := rt.App.Visit(ctx, path)
	if err != nil {
		return err
	}

	title := rt.App.Router.Lookup(out.Path).Title
	if out.Redirected() {
		rt.printf("→ %s (%s)\n\n", title, hint(out))
	} else {
		rt.printf("%s\n\n", title)
	}

	switch out.Path {
	case guard.PathRoot:
		return runWhoami(rt)
	case guard.PathAlumniProfile:
		return runProfile(ctx, rt)
	case guard.PathAlumniDashboard:
		return runDashboard(ctx, rt)
	case guard.PathAlumniDirectory:
		return runDirectory(ctx, rt, directory.Filter{})
	case guard.PathAlumniMap:
		return runMap(ctx, rt)
	case guard.PathAdminDashboard, guard.PathAdminApprovals:
		return runPending(ctx, rt)
	case guard.PathAlumniLogin, guard.PathAdminLogin:
		return shellLogin(ctx, rt, out.Path == guard.PathAdminLogin, ask)
	case guard.PathAlumniRegister:
		if user := rt.App.Session.Current(); user != nil {
			rt.printf("Signed in as %s; status: %s.\n", user.Email, user.Status())
			return nil
		}
		if ask == nil {
			return fmt.Errorf("registration needs an interactive terminal")
		}
		form, err := askRegistration()
		if err != nil {
			return err
		}
		return runRegister(ctx, rt, form)
	case guard.PathAlumniForgotPassword:
		return runForgotPassword(ctx, rt, lastEmail(rt.Config), "", "", ask)
	default:
		return nil
	}
}

func shellLogin(ctx context.Context, rt *Runtime, admin bool, ask asker) error {
	if user := rt.App.Session.Current(); user != nil {
		rt.printf("Signed in as %s; status: %s.\n", user.Email, user.Status())
		return nil
	}
	if ask == nil {
		rt.printf("Not signed in.\n")
		return nil
	}

	email, err := ask("Email", false)
	if err != nil {
		return err
	}
	password, err := ask("Password", true)
	if err != nil {
		return err
	}
	return runLogin(ctx, rt, email, password, admin)
}
