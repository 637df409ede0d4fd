package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/alumnet-dev/alumnet/internal/app"
	"github.com/alumnet-dev/alumnet/internal/client"
	"github.com/alumnet-dev/alumnet/internal/config"
	"github.com/alumnet-dev/alumnet/internal/forms"
	"github.com/alumnet-dev/alumnet/internal/guard"
	"github.com/alumnet-dev/alumnet/internal/router"
)

// Runtime is shared by every command. The root command opens it before a
// command runs and closes it afterwards.
type Runtime struct {
	Config *config.Config
	App    *app.App
	Out    io.Writer
	Logger zerolog.Logger

	// Options are passed to app.New; tests use them to swap the keyring
	Options []app.Option
}

// Open builds the app and validates the saved session
func (rt *Runtime) Open(ctx context.Context) error {
	if rt.Config == nil {
		return errors.New("configuration not loaded")
	}
	if rt.Out == nil {
		rt.Out = os.Stdout
	}

	a, err := app.New(rt.Config, rt.Logger, rt.Options...)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	rt.App = a

	ctx, cancel := context.WithTimeout(ctx, rt.Config.API.Timeout)
	defer cancel()
	a.Start(ctx)
	return nil
}

// Close saves or forgets the session cookie
func (rt *Runtime) Close() error {
	if rt.App == nil {
		return nil
	}
	if err := rt.App.Close(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (rt *Runtime) printf(format string, args ...any) {
	fmt.Fprintf(rt.Out, format, args...)
}

// describe turns a failed page call into a message for the terminal
func describe(err error) error {
	var re *app.RedirectedError
	if errors.As(err, &re) {
		return fmt.Errorf("%s is not available: %s", re.Outcome.Requested, hint(re.Outcome))
	}

	var fe forms.FieldErrors
	if errors.As(err, &fe) {
		return fmt.Errorf("invalid input: %s", fe.Error())
	}
	return err
}

// hint explains where a guard sent the user
func hint(out router.Outcome) string {
	switch out.Path {
	case guard.PathAlumniLogin:
		return "sign in first with 'alumnet login'"
	case guard.PathAdminLogin:
		return "sign in as an admin with 'alumnet login --admin'"
	case guard.PathAlumniRegister:
		return "your account is pending approval"
	case guard.PathAlumniProfile:
		return "this page needs an admin account"
	default:
		return "redirected to " + out.Path
	}
}

// readPassword prompts for a secret on the terminal
func readPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%s is required in non-interactive mode", strings.ToLower(label))
	}

	fmt.Print(label + ": ")
	b, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return string(b), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// isSignedOut reports whether err just means there is no session
func isSignedOut(err error) bool {
	return client.IsUnauthorized(err) || client.IsEmptyProfile(err)
}
