package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alumnet-dev/alumnet/internal/cli/prompt"
	"github.com/alumnet-dev/alumnet/internal/forms"
)

// asker reads a value from the user. Nil means non-interactive.
type asker func(label string, secret bool) (string, error)

func terminalAsker() asker {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return func(label string, secret bool) (string, error) {
		if secret {
			return prompt.Secret(label, nil)
		}
		return prompt.Text(label, "", nil)
	}
}

// NewForgotPasswordCmd creates the forgot-password command
func NewForgotPasswordCmd(rt *Runtime) *cobra.Command {
	var email, otp, newPassword string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Reset your password with a one-time code",
		Long: `Reset your password in three steps: request a code by email, verify
the code, then choose a new password. Pass --otp to resume after the code
has arrived.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			email = firstNonEmpty(email, os.Getenv("ALUMNET_EMAIL"), lastEmail(rt.Config))
			return runForgotPassword(cmd.Context(), rt, email, otp, newPassword, terminalAsker())
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (or set ALUMNET_EMAIL)")
	cmd.Flags().StringVar(&otp, "otp", "", "Code received by email")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password (will prompt if not provided)")

	return cmd
}

func runForgotPassword(ctx context.Context, rt *Runtime, email, code, newPassword string, ask asker) error {
	if email == "" && ask != nil {
		var err error
		if email, err = ask("Email", false); err != nil {
			return err
		}
	}
	if email == "" {
		return fmt.Errorf("email is required (use --email flag or ALUMNET_EMAIL env var)")
	}

	// Step 1: request a code
	if code == "" {
		msg, err := rt.App.RequestOTP(ctx, email)
		if err != nil {
			return fmt.Errorf("could not send code: %w", describe(err))
		}
		rt.printf("✓ %s\n", firstNonEmpty(msg, "A code was sent to "+email))

		if ask == nil {
			rt.printf("  Run again with --otp <code> once it arrives.\n")
			return nil
		}
		if code, err = ask("Code", false); err != nil {
			return err
		}
	}

	// Step 2: verify it
	otp := &forms.OTP{Email: email, Code: code}
	if err := rt.App.VerifyOTP(ctx, otp); err != nil {
		return fmt.Errorf("verification failed: %w", describe(err))
	}
	rt.printf("✓ Code verified.\n")

	// Step 3: choose a new password
	reset := &forms.ResetPassword{Password: newPassword, ConfirmPassword: newPassword}
	if newPassword == "" {
		if ask == nil {
			return fmt.Errorf("new password is required in non-interactive mode (use --new-password)")
		}
		var err error
		if reset.Password, err = ask("New password", true); err != nil {
			return err
		}
		if reset.ConfirmPassword, err = ask("Confirm new password", true); err != nil {
			return err
		}
	}

	if err := rt.App.ResetPassword(ctx, otp, reset); err != nil {
		return fmt.Errorf("reset failed: %w", describe(err))
	}
	rt.printf("✓ Password reset. Sign in with 'alumnet login'.\n")
	return nil
}
