package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alumnet-dev/alumnet/internal/cli/prompt"
	"github.com/alumnet-dev/alumnet/internal/forms"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an alumni account",
		Long: `Create an alumni account in two steps: account details, then your
profile. New accounts wait for an admin to approve them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := askRegistration()
			if err != nil {
				return err
			}
			return runRegister(cmd.Context(), rt, form)
		},
	}
}

func required(label string) func(string) error {
	return func(s string) error {
		if s == "" {
			return errors.New(label + " required")
		}
		return nil
	}
}

func askRegistration() (*forms.Registration, error) {
	var reg forms.Registration
	var err error

	// Step 1: account
	steps := []struct {
		label string
		dst   *string
		check func(string) error
	}{
		{"First name", &reg.FirstName, required("First name")},
		{"Last name", &reg.LastName, required("Last name")},
		{"Email", &reg.Email, required("Email")},
	}
	for _, s := range steps {
		if *s.dst, err = prompt.Text(s.label, "", s.check); err != nil {
			return nil, err
		}
	}
	if reg.Account.Password, err = prompt.Secret("Password", nil); err != nil {
		return nil, err
	}
	if reg.ConfirmPassword, err = prompt.Secret("Confirm password", nil); err != nil {
		return nil, err
	}
	if err := forms.Validate(&reg.Account); err != nil {
		return nil, describe(err)
	}

	// Step 2: profile
	optional := []struct {
		label string
		dst   *string
	}{
		{"Phone", &reg.Phone},
		{"Roll number", &reg.RollNumber},
		{"Current company", &reg.CurrentCompany},
		{"Job title", &reg.JobTitle},
		{"Country", &reg.Country},
		{"City", &reg.City},
		{"Full address", &reg.FullAddress},
		{"LinkedIn URL", &reg.LinkedIn},
	}
	if reg.Department, err = prompt.Text("Department", "", required("Department")); err != nil {
		return nil, err
	}
	if reg.GraduationYear, err = prompt.Int("Graduation year", 0); err != nil {
		return nil, err
	}
	for _, s := range optional {
		if *s.dst, err = prompt.Text(s.label, "", nil); err != nil {
			return nil, err
		}
	}

	coords, err := prompt.Text("Location (lon,lat)", "", func(s string) error {
		if s == "" {
			return nil
		}
		_, err := forms.ParseCoordinates(s)
		return err
	})
	if err != nil {
		return nil, err
	}
	if coords != "" {
		reg.Coordinates, _ = forms.ParseCoordinates(coords)
	}

	return &reg, nil
}

func runRegister(ctx context.Context, rt *Runtime, form *forms.Registration) error {
	user, err := rt.App.Register(ctx, form)
	if err != nil {
		return fmt.Errorf("registration failed: %w", describe(err))
	}
	if user == nil {
		return fmt.Errorf("registration failed: no account data received")
	}

	rt.printf("✓ Registered %s <%s>\n", user.FullName(), user.Email)
	if !user.IsApproved {
		rt.printf("  Your account is pending approval. You will get access once an admin approves it.\n")
	}
	return nil
}
