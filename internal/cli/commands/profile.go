package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alumnet-dev/alumnet/internal/cli/prompt"
	"github.com/alumnet-dev/alumnet/internal/forms"
	"github.com/alumnet-dev/alumnet/internal/guard"
	"github.com/alumnet-dev/alumnet/internal/models"
)

// NewProfileCmd creates the profile command and its subcommands
func NewProfileCmd(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd.Context(), rt)
		},
	}

	cmd.AddCommand(newProfileEditCmd(rt))
	cmd.AddCommand(newProfilePasswordCmd(rt))
	return cmd
}

func runProfile(ctx context.Context, rt *Runtime) error {
	out, err := rt.App.Visit(ctx, guard.PathAlumniProfile)
	if err != nil {
		return err
	}
	if !out.Rendered() {
		return fmt.Errorf("profile is not available: %s", hint(out))
	}

	printProfile(rt.Out, rt.App.Session.Current())
	return nil
}

func printProfile(w io.Writer, a *models.Alumni) {
	location, _ := a.LocationLabel()

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", a.FullName())
	fmt.Fprintf(tw, "Email\t%s\n", a.Email)
	fmt.Fprintf(tw, "Status\t%s\n", a.Status())
	fmt.Fprintf(tw, "Department\t%s\n", a.Department)
	if a.GraduationYear != 0 {
		fmt.Fprintf(tw, "Class of\t%d\n", a.GraduationYear)
	}
	for _, row := range [][2]string{
		{"Roll number", a.RollNumber},
		{"Phone", a.Phone},
		{"Company", a.CurrentCompany},
		{"Job title", a.JobTitle},
		{"Location", location},
		{"Address", a.FullAddress},
		{"LinkedIn", a.LinkedIn},
	} {
		if row[1] != "" {
			fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
		}
	}
	tw.Flush()
}

type profileFlags struct {
	firstName, lastName, phone, department string
	company, jobTitle, country, city       string
	address, linkedin, coordinates         string
	graduationYear                         int
}

func newProfileEditCmd(rt *Runtime) *cobra.Command {
	var f profileFlags

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Update profile fields",
		Example: `  alumnet profile edit --company "Analytical Engines" --title Engineer
  alumnet profile edit --city London --country UK --coordinates=-0.12,51.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := f.update(cmd)
			if err != nil {
				return err
			}
			return runProfileEdit(cmd.Context(), rt, update)
		},
	}

	cmd.Flags().StringVar(&f.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&f.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&f.department, "department", "", "Department")
	cmd.Flags().IntVar(&f.graduationYear, "year", 0, "Graduation year")
	cmd.Flags().StringVar(&f.company, "company", "", "Current company")
	cmd.Flags().StringVar(&f.jobTitle, "title", "", "Job title")
	cmd.Flags().StringVar(&f.country, "country", "", "Country")
	cmd.Flags().StringVar(&f.city, "city", "", "City")
	cmd.Flags().StringVar(&f.address, "address", "", "Full address")
	cmd.Flags().StringVar(&f.linkedin, "linkedin", "", "LinkedIn URL")
	cmd.Flags().StringVar(&f.coordinates, "coordinates", "", "Location as lon,lat")

	return cmd
}

// update includes only the flags that were set
func (f *profileFlags) update(cmd *cobra.Command) (models.ProfileUpdate, error) {
	var u models.ProfileUpdate
	changed := false
	str := func(name string, v string) *string {
		if cmd.Flags().Changed(name) {
			changed = true
			return &v
		}
		return nil
	}

	u.FirstName = str("first-name", f.firstName)
	u.LastName = str("last-name", f.lastName)
	u.Phone = str("phone", f.phone)
	u.Department = str("department", f.department)
	u.CurrentCompany = str("company", f.company)
	u.JobTitle = str("title", f.jobTitle)
	u.Country = str("country", f.country)
	u.City = str("city", f.city)
	u.FullAddress = str("address", f.address)
	u.LinkedIn = str("linkedin", f.linkedin)
	if cmd.Flags().Changed("year") {
		changed = true
		year := f.graduationYear
		u.GraduationYear = &year
	}
	if cmd.Flags().Changed("coordinates") {
		coords, err := forms.ParseCoordinates(f.coordinates)
		if err != nil {
			return u, err
		}
		u.Coordinates = coords
		changed = true
	}

	if !changed {
		return u, fmt.Errorf("nothing to update; see 'alumnet profile edit --help'")
	}
	return u, nil
}

func runProfileEdit(ctx context.Context, rt *Runtime, update models.ProfileUpdate) error {
	out, err := rt.App.Visit(ctx, guard.PathAlumniProfile)
	if err != nil {
		return err
	}
	if !out.Rendered() {
		return fmt.Errorf("profile is not available: %s", hint(out))
	}

	user, err := rt.App.UpdateProfile(ctx, update)
	if err != nil {
		return fmt.Errorf("update failed: %w", describe(err))
	}

	rt.printf("✓ Profile updated.\n\n")
	printProfile(rt.Out, user)
	return nil
}

func newProfilePasswordCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Change your password",
		RunE: func(cmd *cobra.Command, args []string) error {
			var form forms.ChangePassword
			var err error
			if form.CurrentPassword, err = prompt.Secret("Current password", nil); err != nil {
				return err
			}
			if form.NewPassword, err = prompt.Secret("New password", nil); err != nil {
				return err
			}
			if form.ConfirmPassword, err = prompt.Secret("Confirm new password", nil); err != nil {
				return err
			}
			return runChangePassword(cmd.Context(), rt, &form)
		},
	}
}

func runChangePassword(ctx context.Context, rt *Runtime, form *forms.ChangePassword) error {
	if rt.App.Session.Current() == nil {
		return fmt.Errorf("not signed in; run 'alumnet login' first")
	}
	if err := rt.App.ChangePassword(ctx, form); err != nil {
		return fmt.Errorf("password change failed: %w", describe(err))
	}
	rt.printf("✓ Password changed.\n")
	return nil
}
