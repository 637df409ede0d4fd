package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// NewDashboardCmd creates the dashboard command
func NewDashboardCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash"},
		Short:   "Show an overview of your account and the network",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), rt)
		},
	}
}

func runDashboard(ctx context.Context, rt *Runtime) error {
	d, err := rt.App.Dashboard(ctx)
	if err != nil {
		return describe(err)
	}

	rt.printf("Welcome back, %s\n\n", d.Profile.FullName())
	rt.printf("  Status:     %s\n", d.Profile.Status())
	rt.printf("  Directory:  %d alumni\n", d.Directory)
	rt.printf("  On the map: %d alumni in %d countries\n", d.Map.TotalAlumni, d.Map.CountriesRepresented)
	return nil
}
