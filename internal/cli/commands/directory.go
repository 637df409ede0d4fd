package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alumnet-dev/alumnet/internal/directory"
	"github.com/alumnet-dev/alumnet/internal/models"
)

// NewDirectoryCmd creates the directory command
func NewDirectoryCmd(rt *Runtime) *cobra.Command {
	var f directory.Filter

	cmd := &cobra.Command{
		Use:     "directory",
		Aliases: []string{"ls", "list"},
		Short:   "Search the alumni directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDirectory(cmd.Context(), rt, f)
		},
	}

	cmd.Flags().StringVarP(&f.Search, "search", "s", "", "Match name, email or company")
	cmd.Flags().StringVar(&f.Department, "department", "", "Only this department")
	cmd.Flags().IntVar(&f.Year, "year", 0, "Only this graduation year")

	return cmd
}

func runDirectory(ctx context.Context, rt *Runtime, f directory.Filter) error {
	page, err := rt.App.Directory(ctx, f)
	if err != nil {
		return describe(err)
	}

	if len(page.Visible) == 0 {
		if f.Active() {
			rt.printf("No alumni match your filters.\n")
		} else {
			rt.printf("No alumni found.\n")
		}
		return nil
	}

	rt.printf("Showing %d of %d alumni\n\n", len(page.Visible), len(page.All))
	printAlumni(rt.Out, page.Visible)

	if !f.Active() && len(page.Facets.Departments) > 0 {
		rt.printf("\nDepartments: %v\n", page.Facets.Departments)
	}
	return nil
}

func printAlumni(out io.Writer, list []models.Alumni) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tDEPARTMENT\tYEAR\tCOMPANY\tLOCATION")
	fmt.Fprintln(w, "────\t─────\t──────────\t────\t───────\t────────")

	for i := range list {
		a := &list[i]
		year := ""
		if a.GraduationYear != 0 {
			year = strconv.Itoa(a.GraduationYear)
		}
		location, _ := a.LocationLabel()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.FullName(),
			a.Email,
			a.Department,
			year,
			a.CurrentCompany,
			location,
		)
	}

	w.Flush()
}

// NewMapCmd creates the map command
func NewMapCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Show where alumni are located",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(cmd.Context(), rt)
		},
	}
}

func runMap(ctx context.Context, rt *Runtime) error {
	page, err := rt.App.Map(ctx)
	if err != nil {
		return describe(err)
	}

	rt.printf("%d alumni in %d countries and %d cities\n",
		page.Stats.TotalAlumni, page.Stats.CountriesRepresented, page.Stats.CitiesRepresented)
	if len(page.Points) == 0 {
		return nil
	}

	b := page.Bounds
	rt.printf("Bounds: lon %.2f..%.2f, lat %.2f..%.2f\n\n", b.MinLon, b.MaxLon, b.MinLat, b.MaxLat)

	w := tabwriter.NewWriter(rt.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tNAME\tLOCATION\tLON\tLAT")
	for _, p := range page.Points {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.4f\t%.4f\n", p.Alumni.Initials(), p.Alumni.FullName(), p.Label, p.Lon, p.Lat)
	}
	w.Flush()
	return nil
}
