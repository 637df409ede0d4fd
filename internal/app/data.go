package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alumnet-dev/alumnet/internal/directory"
	"github.com/alumnet-dev/alumnet/internal/guard"
	"github.com/alumnet-dev/alumnet/internal/models"
	"github.com/alumnet-dev/alumnet/internal/router"
)

// RedirectedError is returned when a guard sends the visitor elsewhere
// instead of rendering the requested page.
type RedirectedError struct {
	Outcome router.Outcome
}

func (e *RedirectedError) Error() string {
	return fmt.Sprintf("%s is not available, redirected to %s", e.Outcome.Requested, e.Outcome.Path)
}

// enter visits path and fails unless the page itself renders
func (a *App) enter(ctx context.Context, path string) error {
	out, err := a.Visit(ctx, path)
	if err != nil {
		return err
	}
	if !out.Rendered() {
		return &RedirectedError{Outcome: out}
	}
	return nil
}

// DirectoryPage is the data shown on the directory page
type DirectoryPage struct {
	All     []models.Alumni
	Visible []models.Alumni
	Facets  directory.Facets
}

// Directory loads the alumni directory and applies f
func (a *App) Directory(ctx context.Context, f directory.Filter) (*DirectoryPage, error) {
	if err := a.enter(ctx, guard.PathAlumniDirectory); err != nil {
		return nil, err
	}

	all, err := a.Client.ListAlumni(ctx)
	if err != nil {
		return nil, pageError(err, "Failed to load alumni directory")
	}
	return &DirectoryPage{All: all, Visible: f.Apply(all), Facets: directory.BuildFacets(all)}, nil
}

// MapPage is the data shown on the alumni map
type MapPage struct {
	Points []directory.Point
	Stats  models.MapStats
	Bounds directory.Bounds
}

// Map loads the located alumni
func (a *App) Map(ctx context.Context) (*MapPage, error) {
	if err := a.enter(ctx, guard.PathAlumniMap); err != nil {
		return nil, err
	}
	return a.loadMap(ctx)
}

func (a *App) loadMap(ctx context.Context) (*MapPage, error) {
	data, err := a.Client.MapData(ctx)
	if err != nil {
		return nil, pageError(err, "Failed to load map data")
	}
	points := directory.Points(data.Alumni)
	bounds, _ := directory.BoundsOf(points)
	return &MapPage{Points: points, Stats: directory.Summary(data), Bounds: bounds}, nil
}

// Dashboard is the alumni landing overview
type Dashboard struct {
	Profile   *models.Alumni
	Directory int
	Map       models.MapStats
}

// Dashboard loads the profile, directory size and map summary concurrently
func (a *App) Dashboard(ctx context.Context) (*Dashboard, error) {
	if err := a.enter(ctx, guard.PathAlumniDashboard); err != nil {
		return nil, err
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		profile, err := a.Client.Profile(gctx)
		if err != nil {
			return pageError(err, "Failed to load profile")
		}
		d.Profile = profile
		return nil
	})
	g.Go(func() error {
		list, err := a.Client.ListAlumni(gctx)
		if err != nil {
			return pageError(err, "Failed to load alumni directory")
		}
		d.Directory = len(list)
		return nil
	})
	g.Go(func() error {
		page, err := a.loadMap(gctx)
		if err != nil {
			return err
		}
		d.Map = page.Stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

// PendingApprovals lists accounts waiting for an admin
func (a *App) PendingApprovals(ctx context.Context) ([]models.Alumni, error) {
	if err := a.enter(ctx, guard.PathAdminApprovals); err != nil {
		return nil, err
	}

	pending, err := a.Client.PendingAlumni(ctx)
	if err != nil {
		return nil, pageError(err, "Failed to load pending approvals")
	}
	return pending, nil
}

// Approve approves a pending account
func (a *App) Approve(ctx context.Context, id string) (*models.Alumni, error) {
	if err := a.enter(ctx, guard.PathAdminApprovals); err != nil {
		return nil, err
	}

	approved, err := a.Client.ApproveAlumni(ctx, id)
	if err != nil {
		return nil, pageError(err, "Failed to approve alumni")
	}
	return approved, nil
}
