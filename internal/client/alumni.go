package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/alumnet-dev/alumnet/internal/models"
)

// ListAlumni returns the approved alumni shown in the directory
func (c *Client) ListAlumni(ctx context.Context) ([]models.Alumni, error) {
	var resp models.AlumniList
	if err := c.doJSON(ctx, http.MethodGet, "/alumni", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Alumni, nil
}

// MapData returns the alumni locations and summary stats for the map
func (c *Client) MapData(ctx context.Context) (*models.MapData, error) {
	var resp models.MapResponse
	if err := c.doJSON(ctx, http.MethodGet, "/alumni/map", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateProfile saves profile edits. The returned record is nil when the
// backend does not echo it back.
func (c *Client) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.Alumni, error) {
	if id == "" {
		return nil, fmt.Errorf("profile id is required")
	}

	data, err := c.do(ctx, http.MethodPut, "/alumni/"+url.PathEscape(id), update)
	if err != nil {
		return nil, err
	}

	alumni, err := models.ExtractUpdatedAlumni(data)
	if errors.Is(err, models.ErrEmptyRecord) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read updated profile: %w", err)
	}
	return alumni, nil
}

// PendingAlumni lists registrations awaiting approval (admin only)
func (c *Client) PendingAlumni(ctx context.Context) ([]models.Alumni, error) {
	var resp models.AlumniList
	if err := c.doJSON(ctx, http.MethodGet, "/admin/alumni/pending", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Alumni, nil
}

// ApproveAlumni approves a pending registration (admin only)
func (c *Client) ApproveAlumni(ctx context.Context, id string) (*models.Alumni, error) {
	if id == "" {
		return nil, fmt.Errorf("alumni id is required")
	}

	var resp struct {
		Alumni *models.Alumni `json:"alumni"`
	}
	if err := c.doJSON(ctx, http.MethodPatch, "/admin/alumni/"+url.PathEscape(id)+"/approve", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Alumni, nil
}
