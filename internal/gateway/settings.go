package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/schedulify/schedulify-cli/internal/models"
)

// Settings fetches the school's generation settings.
func (c *Client) Settings(ctx context.Context, schoolID string) (*models.SchoolSettings, error) {
	var settings models.SchoolSettings
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/settings/%s", schoolID), nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings replaces the school's generation settings.
func (c *Client) UpdateSettings(ctx context.Context, schoolID string, settings models.SchoolSettings) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/settings/%s", schoolID), settings, nil)
}

// ResetSettings restores server defaults.
func (c *Client) ResetSettings(ctx context.Context, schoolID string) error {
	return c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/settings/%s/reset", schoolID), nil, nil)
}
