package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/schedulify/schedulify-cli/internal/models"
)

type timetablePayload struct {
	Timetable models.Week `json:"timetable"`
}

// Generate triggers server-side timetable generation for the whole school.
// This is a single long-running call bounded by the client timeout; there is
// no polling or cancellation, a timed-out call may simply be retried.
func (c *Client) Generate(ctx context.Context, schoolID string) (string, error) {
	return c.doText(ctx, http.MethodPost, fmt.Sprintf("/timetable/generate/school/%s", schoolID))
}

// ClassTimetable fetches the sparse weekly slots for one class section.
func (c *Client) ClassTimetable(ctx context.Context, schoolID, classID, sectionID string) (models.Week, error) {
	var payload timetablePayload
	path := fmt.Sprintf("/timetable/class/%s/%s/%s", schoolID, classID, sectionID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Timetable == nil {
		payload.Timetable = models.Week{}
	}
	return payload.Timetable, nil
}

// TeacherTimetable fetches the sparse weekly slots for one teacher.
func (c *Client) TeacherTimetable(ctx context.Context, schoolID, teacherID string) (models.Week, error) {
	var payload timetablePayload
	path := fmt.Sprintf("/timetable/teacher/%s/%s", schoolID, teacherID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return nil, err
	}
	if payload.Timetable == nil {
		payload.Timetable = models.Week{}
	}
	return payload.Timetable, nil
}

// Metadata fetches the id-to-name dictionaries used for display.
func (c *Client) Metadata(ctx context.Context, schoolID string) (models.Metadata, error) {
	var meta models.Metadata
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/meta/%s", schoolID), nil, &meta); err != nil {
		return models.Metadata{}, err
	}
	return meta, nil
}
