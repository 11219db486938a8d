package gateway

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/schedulify/schedulify-cli/internal/models"
)

// RegisterSchool creates a new school admin account. No session is issued;
// the caller logs in afterwards.
func (c *Client) RegisterSchool(ctx context.Context, req models.RegisterSchoolRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/admin/register", req, nil)
}

// AdminLogin authenticates a school administrator and persists the issued
// session.
func (c *Client) AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	var res models.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/admin/login", req, &res); err != nil {
		return nil, err
	}
	if err := c.sessions.Set(res.Token, res.SchoolID, ""); err != nil {
		return nil, err
	}
	c.logger.Info("admin session established", zap.String("school_id", res.SchoolID))
	return &res, nil
}

// TeacherLogin authenticates a teacher and persists the issued session. The
// teacher id echoes the request when the server omits it, matching the
// original client behaviour.
func (c *Client) TeacherLogin(ctx context.Context, req models.TeacherLoginRequest) (*models.LoginResponse, error) {
	var res models.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/teacher/login", req, &res); err != nil {
		return nil, err
	}
	if res.TeacherID == "" {
		res.TeacherID = req.TeacherID
	}
	if err := c.sessions.Set(res.Token, res.SchoolID, res.TeacherID); err != nil {
		return nil, err
	}
	c.logger.Info("teacher session established",
		zap.String("school_id", res.SchoolID),
		zap.String("teacher_id", res.TeacherID))
	return &res, nil
}

// Logout clears the persisted session.
func (c *Client) Logout() error {
	return c.sessions.Clear()
}
