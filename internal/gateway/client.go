package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/schedulify/schedulify-cli/pkg/config"
	appErrors "github.com/schedulify/schedulify-cli/pkg/errors"
)

// Known navigation locations. The transport redirects to the admin login on
// authentication failure unless the user is already on a login screen.
const (
	RouteAdminLogin       = "/school/login"
	RouteTeacherLogin     = "/teacher/login"
	RouteDashboard        = "/dashboard"
	RouteTeacherTimetable = "/teacher/timetable"
)

// Navigator abstracts the current screen location so the transport can force
// re-authentication without knowing the UI.
type Navigator interface {
	Location() string
	NavigateTo(route string)
}

// SessionStore is the slice of the session layer the gateway depends on.
type SessionStore interface {
	Token() string
	SchoolID() string
	TeacherID() string
	Set(token, schoolID, teacherID string) error
	Clear() error
}

// Client is the single configured HTTP client wrapping every backend call.
// Credential injection and 401/403 handling live in its transport, so callers
// never opt in per request.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore
	logger   *zap.Logger
}

// New builds the gateway client. The transport chain decorates
// http.DefaultTransport unless a custom base is supplied via options.
func New(cfg config.APIConfig, sessions SessionStore, nav Navigator, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := newTransport(http.DefaultTransport, sessions, nav, logger)
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		http:     &http.Client{Timeout: cfg.Timeout, Transport: transport},
		sessions: sessions,
		logger:   logger,
	}
}

// apiError is the wire shape of a structured server failure.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// doJSON performs a request with an optional JSON body and decodes a JSON
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "encode request payload")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeFailure(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrServer.Code, resp.StatusCode, "decode response payload")
	}
	return nil
}

// doText performs a request and returns the raw body as a string, accepting
// either a bare string or a JSON-encoded one. Used for message-style
// endpoints such as timetable generation.
func (c *Client) doText(ctx context.Context, method, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), nil)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= http.StatusBadRequest {
		return "", c.decodeFailure(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	var decoded string
	if json.Unmarshal(raw, &decoded) == nil {
		return decoded, nil
	}
	return strings.TrimSpace(string(raw)), nil
}

// decodeFailure turns a non-2xx response into a typed error. Server-provided
// messages are surfaced verbatim when present so screens can display them.
func (c *Client) decodeFailure(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var payload apiError
	message := ""
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Error != "" {
			message = payload.Error
		} else if payload.Message != "" {
			message = payload.Message
		}
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return appErrors.Clone(appErrors.ErrUnauthorized, message)
	case http.StatusForbidden:
		// The transport has already normalised the body.
		return appErrors.Clone(appErrors.ErrForbidden, message)
	case http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, message)
	default:
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return appErrors.New(appErrors.ErrServer.Code, resp.StatusCode, message)
	}
}
