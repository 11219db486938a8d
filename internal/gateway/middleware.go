package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// fallbackForbiddenMessage replaces unhelpful 403 bodies.
const fallbackForbiddenMessage = "Access denied. Please ensure you are logged in with the necessary role and permissions."

// transport is the fixed pre/post pipeline every outbound call passes
// through: bearer injection on the way out, 401/403 handling on the way back.
type transport struct {
	base     http.RoundTripper
	sessions SessionStore
	nav      Navigator
	logger   *zap.Logger
}

func newTransport(base http.RoundTripper, sessions SessionStore, nav Navigator, logger *zap.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &transport{base: base, sessions: sessions, nav: nav, logger: logger}
}

// RoundTrip implements http.RoundTripper.
func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token := t.sessions.Token(); token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		t.handleUnauthorized(req)
	case http.StatusForbidden:
		t.normalizeForbidden(resp)
	}
	return resp, nil
}

// handleUnauthorized invalidates the session. Navigation is skipped when the
// user is already on a login screen so a failing login call cannot redirect
// onto itself.
func (t *transport) handleUnauthorized(req *http.Request) {
	if err := t.sessions.Clear(); err != nil {
		t.logger.Warn("failed to clear session after 401", zap.Error(err))
	}
	location := t.nav.Location()
	if strings.HasPrefix(location, RouteAdminLogin) || strings.HasPrefix(location, RouteTeacherLogin) {
		return
	}
	t.logger.Info("session rejected, redirecting to login",
		zap.String("path", req.URL.Path),
		zap.String("from", location))
	t.nav.NavigateTo(RouteAdminLogin)
}

// normalizeForbidden rewrites the response body into a guaranteed
// {error, message} shape. Servers answer 403 with anything from an empty body
// to a bare "Forbidden" string; callers get one consistent contract. The
// session is left untouched: it may still be valid for other resources.
func (t *transport) normalizeForbidden(resp *http.Response) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close() //nolint:errcheck
	if err != nil {
		raw = nil
	}

	message := fallbackForbiddenMessage

	var structured map[string]interface{}
	if json.Unmarshal(raw, &structured) == nil {
		if v, ok := structured["error"].(string); ok && v != "" {
			message = v
		} else if v, ok := structured["message"].(string); ok && v != "" {
			message = v
		}
	} else {
		var plain string
		body := strings.TrimSpace(string(raw))
		if json.Unmarshal(raw, &plain) == nil {
			body = strings.TrimSpace(plain)
		}
		if body != "" && !strings.EqualFold(body, "forbidden") {
			message = body
		}
	}

	t.logger.Warn("forbidden response",
		zap.String("message", message),
		zap.Bool("has_token", t.sessions.Token() != ""))

	normalized, _ := json.Marshal(apiError{Error: message, Message: message})
	resp.Body = io.NopCloser(bytes.NewReader(normalized))
	resp.ContentLength = int64(len(normalized))
	resp.Header.Set("Content-Type", "application/json")
	resp.Header.Del("Content-Encoding")
}
