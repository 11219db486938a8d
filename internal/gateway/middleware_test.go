package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schedulify/schedulify-cli/internal/models"
	"github.com/schedulify/schedulify-cli/pkg/config"
	appErrors "github.com/schedulify/schedulify-cli/pkg/errors"
)

type memorySession struct {
	token     string
	schoolID  string
	teacherID string
	cleared   int
}

func (m *memorySession) Token() string     { return m.token }
func (m *memorySession) SchoolID() string  { return m.schoolID }
func (m *memorySession) TeacherID() string { return m.teacherID }

func (m *memorySession) Set(token, schoolID, teacherID string) error {
	m.token, m.schoolID, m.teacherID = token, schoolID, teacherID
	return nil
}

func (m *memorySession) Clear() error {
	m.token, m.schoolID, m.teacherID = "", "", ""
	m.cleared++
	return nil
}

type fakeNavigator struct {
	location string
	visited  []string
}

func (n *fakeNavigator) Location() string { return n.location }
func (n *fakeNavigator) NavigateTo(route string) {
	n.location = route
	n.visited = append(n.visited, route)
}

func newTestClient(t *testing.T, handler http.Handler, sessions *memorySession, nav *fakeNavigator) (*Client, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := New(config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, sessions, nav, zap.NewNop())
	return client, server.Close
}

func TestTransportInjectsBearerToken(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		w.Write([]byte(`[]`)) //nolint:errcheck
	})

	sessions := &memorySession{token: "tok-123"}
	client, cleanup := newTestClient(t, handler, sessions, &fakeNavigator{location: RouteDashboard})
	defer cleanup()

	_, err := NewCollection[models.Teacher](client, PathTeachers).List(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", seen)
}

func TestTransportSendsUnauthenticatedWithoutToken(t *testing.T) {
	var seen string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		w.Write([]byte(`[]`)) //nolint:errcheck
	})

	client, cleanup := newTestClient(t, handler, &memorySession{}, &fakeNavigator{location: RouteDashboard})
	defer cleanup()

	_, err := NewCollection[models.Subject](client, PathSubjects).List(context.Background(), "S1")
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	sessions := &memorySession{token: "tok", schoolID: "S1", teacherID: "T9"}
	nav := &fakeNavigator{location: RouteDashboard}
	client, cleanup := newTestClient(t, handler, sessions, nav)
	defer cleanup()

	_, err := NewCollection[models.Teacher](client, PathTeachers).List(context.Background(), "S1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	assert.Empty(t, sessions.token)
	assert.Empty(t, sessions.schoolID)
	assert.Empty(t, sessions.teacherID)
	assert.Equal(t, []string{RouteAdminLogin}, nav.visited)
}

func TestUnauthorizedOnLoginScreenDoesNotRedirect(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	for _, location := range []string{RouteAdminLogin, RouteTeacherLogin} {
		sessions := &memorySession{token: "tok"}
		nav := &fakeNavigator{location: location}
		client, cleanup := newTestClient(t, handler, sessions, nav)

		_, err := client.AdminLogin(context.Background(), models.AdminLoginRequest{Email: "a@b.c", Password: "x"})
		require.Error(t, err)
		assert.Equal(t, 1, sessions.cleared)
		assert.Empty(t, nav.visited, "must not redirect from %s", location)
		cleanup()
	}
}

func TestForbiddenNormalization(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantMessage string
	}{
		{
			name:        "empty body",
			body:        "",
			wantMessage: fallbackForbiddenMessage,
		},
		{
			name:        "bare forbidden string",
			body:        "Forbidden",
			contentType: "text/plain",
			wantMessage: fallbackForbiddenMessage,
		},
		{
			name:        "meaningful plain string",
			body:        "teacher accounts cannot manage subjects",
			contentType: "text/plain",
			wantMessage: "teacher accounts cannot manage subjects",
		},
		{
			name:        "structured error field",
			body:        `{"error":"admin role required"}`,
			contentType: "application/json",
			wantMessage: "admin role required",
		},
		{
			name:        "structured message field",
			body:        `{"message":"token lacks admin claims"}`,
			contentType: "application/json",
			wantMessage: "token lacks admin claims",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.contentType != "" {
					w.Header().Set("Content-Type", tc.contentType)
				}
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(tc.body)) //nolint:errcheck
			})

			sessions := &memorySession{token: "tok", schoolID: "S1"}
			nav := &fakeNavigator{location: RouteDashboard}
			client, cleanup := newTestClient(t, handler, sessions, nav)
			defer cleanup()

			_, err := NewCollection[models.Subject](client, PathSubjects).List(context.Background(), "S1")
			require.Error(t, err)

			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
			assert.Equal(t, tc.wantMessage, appErr.Message)
			assert.NotEmpty(t, appErr.Message)

			// 403 never touches the session or navigation.
			assert.Equal(t, "tok", sessions.token)
			assert.Zero(t, sessions.cleared)
			assert.Empty(t, nav.visited)
		})
	}
}

func TestServerErrorSurfacedVerbatim(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"subject id already exists"}`)) //nolint:errcheck
	})

	sessions := &memorySession{token: "tok"}
	client, cleanup := newTestClient(t, handler, sessions, &fakeNavigator{location: RouteDashboard})
	defer cleanup()

	err := NewCollection[models.Subject](client, PathSubjects).
		Create(context.Background(), "S1", models.Subject{Name: "Math"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, "subject id already exists", appErr.Message)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Zero(t, sessions.cleared)
}

func TestTransportFailureIsTyped(t *testing.T) {
	sessions := &memorySession{}
	client := New(config.APIConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond},
		sessions, &fakeNavigator{location: RouteDashboard}, zap.NewNop())

	_, err := NewCollection[models.LabRoom](client, PathLabs).List(context.Background(), "S1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrTransport.Code, appErrors.FromError(err).Code)
}
