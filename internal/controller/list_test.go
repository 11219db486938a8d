package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schedulify/schedulify-cli/internal/models"
	"github.com/schedulify/schedulify-cli/internal/session"
	appErrors "github.com/schedulify/schedulify-cli/pkg/errors"
)

type fakeEndpoint struct {
	items     []models.Subject
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeEndpoint) List(ctx context.Context, schoolID string) ([]models.Subject, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeEndpoint) Create(ctx context.Context, schoolID string, entity models.Subject) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.items = append(f.items, entity)
	return nil
}

func (f *fakeEndpoint) Update(ctx context.Context, schoolID, id string, entity models.Subject) error {
	f.updateCalls++
	return f.updateErr
}

func (f *fakeEndpoint) Delete(ctx context.Context, schoolID, id string) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.items[:0]
	for _, item := range f.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

type fakeSessions struct {
	identity session.Identity
	cleared  int
}

func (f *fakeSessions) Identity() session.Identity { return f.identity }

func (f *fakeSessions) Clear() error {
	f.identity = session.Identity{Role: session.RoleUnauthenticated}
	f.cleared++
	return nil
}

func adminSessions() *fakeSessions {
	return &fakeSessions{identity: session.Identity{Role: session.RoleAdmin, SchoolID: "S1"}}
}

func TestListLoadSuccess(t *testing.T) {
	endpoint := &fakeEndpoint{items: []models.Subject{{ID: "SUB1", Name: "Math"}}}
	list := NewList[models.Subject](endpoint, adminSessions(), "Subject", nil, zap.NewNop())

	require.NoError(t, list.Load(context.Background()))
	assert.Equal(t, StateLoaded, list.State())
	assert.Len(t, list.Items(), 1)
	assert.Nil(t, list.Banner())
}

func TestListLoadFailureKeepsPriorItems(t *testing.T) {
	endpoint := &fakeEndpoint{items: []models.Subject{{ID: "SUB1", Name: "Math"}}}
	list := NewList[models.Subject](endpoint, adminSessions(), "Subject", nil, zap.NewNop())
	require.NoError(t, list.Load(context.Background()))

	endpoint.listErr = errors.New("connection refused")
	require.Error(t, list.Load(context.Background()))

	assert.Equal(t, StateLoadError, list.State())
	assert.Len(t, list.Items(), 1, "prior collection must survive a failed load")

	banner := list.Banner()
	require.NotNil(t, banner)
	assert.True(t, banner.Sticky)
	assert.Equal(t, "Failed to load subjects", banner.Message)
}

func TestListCreateEmptyNameNeverCallsNetwork(t *testing.T) {
	endpoint := &fakeEndpoint{}
	list := NewList[models.Subject](endpoint, adminSessions(), "Subject", nil, zap.NewNop())
	require.NoError(t, list.Load(context.Background()))

	err := list.Create(context.Background(), models.Subject{Code: "M1"})
	require.Error(t, err)
	assert.Equal(t, "Subject name is required", appErrors.FromError(err).Message)
	assert.Zero(t, endpoint.createCalls)

	banner := list.Banner()
	require.NotNil(t, banner)
	assert.Equal(t, "Subject name is required", banner.Message)
}

func TestListCreateRefetchesOnSuccess(t *testing.T) {
	endpoint := &fakeEndpoint{}
	list := NewList[models.Subject](endpoint, adminSessions(), "Subject", nil, zap.NewNop())
	require.NoError(t, list.Load(context.Background()))

	require.NoError(t, list.Create(context.Background(), models.Subject{Name: "Math"}))
	assert.Equal(t, 1, endpoint.createCalls)
	assert.Equal(t, 2, endpoint.listCalls, "success must trigger a fresh load")
	assert.Equal(t, StateLoaded, list.State())
	assert.Len(t, list.Items(), 1)

	banner := list.Banner()
	require.NotNil(t, banner)
	assert.Equal(t, "Subject created successfully!", banner.Message)
	assert.False(t, banner.IsError)
}

func TestListCreateServerErrorSurfacedVerbatim(t *testing.T) {
	endpoint := &fakeEndpoint{createErr: appErrors.New("CONFLICT", 409, "subject id already exists")}
	list := NewList[models.Subject](endpoint, adminSessions(), "Subject", nil, zap.NewNop())
	require.NoError(t, list.Load(context.Background()))

	err := list.Create(context.Background(), models.Subject{Name: "Math"})
	require.Error(t, err)
	assert.Equal(t, StateSubmitError, list.State())

	banner := list.Banner()
	require.NotNil(t, banner)
	assert.Equal(t, "subject id already exists", banner.Message)
	assert.Equal(t, 1, endpoint.listCalls, "failed submit must not refetch")
}

func TestListRemoveConfirmationDenied(t *testing.T) {
	endpoint := &fakeEndpoint{items: []models.Subject{{ID: "T5", Name: "Chemistry"}}}
	denied := func(string) bool { return false }
	list := NewList[models.Subject](endpoint, adminSessions(), "Subject", denied, zap.NewNop())
	require.NoError(t, list.Load(context.Background()))

	require.NoError(t, list.Remove(context.Background(), "T5"))
	assert.Zero(t, endpoint.deleteCalls)
	assert.Len(t, list.Items(), 1)
}

func TestListRemoveConfirmed(t *testing.T) {
	endpoint := &fakeEndpoint{items: []models.Subject{{ID: "T5", Name: "Chemistry"}}}
	list := NewList[models.Subject](endpoint, adminSessions(), "Subject", nil, zap.NewNop())
	require.NoError(t, list.Load(context.Background()))

	require.NoError(t, list.Remove(context.Background(), "T5"))
	assert.Equal(t, 1, endpoint.deleteCalls)
	assert.Empty(t, list.Items())
}

func TestListMutationsRequireLoadedState(t *testing.T) {
	endpoint := &fakeEndpoint{}
	list := NewList[models.Subject](endpoint, adminSessions(), "Subject", nil, zap.NewNop())

	err := list.Create(context.Background(), models.Subject{Name: "Math"})
	require.Error(t, err)
	assert.Zero(t, endpoint.createCalls)
}

func TestListTeacherRoleClearsSessionOnAdminScreen(t *testing.T) {
	endpoint := &fakeEndpoint{}
	sessions := &fakeSessions{identity: session.Identity{Role: session.RoleTeacher, SchoolID: "S1", TeacherID: "T9"}}
	list := NewList[models.Subject](endpoint, sessions, "Subject", nil, zap.NewNop())

	err := list.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 1, sessions.cleared)
	assert.Zero(t, endpoint.listCalls)
}

func TestListBannerAutoClears(t *testing.T) {
	endpoint := &fakeEndpoint{}
	list := NewList[models.Subject](endpoint, adminSessions(), "Subject", nil, zap.NewNop())
	list.bannerTTL = 10 * time.Millisecond
	require.NoError(t, list.Load(context.Background()))

	require.NoError(t, list.Create(context.Background(), models.Subject{Name: "Math"}))
	require.NotNil(t, list.Banner())

	assert.Eventually(t, func() bool { return list.Banner() == nil }, time.Second, 5*time.Millisecond)
}

func TestListStickyBannerSurvivesTTL(t *testing.T) {
	endpoint := &fakeEndpoint{listErr: errors.New("down")}
	list := NewList[models.Subject](endpoint, adminSessions(), "Subject", nil, zap.NewNop())
	list.bannerTTL = 10 * time.Millisecond

	require.Error(t, list.Load(context.Background()))
	time.Sleep(50 * time.Millisecond)

	banner := list.Banner()
	require.NotNil(t, banner)
	assert.True(t, banner.Sticky)

	endpoint.listErr = nil
	require.NoError(t, list.Load(context.Background()))
	assert.Nil(t, list.Banner())
}
