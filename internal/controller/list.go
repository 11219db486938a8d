// Package controller implements the screen-side list pattern shared by every
// entity type: load a collection, mutate it through the gateway, refetch.
package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schedulify/schedulify-cli/internal/session"
	appErrors "github.com/schedulify/schedulify-cli/pkg/errors"
)

// bannerTTL is how long transient banners stay visible. Load failures are
// sticky and survive until the next successful load.
const bannerTTL = 3 * time.Second

// State is the per-screen lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateLoadError
	StateSubmitting
	StateSubmitError
)

// Endpoint is the gateway surface a list screen needs. gateway.Collection
// satisfies it for every entity type.
type Endpoint[E any] interface {
	List(ctx context.Context, schoolID string) ([]E, error)
	Create(ctx context.Context, schoolID string, entity E) error
	Update(ctx context.Context, schoolID, id string, entity E) error
	Delete(ctx context.Context, schoolID, id string) error
}

// Sessions is the slice of the session layer used for screen gating.
type Sessions interface {
	Identity() session.Identity
	Clear() error
}

// ConfirmFunc asks the user to approve a destructive action.
type ConfirmFunc func(prompt string) bool

// Banner is a transient user-facing message.
type Banner struct {
	Message string
	IsError bool
	Sticky  bool
}

// List drives one entity collection screen. All I/O goes through the
// endpoint; the in-memory collection always reflects the last successful
// server response, never a speculative merge.
type List[E any] struct {
	endpoint Endpoint[E]
	sessions Sessions
	validate *validator.Validate
	confirm  ConfirmFunc
	logger   *zap.Logger

	label     string
	adminOnly bool
	bannerTTL time.Duration

	mu        sync.Mutex
	state     State
	items     []E
	banner    *Banner
	bannerSeq int
}

// NewList builds a controller for one entity type. label names the entity in
// user-facing messages ("Subject", "Lab room", ...).
func NewList[E any](endpoint Endpoint[E], sessions Sessions, label string, confirm ConfirmFunc, logger *zap.Logger) *List[E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	return &List[E]{
		endpoint:  endpoint,
		sessions:  sessions,
		validate:  validator.New(),
		confirm:   confirm,
		logger:    logger,
		label:     label,
		adminOnly: true,
		bannerTTL: bannerTTL,
	}
}

// State returns the current screen state.
func (l *List[E]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Items returns the last successfully loaded collection.
func (l *List[E]) Items() []E {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items
}

// Banner returns the currently visible message, if any.
func (l *List[E]) Banner() *Banner {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.banner
}

// guard enforces the admin-only rule: a teacher token on an admin screen
// invalidates the session entirely.
func (l *List[E]) guard() error {
	if !l.adminOnly {
		return nil
	}
	identity := l.sessions.Identity()
	switch identity.Role {
	case session.RoleAdmin:
		return nil
	case session.RoleTeacher:
		if err := l.sessions.Clear(); err != nil {
			l.logger.Warn("failed to clear teacher session on admin screen", zap.Error(err))
		}
		return appErrors.Clone(appErrors.ErrForbidden, "this screen requires a school administrator account")
	default:
		return appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
}

// Load fetches the collection. On failure the previous items are kept and the
// error banner is sticky until the next successful load.
func (l *List[E]) Load(ctx context.Context) error {
	if err := l.guard(); err != nil {
		return err
	}

	l.mu.Lock()
	if l.state == StateLoading || l.state == StateSubmitting {
		l.mu.Unlock()
		return nil
	}
	l.state = StateLoading
	schoolID := l.sessions.Identity().SchoolID
	l.mu.Unlock()

	items, err := l.endpoint.List(ctx, schoolID)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.state = StateLoadError
		l.setBannerLocked(Banner{Message: fmt.Sprintf("Failed to load %ss", strings.ToLower(l.label)), IsError: true, Sticky: true})
		l.logger.Warn("load failed", zap.String("entity", l.label), zap.Error(err))
		return err
	}
	l.state = StateLoaded
	l.items = items
	l.clearStickyBannerLocked()
	return nil
}

// Create validates the draft locally, submits it, and refetches.
func (l *List[E]) Create(ctx context.Context, draft E) error {
	return l.submit(ctx, draft, fmt.Sprintf("%s created successfully!", l.label),
		func(ctx context.Context, schoolID string) error {
			return l.endpoint.Create(ctx, schoolID, draft)
		})
}

// Update validates the draft locally, submits it, and refetches.
func (l *List[E]) Update(ctx context.Context, id string, draft E) error {
	return l.submit(ctx, draft, fmt.Sprintf("%s updated successfully!", l.label),
		func(ctx context.Context, schoolID string) error {
			return l.endpoint.Update(ctx, schoolID, id, draft)
		})
}

// Remove deletes an entity after explicit confirmation. A denied confirmation
// performs no network call and leaves the list untouched.
func (l *List[E]) Remove(ctx context.Context, id string) error {
	if err := l.guard(); err != nil {
		return err
	}
	if !l.confirm(fmt.Sprintf("Delete this %s? This cannot be undone.", strings.ToLower(l.label))) {
		return nil
	}

	l.mu.Lock()
	if l.state != StateLoaded && l.state != StateSubmitError {
		l.mu.Unlock()
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "list is not ready")
	}
	l.state = StateSubmitting
	schoolID := l.sessions.Identity().SchoolID
	l.mu.Unlock()

	if err := l.endpoint.Delete(ctx, schoolID, id); err != nil {
		l.failSubmit(err)
		return err
	}

	l.finishSubmit(fmt.Sprintf("%s deleted successfully!", l.label))
	return l.Load(ctx)
}

func (l *List[E]) submit(ctx context.Context, draft E, successMessage string, op func(ctx context.Context, schoolID string) error) error {
	if err := l.guard(); err != nil {
		return err
	}
	if err := l.validateDraft(draft); err != nil {
		l.mu.Lock()
		l.setBannerLocked(Banner{Message: err.Message, IsError: true})
		l.mu.Unlock()
		return err
	}

	l.mu.Lock()
	if l.state != StateLoaded && l.state != StateSubmitError {
		l.mu.Unlock()
		return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "list is not ready")
	}
	l.state = StateSubmitting
	schoolID := l.sessions.Identity().SchoolID
	l.mu.Unlock()

	if err := op(ctx, schoolID); err != nil {
		l.failSubmit(err)
		return err
	}

	l.finishSubmit(successMessage)
	return l.Load(ctx)
}

// validateDraft runs struct validation before any network call. The first
// violation is turned into an inline message; a missing name yields the
// "<Label> name is required" wording the screens rely on.
func (l *List[E]) validateDraft(draft E) *appErrors.Error {
	err := l.validate.Struct(draft)
	if err == nil {
		return nil
	}
	violations, ok := err.(validator.ValidationErrors)
	if !ok || len(violations) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	first := violations[0]
	var message string
	switch {
	case first.Field() == "Name" && first.Tag() == "required":
		message = fmt.Sprintf("%s name is required", l.label)
	case first.Tag() == "required":
		message = fmt.Sprintf("%s %s is required", l.label, strings.ToLower(first.Field()))
	default:
		message = fmt.Sprintf("%s %s is invalid", l.label, strings.ToLower(first.Field()))
	}
	return appErrors.New(appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func (l *List[E]) failSubmit(err error) {
	appErr := appErrors.FromError(err)
	message := appErr.Message
	if message == "" {
		message = "operation failed"
	}
	l.mu.Lock()
	l.state = StateSubmitError
	l.setBannerLocked(Banner{Message: message, IsError: true})
	l.mu.Unlock()
	l.logger.Warn("mutation failed", zap.String("entity", l.label), zap.Error(err))
}

func (l *List[E]) finishSubmit(message string) {
	l.mu.Lock()
	l.state = StateLoaded
	l.setBannerLocked(Banner{Message: message})
	l.mu.Unlock()
}

// setBannerLocked installs a banner and schedules the auto-clear for
// non-sticky ones. Callers hold l.mu.
func (l *List[E]) setBannerLocked(b Banner) {
	l.bannerSeq++
	seq := l.bannerSeq
	l.banner = &b
	if b.Sticky {
		return
	}
	time.AfterFunc(l.bannerTTL, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.bannerSeq == seq {
			l.banner = nil
		}
	})
}

func (l *List[E]) clearStickyBannerLocked() {
	if l.banner != nil && l.banner.Sticky {
		l.banner = nil
		l.bannerSeq++
	}
}
