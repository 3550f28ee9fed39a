package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/daap14/roster/internal/employee"
)

// Notices shown to the user.
const (
	NoticeMissingFields = "Please fill all the fields"
	NoticeNotFound      = "Employee not found"
	NoticeDuplicate     = "An employee with this id already exists"
	NoticeUnavailable   = "The employee store is unavailable"
	NoticeStorage       = "The employee store reported an error"
	NoticeReloadFailed  = "Saved, but the list could not be reloaded"
)

// ErrMissingFields is returned when a required form field is empty.
var ErrMissingFields = errors.New("missing required fields")

// Controller turns user actions into store operations. After every
// successful mutation it re-fetches the whole list.
type Controller struct {
	repo  employee.Repository
	newID func() string
}

// NewController creates a Controller that generates external identifiers
// with uuid.NewString.
func NewController(repo employee.Repository) *Controller {
	return &Controller{repo: repo, newID: uuid.NewString}
}

// WithIDGenerator replaces the external identifier generator.
func (c *Controller) WithIDGenerator(newID func() string) *Controller {
	c.newID = newID
	return c
}

// Load fetches the list into s.
func (c *Controller) Load(ctx context.Context, s State) (State, error) {
	list, err := c.repo.FetchAll(ctx)
	if err != nil {
		return c.fail(s, "load", err), err
	}
	return Reduce(s, ListLoaded(list)), nil
}

// Submit inserts a new employee from the form fields.
func (c *Controller) Submit(ctx context.Context, s State) (State, error) {
	if blank(s.Name) || blank(s.Team) {
		return Reduce(s, Failed(NoticeMissingFields)), ErrMissingFields
	}

	e := &employee.Employee{
		ExternalID: c.newID(),
		Name:       s.Name,
		Team:       s.Team,
	}
	if err := c.repo.Insert(ctx, e); err != nil {
		return c.fail(s, "submit", err), err
	}

	return c.refresh(ctx, s)
}

// Update writes the form fields to the employee being edited.
func (c *Controller) Update(ctx context.Context, s State) (State, error) {
	if blank(s.ExternalID) || blank(s.Name) || blank(s.Team) {
		return Reduce(s, Failed(NoticeMissingFields)), ErrMissingFields
	}

	name, team := s.Name, s.Team
	err := c.repo.UpdateByExternalID(ctx, s.ExternalID, employee.UpdateFields{Name: &name, Team: &team})
	if err != nil {
		return c.fail(s, "update", err), err
	}

	return c.refresh(ctx, s)
}

// Delete removes one employee. The form is left untouched unless the
// employee being edited is the one removed.
func (c *Controller) Delete(ctx context.Context, s State, externalID string) (State, error) {
	if err := c.repo.DeleteByExternalID(ctx, externalID); err != nil {
		return c.fail(s, "delete", err), err
	}

	if s.Editing && s.ExternalID == externalID {
		s = Reduce(s, ResetForm{})
	}
	return c.reload(ctx, s), nil
}

// DeleteAll clears the store.
func (c *Controller) DeleteAll(ctx context.Context, s State) (State, error) {
	if err := c.repo.ClearAll(ctx); err != nil {
		return c.fail(s, "delete all", err), err
	}

	if s.Editing {
		s = Reduce(s, ResetForm{})
	}
	return c.reload(ctx, s), nil
}

// refresh resets the form after a successful mutation and reloads the list.
func (c *Controller) refresh(ctx context.Context, s State) (State, error) {
	return c.reload(ctx, Reduce(s, ResetForm{})), nil
}

// reload fetches the list after a committed mutation. A failed fetch does not
// undo the mutation, so it only leaves a notice on the otherwise updated state.
func (c *Controller) reload(ctx context.Context, s State) State {
	list, err := c.repo.FetchAll(ctx)
	if err != nil {
		slog.Error("reloading employees after a committed change", "error", err)
		return Reduce(s, Failed(NoticeReloadFailed))
	}
	return Reduce(s, ListLoaded(list))
}

func (c *Controller) fail(s State, action string, err error) State {
	notice := NoticeStorage
	switch {
	case errors.Is(err, employee.ErrNotFound):
		notice = NoticeNotFound
	case errors.Is(err, employee.ErrDuplicateKey):
		notice = NoticeDuplicate
	case errors.Is(err, employee.ErrOpenFailed):
		notice = NoticeUnavailable
	default:
		slog.Error("employee action failed", "action", action, "error", err)
	}
	return Reduce(s, Failed(notice))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
