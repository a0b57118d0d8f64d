package recorder

import (
	"context"

	"github.com/mymcp/console/internal/backend"
)

// CatalogBackend is the slice of the backend API the catalog needs.
type CatalogBackend interface {
	ListSessions(ctx context.Context) ([]backend.RecordingSession, error)
	GetSession(ctx context.Context, id string) (*backend.RecordingSession, error)
	DeleteSession(ctx context.Context, id string) error
}

// Catalog lists, inspects, and deletes recording sessions.
type Catalog struct {
	backend CatalogBackend
}

func NewCatalog(b CatalogBackend) *Catalog {
	return &Catalog{backend: b}
}

// List returns all sessions in backend order; no client-side sort is
// imposed.
func (c *Catalog) List(ctx context.Context) ([]backend.RecordingSession, error) {
	return c.backend.ListSessions(ctx)
}

// Completed returns the sessions eligible for tool generation.
func (c *Catalog) Completed(ctx context.Context) ([]backend.RecordingSession, error) {
	sessions, err := c.backend.ListSessions(ctx)
	if err != nil {
		return nil, err
	}
	var completed []backend.RecordingSession
	for _, s := range sessions {
		if s.Completed() {
			completed = append(completed, s)
		}
	}
	return completed, nil
}

// Get fetches one session for the detail view.
func (c *Catalog) Get(ctx context.Context, id string) (*backend.RecordingSession, error) {
	return c.backend.GetSession(ctx, id)
}

// Delete removes a session. There is no optimistic local removal; the
// caller re-fetches List to observe the change. Failures are reported and
// not retried.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	return c.backend.DeleteSession(ctx, id)
}

// AutoDetectRecent pre-seeds the tool-generation view with the most recent
// completed session that has actions, when the client holds none. Errors
// are swallowed: detection is a convenience, never a failure.
func (c *Catalog) AutoDetectRecent(ctx context.Context, st *ClientState) (*backend.RecordingSession, bool) {
	if st.LastCompleted() != nil {
		return nil, false
	}

	sessions, err := c.backend.ListSessions(ctx)
	if err != nil {
		return nil, false
	}
	for _, s := range sessions {
		if s.Status == backend.StatusStopped && s.ActionsCount > 0 {
			found := s
			st.SetLastCompleted(&found)
			return &found, true
		}
	}
	return nil, false
}
