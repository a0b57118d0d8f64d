package recorder

import (
	"context"
	"errors"
	"testing"

	"github.com/mymcp/console/internal/backend"
)

type mockCatalogBackend struct {
	listFn   func(ctx context.Context) ([]backend.RecordingSession, error)
	getFn    func(ctx context.Context, id string) (*backend.RecordingSession, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockCatalogBackend) ListSessions(ctx context.Context) ([]backend.RecordingSession, error) {
	return m.listFn(ctx)
}

func (m *mockCatalogBackend) GetSession(ctx context.Context, id string) (*backend.RecordingSession, error) {
	return m.getFn(ctx, id)
}

func (m *mockCatalogBackend) DeleteSession(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func TestCatalogCompleted(t *testing.T) {
	b := &mockCatalogBackend{
		listFn: func(ctx context.Context) ([]backend.RecordingSession, error) {
			return []backend.RecordingSession{
				{ID: "a", Status: backend.StatusRecording},
				{ID: "b", Status: backend.StatusStopped},
				{ID: "c", Status: backend.StatusCompleted},
			}, nil
		},
	}
	c := NewCatalog(b)

	completed, err := c.Completed(context.Background())
	if err != nil {
		t.Fatalf("Completed() error: %v", err)
	}
	if len(completed) != 2 {
		t.Fatalf("len(completed) = %d, want 2", len(completed))
	}
	if completed[0].ID != "b" || completed[1].ID != "c" {
		t.Errorf("completed ids = %q, %q; want b, c in backend order", completed[0].ID, completed[1].ID)
	}
}

func TestCatalogDeletePropagatesFailure(t *testing.T) {
	b := &mockCatalogBackend{
		deleteFn: func(ctx context.Context, id string) error {
			return errors.New("backend down")
		},
	}
	c := NewCatalog(b)

	if err := c.Delete(context.Background(), "sess-1"); err == nil {
		t.Fatal("expected delete failure to propagate")
	}
}

func TestCatalogAutoDetectRecent(t *testing.T) {
	b := &mockCatalogBackend{
		listFn: func(ctx context.Context) ([]backend.RecordingSession, error) {
			return []backend.RecordingSession{
				{ID: "empty", Status: backend.StatusStopped, ActionsCount: 0},
				{ID: "good", Status: backend.StatusStopped, ActionsCount: 4},
			}, nil
		},
	}
	c := NewCatalog(b)
	st := &ClientState{}

	session, ok := c.AutoDetectRecent(context.Background(), st)
	if !ok {
		t.Fatal("expected detection to find a session")
	}
	if session.ID != "good" {
		t.Errorf("detected %q, want the first stopped session with actions", session.ID)
	}
	if st.LastCompleted() == nil || st.LastCompleted().ID != "good" {
		t.Error("detected session should be parked as last completed")
	}
}

func TestCatalogAutoDetectSkipsWhenHeld(t *testing.T) {
	called := false
	b := &mockCatalogBackend{
		listFn: func(ctx context.Context) ([]backend.RecordingSession, error) {
			called = true
			return nil, nil
		},
	}
	c := NewCatalog(b)
	st := &ClientState{}
	st.SetLastCompleted(&backend.RecordingSession{ID: "held"})

	if _, ok := c.AutoDetectRecent(context.Background(), st); ok {
		t.Error("detection must not replace a held session")
	}
	if called {
		t.Error("backend must not be queried when a session is already held")
	}
}

func TestCatalogAutoDetectSwallowsErrors(t *testing.T) {
	b := &mockCatalogBackend{
		listFn: func(ctx context.Context) ([]backend.RecordingSession, error) {
			return nil, errors.New("backend down")
		},
	}
	c := NewCatalog(b)

	if _, ok := c.AutoDetectRecent(context.Background(), &ClientState{}); ok {
		t.Error("detection must report nothing on backend failure")
	}
}
