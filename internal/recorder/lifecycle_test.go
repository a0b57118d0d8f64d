package recorder

import (
	"context"
	"errors"
	"testing"

	"github.com/mymcp/console/internal/backend"
)

// mockBackend implements LifecycleBackend with overridable function fields.
type mockBackend struct {
	startFn     func(ctx context.Context, name, description string) (*backend.StartResponse, error)
	stopFn      func(ctx context.Context) (*backend.RecordingSession, error)
	getFn       func(ctx context.Context, id string) (*backend.RecordingSession, error)
	addActionFn func(ctx context.Context, action backend.RecordedAction) error
}

func (m *mockBackend) StartRecording(ctx context.Context, name, description string) (*backend.StartResponse, error) {
	return m.startFn(ctx, name, description)
}

func (m *mockBackend) StopRecording(ctx context.Context) (*backend.RecordingSession, error) {
	return m.stopFn(ctx)
}

func (m *mockBackend) GetSession(ctx context.Context, id string) (*backend.RecordingSession, error) {
	return m.getFn(ctx, id)
}

func (m *mockBackend) AddAction(ctx context.Context, action backend.RecordedAction) error {
	return m.addActionFn(ctx, action)
}

type staticGate struct {
	status Status
}

func (g staticGate) Check(ctx context.Context) Status { return g.status }

func readyGate() staticGate {
	return staticGate{status: Status{APIConnected: true, RecordingReady: true}}
}

func TestLifecycleStart(t *testing.T) {
	b := &mockBackend{
		startFn: func(ctx context.Context, name, description string) (*backend.StartResponse, error) {
			return &backend.StartResponse{SessionID: "sess-1", Message: "Recording started"}, nil
		},
	}
	l := NewLifecycle(b, readyGate(), nil)
	st := &ClientState{}

	result, err := l.Start(context.Background(), st, "Login Flow", "records the login")
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if result.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want %q", result.SessionID, "sess-1")
	}
	if len(result.Captures) == 0 {
		t.Error("expected capture categories in start result")
	}

	id, name, ok := st.ActiveSession()
	if !ok || id != "sess-1" || name != "Login Flow" {
		t.Errorf("ActiveSession() = (%q, %q, %v), want (sess-1, Login Flow, true)", id, name, ok)
	}
	if st.Phase() != PhaseRecording {
		t.Errorf("Phase() = %q, want %q", st.Phase(), PhaseRecording)
	}
}

func TestLifecycleStartEmptyName(t *testing.T) {
	called := false
	b := &mockBackend{
		startFn: func(ctx context.Context, name, description string) (*backend.StartResponse, error) {
			called = true
			return nil, nil
		},
	}
	l := NewLifecycle(b, readyGate(), nil)

	_, err := l.Start(context.Background(), &ClientState{}, "", "")
	if !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got %v", err)
	}
	if called {
		t.Error("backend must not be called when the name is empty")
	}
}

func TestLifecycleStartNotConnected(t *testing.T) {
	called := false
	b := &mockBackend{
		startFn: func(ctx context.Context, name, description string) (*backend.StartResponse, error) {
			called = true
			return nil, nil
		},
	}
	l := NewLifecycle(b, staticGate{}, nil)

	_, err := l.Start(context.Background(), &ClientState{}, "Login Flow", "")
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if called {
		t.Error("backend must not be called when the gate refuses")
	}
}

func TestLifecycleStartBackendFailureLeavesStateIdle(t *testing.T) {
	b := &mockBackend{
		startFn: func(ctx context.Context, name, description string) (*backend.StartResponse, error) {
			return nil, errors.New("boom")
		},
	}
	l := NewLifecycle(b, readyGate(), nil)
	st := &ClientState{}

	if _, err := l.Start(context.Background(), st, "Login Flow", ""); err == nil {
		t.Fatal("expected error from backend failure")
	}
	if st.Phase() != PhaseIdle {
		t.Errorf("Phase() = %q after failed start, want %q", st.Phase(), PhaseIdle)
	}
}

func TestLifecyclePoll(t *testing.T) {
	actions := []backend.RecordedAction{
		{Type: "navigation", Description: "Navigate to /login"},
		{Type: "click", Description: "Click Sign in"},
		{Type: "input", Description: "Type username"},
		{Type: "input", Description: "Type password"},
		{Type: "click", Description: "Click Submit"},
		{Type: "wait", Description: "Wait for dashboard"},
		{Type: "navigation", Description: "Navigate to /home"},
	}
	b := &mockBackend{
		getFn: func(ctx context.Context, id string) (*backend.RecordingSession, error) {
			return &backend.RecordingSession{ID: id, Status: backend.StatusRecording, Actions: actions}, nil
		},
	}
	l := NewLifecycle(b, readyGate(), nil)
	st := &ClientState{}
	st.setActive("sess-1", "Login Flow")

	result, err := l.Poll(context.Background(), st)
	if err != nil {
		t.Fatalf("Poll() error: %v", err)
	}
	if result.ActionsCount != 7 {
		t.Errorf("ActionsCount = %d, want 7", result.ActionsCount)
	}
	if len(result.Recent) != 5 {
		t.Fatalf("len(Recent) = %d, want 5", len(result.Recent))
	}
	if result.Recent[0].Description != "Type username" {
		t.Errorf("Recent[0] = %q, want the third action", result.Recent[0].Description)
	}
	if result.Recent[4].Description != "Navigate to /home" {
		t.Errorf("Recent[4] = %q, want the last action", result.Recent[4].Description)
	}
}

func TestLifecyclePollWithoutActiveSession(t *testing.T) {
	l := NewLifecycle(&mockBackend{}, readyGate(), nil)

	_, err := l.Poll(context.Background(), &ClientState{})
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestLifecycleStop(t *testing.T) {
	b := &mockBackend{
		stopFn: func(ctx context.Context) (*backend.RecordingSession, error) {
			return &backend.RecordingSession{ID: "sess-1", Status: backend.StatusStopped, ActionsCount: 3}, nil
		},
	}
	l := NewLifecycle(b, readyGate(), nil)
	st := &ClientState{}
	st.setActive("sess-1", "Login Flow")

	session, err := l.Stop(context.Background(), st)
	if err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if session.Status != backend.StatusStopped {
		t.Errorf("Status = %q, want %q", session.Status, backend.StatusStopped)
	}
	if st.Phase() != PhaseIdle {
		t.Errorf("Phase() = %q after stop, want %q", st.Phase(), PhaseIdle)
	}
	if st.LastCompleted() == nil || st.LastCompleted().ID != "sess-1" {
		t.Error("stopped session should be parked as last completed")
	}
}

func TestLifecycleStopWithoutActiveSession(t *testing.T) {
	b := &mockBackend{
		stopFn: func(ctx context.Context) (*backend.RecordingSession, error) {
			t.Fatal("backend must not be called for a client with no active session")
			return nil, nil
		},
	}
	l := NewLifecycle(b, readyGate(), nil)

	_, err := l.Stop(context.Background(), &ClientState{})
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}

func TestLifecycleStopBackendFailureKeepsRecording(t *testing.T) {
	b := &mockBackend{
		stopFn: func(ctx context.Context) (*backend.RecordingSession, error) {
			return nil, errors.New("boom")
		},
	}
	l := NewLifecycle(b, readyGate(), nil)
	st := &ClientState{}
	st.setActive("sess-1", "Login Flow")

	if _, err := l.Stop(context.Background(), st); err == nil {
		t.Fatal("expected error from backend failure")
	}
	if st.Phase() != PhaseRecording {
		t.Errorf("Phase() = %q after failed stop, want %q", st.Phase(), PhaseRecording)
	}
	if st.LastCompleted() != nil {
		t.Error("failed stop must not park a completed session")
	}
}

func TestLifecycleAddActionRequiresActiveSession(t *testing.T) {
	l := NewLifecycle(&mockBackend{}, readyGate(), nil)

	err := l.AddAction(context.Background(), &ClientState{}, backend.RecordedAction{Type: "click"})
	if !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected ErrNoActiveSession, got %v", err)
	}
}
