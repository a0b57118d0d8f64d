package recorder

import (
	"context"
	"errors"

	"github.com/mymcp/console/internal/backend"
	"github.com/mymcp/console/internal/metrics"
)

// Precondition violations, checked client-side before any network call.
var (
	ErrNameRequired    = errors.New("session name is required")
	ErrNotConnected    = errors.New("extension must be connected before recording")
	ErrNoActiveSession = errors.New("no active recording session")
)

// CaptureCategories are the action kinds the extension records once a
// session starts, enumerated in the start confirmation.
var CaptureCategories = []string{
	"navigation",
	"clicks",
	"typing",
	"form interaction",
	"page waits",
}

// LifecycleBackend is the slice of the backend API the lifecycle needs.
type LifecycleBackend interface {
	StartRecording(ctx context.Context, name, description string) (*backend.StartResponse, error)
	StopRecording(ctx context.Context) (*backend.RecordingSession, error)
	GetSession(ctx context.Context, id string) (*backend.RecordingSession, error)
	AddAction(ctx context.Context, action backend.RecordedAction) error
}

// ConnectionChecker reports readiness at the instant of a start request.
type ConnectionChecker interface {
	Check(ctx context.Context) Status
}

// Lifecycle drives a session through idle -> recording -> stopped. There
// are no further states: failures report an error and leave the client
// state where it was.
type Lifecycle struct {
	backend LifecycleBackend
	gate    ConnectionChecker
	metrics metrics.Recorder
}

func NewLifecycle(b LifecycleBackend, gate ConnectionChecker, m metrics.Recorder) *Lifecycle {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Lifecycle{backend: b, gate: gate, metrics: m}
}

// StartResult reports a successfully started session.
type StartResult struct {
	SessionID string
	Message   string
	Captures  []string
}

// Start begins a named recording session. The name must be non-empty and
// the gate must report RecordingReady at call time; both are checked before
// any request is sent. On backend failure the client state is untouched.
func (l *Lifecycle) Start(ctx context.Context, st *ClientState, name, description string) (*StartResult, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if !l.gate.Check(ctx).RecordingReady {
		return nil, ErrNotConnected
	}

	resp, err := l.backend.StartRecording(ctx, name, description)
	if err != nil {
		return nil, err
	}

	st.setActive(resp.SessionID, name)
	l.metrics.SessionStarted(ctx)

	return &StartResult{
		SessionID: resp.SessionID,
		Message:   resp.Message,
		Captures:  CaptureCategories,
	}, nil
}

// PollResult is a snapshot of the active session.
type PollResult struct {
	Session      *backend.RecordingSession
	ActionsCount int
	Recent       []backend.RecordedAction
}

// Poll fetches the active session and returns its action count plus the
// last five actions in backend order. This is a caller-triggered refresh,
// not a subscription.
func (l *Lifecycle) Poll(ctx context.Context, st *ClientState) (*PollResult, error) {
	id, _, ok := st.ActiveSession()
	if !ok {
		return nil, ErrNoActiveSession
	}

	session, err := l.backend.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	count := session.ActionsCount
	if len(session.Actions) > count {
		count = len(session.Actions)
	}

	recent := session.Actions
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	return &PollResult{Session: session, ActionsCount: count, Recent: recent}, nil
}

// Stop ends the active session. The backend tracks which session is
// recording, so no id is passed: one session records at a time per backend
// instance, and concurrent clients would race. A client that holds no
// active session is refused before the request is sent, so a stale tab
// cannot stop a session another client started. On success the returned
// session moves to the last-completed slot and the active ids are cleared;
// on failure the state still shows recording.
func (l *Lifecycle) Stop(ctx context.Context, st *ClientState) (*backend.RecordingSession, error) {
	if _, _, ok := st.ActiveSession(); !ok {
		return nil, ErrNoActiveSession
	}

	session, err := l.backend.StopRecording(ctx)
	if err != nil {
		return nil, err
	}

	st.SetLastCompleted(session)
	st.clearActive()
	l.metrics.SessionStopped(ctx, session.ActionsCount)

	return session, nil
}

// AddAction injects a manual action into the active session. Fallback path
// for testing without the extension.
func (l *Lifecycle) AddAction(ctx context.Context, st *ClientState, action backend.RecordedAction) error {
	if _, _, ok := st.ActiveSession(); !ok {
		return ErrNoActiveSession
	}
	return l.backend.AddAction(ctx, action)
}
