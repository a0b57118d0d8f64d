// Package recorder implements the browser-recording-to-tool workflow:
// connection gating, session lifecycle, the session catalog, tool
// generation, and tool persistence. All durable state lives in the backend;
// this package only holds per-client view state.
package recorder

import (
	"sync"
	"time"

	"github.com/mymcp/console/internal/backend"
)

// Client phase values.
const (
	PhaseIdle      = "idle"
	PhaseRecording = "recording"
)

// ClientState is the explicit per-browser-session state object. One
// instance exists per client cookie; handlers pass it into the workflow
// components instead of consulting ambient global storage.
type ClientState struct {
	mu sync.Mutex

	sessionID   string
	sessionName string

	lastCompleted *backend.RecordingSession

	// At most one cached generation per session id; activeGeneration
	// tracks the session the customization form is showing.
	generations      map[string]*GeneratedTool
	activeGeneration string
}

// Phase reports the lifecycle phase: recording while an active session id
// is held, idle otherwise. Stopped sessions park in the last-completed slot.
func (c *ClientState) Phase() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionID != "" {
		return PhaseRecording
	}
	return PhaseIdle
}

// ActiveSession returns the held session id and name, if any.
func (c *ClientState) ActiveSession() (id, name string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID, c.sessionName, c.sessionID != ""
}

func (c *ClientState) setActive(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = id
	c.sessionName = name
}

func (c *ClientState) clearActive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = ""
	c.sessionName = ""
}

// LastCompleted returns the most recently finished session, if one is held.
func (c *ClientState) LastCompleted() *backend.RecordingSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCompleted
}

// SetLastCompleted parks a finished session for the tool-generation view.
func (c *ClientState) SetLastCompleted(s *backend.RecordingSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastCompleted = s
}

// ClearLastCompleted drops the parked session, returning the tools view to
// the session selector.
func (c *ClientState) ClearLastCompleted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastCompleted = nil
}

func (c *ClientState) cachedGeneration(sessionID string) (*GeneratedTool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tool, ok := c.generations[sessionID]
	return tool, ok
}

func (c *ClientState) storeGeneration(tool *GeneratedTool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations == nil {
		c.generations = make(map[string]*GeneratedTool)
	}
	c.generations[tool.SessionID] = tool
	c.activeGeneration = tool.SessionID
}

// ActiveGeneration returns the generation the customization form is
// currently showing, if any.
func (c *ClientState) ActiveGeneration() (*GeneratedTool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tool, ok := c.generations[c.activeGeneration]
	return tool, ok
}

// ClearGeneration drops the cached generation for a session. This is the
// explicit "regenerate" entry point; Generate never invalidates on its own.
func (c *ClientState) ClearGeneration(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.generations, sessionID)
	if c.activeGeneration == sessionID {
		c.activeGeneration = ""
	}
}

// maxClientStates bounds the store. Client ids arrive from cookies, so an
// unbounded map would grow with every new browser that visits.
const maxClientStates = 1024

type stateEntry struct {
	state    *ClientState
	lastSeen time.Time
}

// StateStore hands out ClientState objects keyed by client session id. The
// store holds at most maxClientStates entries; when full, the longest-idle
// client is evicted to make room, and that client starts over with fresh
// state on its next request.
type StateStore struct {
	mu     sync.Mutex
	states map[string]*stateEntry
	now    func() time.Time
}

func NewStateStore() *StateStore {
	return &StateStore{states: make(map[string]*stateEntry), now: time.Now}
}

// Get returns the state for a client, creating it on first sight.
func (s *StateStore) Get(clientID string) *ClientState {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.states[clientID]
	if !ok {
		if len(s.states) >= maxClientStates {
			s.evictIdlest()
		}
		e = &stateEntry{state: &ClientState{}}
		s.states[clientID] = e
	}
	e.lastSeen = s.now()
	return e.state
}

func (s *StateStore) evictIdlest() {
	var oldestID string
	var oldest time.Time
	for id, e := range s.states {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID = id
			oldest = e.lastSeen
		}
	}
	delete(s.states, oldestID)
}
