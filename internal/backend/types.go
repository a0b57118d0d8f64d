package backend

// Session status values as reported by the backend recorder.
const (
	StatusRecording = "recording"
	StatusStopped   = "stopped"
	StatusCompleted = "completed"
)

// RecordedAction is a single captured browser action. The backend stores
// actions in chronological order; only the fields relevant to the action
// type are populated.
type RecordedAction struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Selector    string `json:"selector,omitempty"`
	Text        string `json:"text,omitempty"`
	Duration    int    `json:"duration,omitempty"`
	Timestamp   int64  `json:"timestamp,omitempty"`
}

// RecordingSession is a time-bounded capture of browser actions, owned and
// mutated exclusively by the backend. Timestamps are epoch milliseconds;
// EndTime is zero while the session is still recording.
type RecordingSession struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Status       string           `json:"status"`
	ActionsCount int              `json:"actionsCount"`
	StartTime    int64            `json:"startTime,omitempty"`
	EndTime      int64            `json:"endTime,omitempty"`
	Duration     int64            `json:"duration,omitempty"`
	Actions      []RecordedAction `json:"actions,omitempty"`
}

// Completed reports whether the session has finished recording.
func (s *RecordingSession) Completed() bool {
	return s.Status == StatusStopped || s.Status == StatusCompleted
}

// ExtensionStatus is the raw connection state reported by the backend for
// the browser extension.
type ExtensionStatus struct {
	Connected      bool `json:"connected"`
	WebsocketReady bool `json:"websocketReady"`
}

// AgentRegistration is the payload for registering a generated tool as an
// invocable agent.
type AgentRegistration struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Code        string        `json:"code"`
	Tools       []string      `json:"tools"`
	Metadata    AgentMetadata `json:"metadata"`
}

// AgentMetadata records the provenance of a registered agent.
type AgentMetadata struct {
	GeneratedFromRecording bool   `json:"generated_from_recording"`
	RecordingSessionID     string `json:"recording_session_id"`
	CreatedAt              string `json:"created_at"`
	Type                   string `json:"type"`
}

// ToolInfo describes a tool exposed by the backend.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ToolResult is the outcome of executing a backend tool.
type ToolResult struct {
	Success bool   `json:"success"`
	Result  string `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// MarketplaceServer is an installed or installable MCP server.
type MarketplaceServer struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	SetupNeeded bool   `json:"setupNeeded,omitempty"`
}

// SetupRequirement is a single credential or configuration value a server
// needs before it can run.
type SetupRequirement struct {
	Key         string `json:"key"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Configured  bool   `json:"configured,omitempty"`
}

// ServerSetup describes the setup state of a marketplace server.
type ServerSetup struct {
	Server       string             `json:"server,omitempty"`
	Requirements []SetupRequirement `json:"requirements,omitempty"`
	Ready        bool               `json:"ready,omitempty"`
}
