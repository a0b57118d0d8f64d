package templates

// ConnectionView is the rendered connection-readiness state.
type ConnectionView struct {
	APIConnected       bool
	WebSocketReady     bool
	RecordingReady     bool
	ToolExecutionReady bool
}

// ActionView is one recorded action row.
type ActionView struct {
	Index       int
	Type        string
	Description string
}

// SessionView is a session rendered in lists and detail pages.
type SessionView struct {
	ID           string
	Name         string
	Description  string
	Status       string
	ActionsCount int
	Started      string
	Duration     string
	Actions      []ActionView
}

// RecorderData drives the main recorder page.
type RecorderData struct {
	BackendAvailable bool
	Connection       ConnectionView
	Phase            string
	SessionID        string
	SessionName      string
	LastCompleted    *SessionView
}

// StartView confirms a started recording session.
type StartView struct {
	SessionID string
	Message   string
	Captures  []string
}

// PollView is a refresh of the active session's captured actions.
type PollView struct {
	ActionsCount int
	Recent       []ActionView
}

// StopView reports a stopped session.
type StopView struct {
	Name            string
	ActionsCount    int
	DurationSeconds int64
}

// SessionsData drives the sessions catalog page.
type SessionsData struct {
	Sessions []SessionView
	Error    string
}

// GenerationView is the tool customization form state.
type GenerationView struct {
	SessionID       string
	ToolName        string
	ToolDescription string
	ToolCode        string
}

// SavedToolView is one tool discovered in the local store.
type SavedToolView struct {
	Name          string
	Description   string
	FileName      string
	CreatedAt     string
	FromRecording bool
}

// ToolsData drives the generated-tools page.
type ToolsData struct {
	Generation *GenerationView
	Sessions   []SessionView
	Saved      []SavedToolView
	Error      string
}

// StepView is one recorded step of the save saga.
type StepView struct {
	Step string
	OK   bool
	Err  string
}

// SaveView reports a tool save outcome.
type SaveView struct {
	ToolName   string
	Registered bool
	LocalFile  string
	Steps      []StepView
	Error      string
}

// ServerView is one marketplace server row.
type ServerView struct {
	Name        string
	Description string
	Status      string
	SetupNeeded bool
}

// MarketplaceData drives the marketplace page.
type MarketplaceData struct {
	Servers []ServerView
	Error   string
}

// RequirementView is one setup requirement row.
type RequirementView struct {
	Key        string
	Label      string
	Required   bool
	Configured bool
}

// SetupServerView is one server's setup state.
type SetupServerView struct {
	Server       string
	Ready        bool
	Requirements []RequirementView
}

// IDESnippet is a per-IDE MCP connection snippet.
type IDESnippet struct {
	IDE     string
	Snippet string
}

// DatabaseTableView describes one database table the platform needs, with
// the bullet points shown under its expander.
type DatabaseTableView struct {
	Name        string
	Description string
	Details     []string
}

// SetupData drives the setup page.
type SetupData struct {
	Servers        []SetupServerView
	Snippets       []IDESnippet
	SQLEditorSteps []string
	Tables         []DatabaseTableView
	Error          string
}

// ToolInfoView is one backend tool in the chat dispatch list.
type ToolInfoView struct {
	Name        string
	Description string
}

// ChatData drives the chat tool-dispatch page.
type ChatData struct {
	AgentTools   []ToolInfoView
	BackendTools []ToolInfoView
	Error        string
}

// ResultView renders a tool execution or credential test outcome.
type ResultView struct {
	Success bool
	Output  string
	Error   string
}
