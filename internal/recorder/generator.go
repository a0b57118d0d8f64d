package recorder

import (
	"context"
	"errors"

	"github.com/mymcp/console/internal/metrics"
)

// ErrSessionRequired is returned when a generation or save call carries no
// session id.
var ErrSessionRequired = errors.New("session id is required")

const defaultToolDescription = "Automated browser workflow generated from recorded session"

// GeneratedTool is backend-produced source code plus the user-editable
// name and description it will be saved under. The code is an opaque blob
// here; the console never parses it.
type GeneratedTool struct {
	SessionID       string
	ToolCode        string
	ToolName        string
	ToolDescription string
}

// GeneratorBackend is the slice of the backend API the generator needs.
type GeneratorBackend interface {
	GenerateTool(ctx context.Context, sessionID string) (string, error)
}

// Generator converts completed sessions into tool source. The first
// successful generation per session id is cached on the client state;
// repeat calls return the cached value without touching the backend until
// the caller explicitly clears it (the "regenerate" action).
type Generator struct {
	backend GeneratorBackend
	metrics metrics.Recorder
}

func NewGenerator(b GeneratorBackend, m metrics.Recorder) *Generator {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Generator{backend: b, metrics: m}
}

// Generate returns the tool for a session, from cache when present. The
// backend is the arbiter of the session's eligibility (completed, at least
// one action); its error is surfaced verbatim.
func (g *Generator) Generate(ctx context.Context, st *ClientState, sessionID string) (*GeneratedTool, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	if tool, ok := st.cachedGeneration(sessionID); ok {
		return tool, nil
	}

	code, err := g.backend.GenerateTool(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	tool := &GeneratedTool{
		SessionID:       sessionID,
		ToolCode:        code,
		ToolName:        defaultToolName(sessionID),
		ToolDescription: defaultToolDescription,
	}
	st.storeGeneration(tool)
	g.metrics.ToolGenerated(ctx)

	return tool, nil
}

// Regenerate clears the cached generation for a session and generates
// again.
func (g *Generator) Regenerate(ctx context.Context, st *ClientState, sessionID string) (*GeneratedTool, error) {
	st.ClearGeneration(sessionID)
	return g.Generate(ctx, st, sessionID)
}

func defaultToolName(sessionID string) string {
	short := sessionID
	if len(short) > 6 {
		short = short[:6]
	}
	return "browser_automation_" + short
}
