package recorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mymcp/console/internal/backend"
	"github.com/mymcp/console/internal/metrics"
	"github.com/mymcp/console/internal/toolstore"
)

// Validation failures, checked before any network or filesystem work.
var (
	ErrToolNameRequired = errors.New("tool name is required")
	ErrToolCodeRequired = errors.New("tool code is required")
)

// Save step names, in execution order.
const (
	StepRegisterAgent = "register_agent"
	StepLocalSave     = "local_save"
)

// StepOutcome records one step of the save saga so partial failure is
// diagnosable instead of silently degraded.
type StepOutcome struct {
	Step string
	OK   bool
	Err  string
}

// SaveResult is the outcome of a Save call.
type SaveResult struct {
	Registered bool
	LocalFile  string
	Steps      []StepOutcome
}

// Saved reports whether at least one persistence path succeeded.
func (r *SaveResult) Saved() bool {
	return r.Registered || r.LocalFile != ""
}

// Registrar registers generated tools as backend agents.
type Registrar interface {
	RegisterAgent(ctx context.Context, reg backend.AgentRegistration) error
}

// LocalStore writes the local tool file plus metadata sidecar.
type LocalStore interface {
	Save(name, description, code, sessionID string, registeredAsAgent bool) (*toolstore.Metadata, error)
}

// Persister saves a generated tool: remote agent registration first, then a
// local copy. The local save runs regardless of the remote outcome, as the
// fallback on failure and for discoverability on success. The two steps are
// an ordered best-effort saga with no compensation; neither rolls the other
// back.
type Persister struct {
	registrar Registrar
	store     LocalStore
	metrics   metrics.Recorder
	now       func() time.Time
}

func NewPersister(registrar Registrar, store LocalStore, m metrics.Recorder) *Persister {
	if m == nil {
		m = metrics.NewNoop()
	}
	return &Persister{registrar: registrar, store: store, metrics: m, now: time.Now}
}

// Save persists the tool. Name, code, and session id must all be non-empty
// or the call fails fast with no side effects. The returned error is
// non-nil only when both persistence paths failed; the SaveResult records
// each step either way.
func (p *Persister) Save(ctx context.Context, toolName, toolDescription, toolCode, sessionID string) (*SaveResult, error) {
	switch {
	case strings.TrimSpace(toolName) == "":
		return nil, ErrToolNameRequired
	case toolCode == "":
		return nil, ErrToolCodeRequired
	case sessionID == "":
		return nil, ErrSessionRequired
	}

	result := &SaveResult{}

	reg := backend.AgentRegistration{
		Name:        toolName,
		Description: fmt.Sprintf("%s (Generated from recording %s)", toolDescription, sessionID),
		Code:        buildAgentCode(toolDescription, toolCode, sessionID),
		Tools:       []string{workflowToolName(toolName)},
		Metadata: backend.AgentMetadata{
			GeneratedFromRecording: true,
			RecordingSessionID:     sessionID,
			CreatedAt:              p.now().Format("2006-01-02 15:04:05"),
			Type:                   "browser_automation",
		},
	}

	regErr := p.registrar.RegisterAgent(ctx, reg)
	result.Registered = regErr == nil
	result.Steps = append(result.Steps, stepOutcome(StepRegisterAgent, regErr))

	meta, localErr := p.store.Save(toolName, toolDescription, toolCode, sessionID, result.Registered)
	if localErr == nil {
		result.LocalFile = meta.FileName
	}
	result.Steps = append(result.Steps, stepOutcome(StepLocalSave, localErr))

	if !result.Saved() {
		p.metrics.ToolSaved(ctx, metrics.OutcomeFailed)
		return result, fmt.Errorf("saving tool: registration failed (%v), local save failed (%v)", regErr, localErr)
	}

	if result.Registered {
		p.metrics.ToolSaved(ctx, metrics.OutcomeRegistered)
	} else {
		p.metrics.ToolSaved(ctx, metrics.OutcomeLocalOnly)
	}
	return result, nil
}

func stepOutcome(step string, err error) StepOutcome {
	out := StepOutcome{Step: step, OK: err == nil}
	if err != nil {
		out.Err = err.Error()
	}
	return out
}

func workflowToolName(toolName string) string {
	snake := strings.ReplaceAll(strings.ToLower(toolName), " ", "_")
	return "execute_" + snake + "_workflow"
}

// buildAgentCode wraps the raw generated code in the agent scaffold the
// backend executes. The recorded function is renamed so the wrapper's entry
// points stay canonical.
func buildAgentCode(description, toolCode, sessionID string) string {
	renamed := strings.ReplaceAll(toolCode, "def ", "def _original_")

	var b strings.Builder
	fmt.Fprintf(&b, "\"\"\"\n%s\n\nGenerated from browser recording session: %s\n", description, sessionID)
	b.WriteString("This agent executes the recorded browser automation workflow.\n\"\"\"\n\n")
	b.WriteString("import asyncio\n")
	b.WriteString("from pydantic_ai import Agent\n")
	b.WriteString("from pydantic_ai.models.openai import OpenAIModel\n\n")
	b.WriteString("browser_automation_agent = Agent(\n")
	b.WriteString("    model=OpenAIModel(\"gpt-4o-mini\"),\n")
	b.WriteString("    system_prompt=\"\"\"You are a browser automation agent that executes recorded workflows.\n")
	b.WriteString("    Your primary function is to execute the browser automation sequence that was recorded.\"\"\"\n")
	b.WriteString(")\n\n")
	b.WriteString("@browser_automation_agent.tool\n")
	b.WriteString("async def execute_recorded_workflow() -> str:\n")
	b.WriteString("    \"\"\"Execute the recorded browser automation workflow\"\"\"\n")
	b.WriteString("    try:\n")
	b.WriteString("        import requests\n\n")
	for _, line := range strings.Split(renamed, "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString("        " + line + "\n")
	}
	b.WriteString("\n        result = _original_execute_recorded_action()\n")
	b.WriteString("        return f\"Browser automation completed successfully: {result}\"\n")
	b.WriteString("    except Exception as e:\n")
	b.WriteString("        return f\"Browser automation failed: {str(e)}\"\n\n")
	b.WriteString("async def run_agent(params: dict = None):\n")
	b.WriteString("    \"\"\"Main function to run the browser automation agent\"\"\"\n")
	b.WriteString("    try:\n")
	b.WriteString("        result = await browser_automation_agent.run(\"Execute the recorded browser workflow\")\n")
	b.WriteString("        return {\n")
	b.WriteString("            \"success\": True,\n")
	b.WriteString("            \"result\": result.data,\n")
	b.WriteString("            \"type\": \"browser_automation\",\n")
	fmt.Fprintf(&b, "            \"session_id\": %q,\n", sessionID)
	b.WriteString("        }\n")
	b.WriteString("    except Exception as e:\n")
	b.WriteString("        return {\n")
	b.WriteString("            \"success\": False,\n")
	b.WriteString("            \"error\": str(e),\n")
	b.WriteString("            \"type\": \"browser_automation\",\n")
	fmt.Fprintf(&b, "            \"session_id\": %q,\n", sessionID)
	b.WriteString("        }\n\n")
	b.WriteString("def execute_recorded_action():\n")
	b.WriteString("    \"\"\"Legacy entry point\"\"\"\n")
	b.WriteString("    return asyncio.run(run_agent())\n")
	return b.String()
}
