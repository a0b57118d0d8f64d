package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mymcp/console/internal/backend"
	"github.com/mymcp/console/internal/recorder"
	"github.com/mymcp/console/internal/toolstore"
	"github.com/mymcp/console/internal/web/templates"
)

const clientCookie = "mymcp_client"

// clientState resolves the per-browser state object from the client cookie,
// minting a new client id on first visit.
func (s *Server) clientState(w http.ResponseWriter, r *http.Request) *recorder.ClientState {
	if c, err := r.Cookie(clientCookie); err == nil && c.Value != "" {
		return s.states.Get(c.Value)
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     clientCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
	})
	return s.states.Get(id)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func connectionView(status recorder.Status) templates.ConnectionView {
	return templates.ConnectionView{
		APIConnected:       status.APIConnected,
		WebSocketReady:     status.WebSocketReady,
		RecordingReady:     status.RecordingReady,
		ToolExecutionReady: status.ToolExecutionReady,
	}
}

func sessionView(s backend.RecordingSession) templates.SessionView {
	view := templates.SessionView{
		ID:           s.ID,
		Name:         s.Name,
		Description:  s.Description,
		Status:       s.Status,
		ActionsCount: s.ActionsCount,
	}
	if len(s.Actions) > view.ActionsCount {
		view.ActionsCount = len(s.Actions)
	}
	if s.StartTime > 0 {
		view.Started = formatEpochMillis(s.StartTime)
	}
	view.Duration = formatDuration(s)
	view.Actions = actionViews(s.Actions)
	return view
}

func formatEpochMillis(ms int64) string {
	return time.UnixMilli(ms).Format("Jan 2, 2006 15:04:05")
}

// formatDuration prefers the backend-reported duration, falling back to the
// start/end timestamps.
func formatDuration(s backend.RecordingSession) string {
	ms := s.Duration
	if ms == 0 && s.EndTime > s.StartTime && s.StartTime > 0 {
		ms = s.EndTime - s.StartTime
	}
	return fmt.Sprintf("%ds", ms/1000)
}

func actionViews(actions []backend.RecordedAction) []templates.ActionView {
	views := make([]templates.ActionView, 0, len(actions))
	for i, a := range actions {
		desc := a.Description
		if desc == "" {
			desc = "No description"
		}
		views = append(views, templates.ActionView{Index: i + 1, Type: a.Type, Description: desc})
	}
	return views
}

func sessionViews(sessions []backend.RecordingSession) []templates.SessionView {
	views := make([]templates.SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, sessionView(s))
	}
	return views
}

func savedToolViews(tools []toolstore.Tool) []templates.SavedToolView {
	views := make([]templates.SavedToolView, 0, len(tools))
	for _, t := range tools {
		views = append(views, templates.SavedToolView{
			Name:          t.Metadata.Name,
			Description:   t.Metadata.Description,
			FileName:      t.Metadata.FileName,
			CreatedAt:     t.Metadata.CreatedAt,
			FromRecording: t.Metadata.GeneratedFromRecording,
		})
	}
	return views
}

func generationView(tool *recorder.GeneratedTool) *templates.GenerationView {
	if tool == nil {
		return nil
	}
	return &templates.GenerationView{
		SessionID:       tool.SessionID,
		ToolName:        tool.ToolName,
		ToolDescription: tool.ToolDescription,
		ToolCode:        tool.ToolCode,
	}
}

func saveView(toolName string, result *recorder.SaveResult, err error) templates.SaveView {
	view := templates.SaveView{ToolName: toolName}
	if err != nil {
		view.Error = err.Error()
	}
	if result != nil {
		view.Registered = result.Registered
		view.LocalFile = result.LocalFile
		for _, step := range result.Steps {
			view.Steps = append(view.Steps, templates.StepView{Step: step.Step, OK: step.OK, Err: step.Err})
		}
	}
	return view
}
