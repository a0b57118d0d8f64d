package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mymcp/console/internal/backend"
	"github.com/mymcp/console/internal/extension"
	"github.com/mymcp/console/internal/recorder"
	"github.com/mymcp/console/internal/web/templates"
)

func (s *Server) handleRecorder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)

	data := templates.RecorderData{
		BackendAvailable: s.backend.Health(ctx) == nil,
	}
	if data.BackendAvailable {
		data.Connection = connectionView(s.gate.Check(ctx))
		s.catalog.AutoDetectRecent(ctx, st)

		data.Phase = st.Phase()
		data.SessionID, data.SessionName, _ = st.ActiveSession()
		if last := st.LastCompleted(); last != nil {
			view := sessionView(*last)
			data.LastCompleted = &view
		}
	}

	_ = templates.RecorderPage(data).Render(ctx, w)
}

func (s *Server) handleAPIConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	_ = templates.ConnectionStatus(connectionView(s.gate.Check(ctx))).Render(ctx, w)
}

func (s *Server) handleAPIStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)

	name := r.FormValue("name")
	description := r.FormValue("description")

	result, err := s.lifecycle.Start(ctx, st, name, description)
	if err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Failed to start recording: %v", err)).Render(ctx, w)
		s.renderRecordingPanel(w, r, st)
		return
	}

	_ = templates.StartResult(templates.StartView{
		SessionID: result.SessionID,
		Message:   result.Message,
		Captures:  result.Captures,
	}).Render(ctx, w)
}

func (s *Server) handleAPIStop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)

	session, err := s.lifecycle.Stop(ctx, st)
	if err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Failed to stop recording: %v", err)).Render(ctx, w)
		s.renderRecordingPanel(w, r, st)
		return
	}

	view := templates.StopView{
		Name:         session.Name,
		ActionsCount: session.ActionsCount,
	}
	if session.Duration > 0 {
		view.DurationSeconds = session.Duration / 1000
	} else if session.EndTime > session.StartTime {
		view.DurationSeconds = (session.EndTime - session.StartTime) / 1000
	}
	_ = templates.StopResult(view).Render(ctx, w)
}

func (s *Server) handleAPIRecorderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)

	result, err := s.lifecycle.Poll(ctx, st)
	if err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Could not fetch recording status: %v", err)).Render(ctx, w)
		return
	}

	_ = templates.PollResult(templates.PollView{
		ActionsCount: result.ActionsCount,
		Recent:       actionViews(result.Recent),
	}).Render(ctx, w)
}

func (s *Server) handleAPIAddAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)

	action := manualAction(r)
	if action.Type == "" {
		_ = templates.ErrorBanner("Action type is required").Render(ctx, w)
		return
	}

	if err := s.lifecycle.AddAction(ctx, st, action); err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Failed to add action: %v", err)).Render(ctx, w)
		return
	}
	_ = templates.SuccessBanner(fmt.Sprintf("Added %s action: %s", action.Type, action.Description)).Render(ctx, w)
}

// manualAction builds a fallback action from the manual-testing form,
// synthesizing the description the extension would have produced.
func manualAction(r *http.Request) backend.RecordedAction {
	action := backend.RecordedAction{
		Type:     r.FormValue("type"),
		URL:      r.FormValue("url"),
		Selector: r.FormValue("selector"),
		Text:     r.FormValue("text"),
	}

	switch action.Type {
	case "navigate":
		action.Description = "Navigate to " + action.URL
	case "click":
		action.Description = "Click on " + action.Selector
	case "type":
		action.Description = fmt.Sprintf("Type '%s' into %s", action.Text, action.Selector)
	case "wait":
		if d, err := strconv.Atoi(r.FormValue("duration")); err == nil {
			action.Duration = d
		}
		action.Description = "Wait for page"
	case "screenshot":
		action.Description = "Take screenshot"
	}
	return action
}

func (s *Server) handleAPITestTool(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")

	if !s.gate.Check(ctx).ToolExecutionReady {
		_ = templates.ErrorBanner("Tool execution requires both the HTTP and WebSocket connections").Render(ctx, w)
		return
	}

	result, err := s.backend.ExecuteTool(ctx, name, nil)
	if err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Tool execution failed: %v", err)).Render(ctx, w)
		return
	}

	output := result.Result
	if len(output) > 500 {
		output = output[:500] + "..."
	}
	_ = templates.ExecutionResult(templates.ResultView{
		Success: result.Error == "",
		Output:  output,
		Error:   result.Error,
	}).Render(ctx, w)
}

func (s *Server) handleExtensionZip(w http.ResponseWriter, r *http.Request) {
	data, err := extension.Bundle(s.extensionDir)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to build extension bundle: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="mymcp-browser-extension-latest.zip"`)
	_, _ = w.Write(data)
}

func (s *Server) renderRecordingPanel(w http.ResponseWriter, r *http.Request, st *recorder.ClientState) {
	ctx := r.Context()
	data := templates.RecorderData{
		BackendAvailable: true,
		Connection:       connectionView(s.gate.Check(ctx)),
		Phase:            st.Phase(),
	}
	data.SessionID, data.SessionName, _ = st.ActiveSession()
	_ = templates.RecordingPanel(data).Render(ctx, w)
}
