package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mymcp/console/internal/toolstore"
	"github.com/mymcp/console/internal/web/templates"
)

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)

	data := templates.ToolsData{}
	if tool, ok := st.ActiveGeneration(); ok {
		data.Generation = generationView(tool)
	} else {
		sessions, err := s.catalog.Completed(ctx)
		if err != nil {
			data.Error = fmt.Sprintf("Failed to fetch sessions for tool generation: %v", err)
		} else {
			data.Sessions = sessionViews(sessions)
		}
	}

	saved, err := s.tools.List()
	if err != nil {
		data.Error = fmt.Sprintf("Error loading saved tools: %v", err)
	}
	data.Saved = savedToolViews(saved)

	_ = templates.ToolsPage(data).Render(ctx, w)
}

func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)
	sessionID := r.FormValue("session_id")

	tool, err := s.generator.Generate(ctx, st, sessionID)
	if err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Failed to generate tool: %v", err)).Render(ctx, w)
		return
	}
	_ = templates.GenerationForm(*generationView(tool)).Render(ctx, w)
}

func (s *Server) handleAPIRegenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)
	sessionID := r.FormValue("session_id")

	tool, err := s.generator.Regenerate(ctx, st, sessionID)
	if err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Failed to generate tool: %v", err)).Render(ctx, w)
		return
	}
	_ = templates.GenerationForm(*generationView(tool)).Render(ctx, w)
}

// handleAPIClearGeneration drops the cached generation and returns the
// tools view to the session selector.
func (s *Server) handleAPIClearGeneration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)

	st.ClearGeneration(r.FormValue("session_id"))
	st.ClearLastCompleted()

	data := templates.ToolsData{}
	sessions, err := s.catalog.Completed(ctx)
	if err != nil {
		data.Error = fmt.Sprintf("Failed to fetch sessions for tool generation: %v", err)
	} else {
		data.Sessions = sessionViews(sessions)
	}
	_ = templates.GenerationPanel(data).Render(ctx, w)
}

func (s *Server) handleAPISave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)

	sessionID := r.FormValue("session_id")
	toolName := strings.TrimSpace(r.FormValue("tool_name"))
	toolDescription := r.FormValue("tool_description")

	tool, err := s.generator.Generate(ctx, st, sessionID)
	if err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Failed to save tool: %v", err)).Render(ctx, w)
		return
	}

	// Keep the edited values so the form survives a re-render.
	tool.ToolName = toolName
	tool.ToolDescription = toolDescription

	result, err := s.persister.Save(ctx, toolName, toolDescription, tool.ToolCode, sessionID)
	_ = templates.SaveResult(saveView(toolName, result, err)).Render(ctx, w)
}

func (s *Server) handleToolDownload(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")

	code, err := s.tools.Read(file)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/x-python")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file))
	_, _ = w.Write([]byte(code))
}

// handleGeneratedDownload serves the current (cached) generation as an
// enhanced source file, without persisting anything.
func (s *Server) handleGeneratedDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	st := s.clientState(w, r)
	sessionID := r.PathValue("session")

	tool, err := s.generator.Generate(ctx, st, sessionID)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to generate tool: %v", err), http.StatusBadGateway)
		return
	}

	fileName := strings.ReplaceAll(strings.ToLower(tool.ToolName), " ", "_") + ".py"
	source := toolstore.RenderSource(toolstore.Metadata{
		Name:                   tool.ToolName,
		Description:            tool.ToolDescription,
		FileName:               fileName,
		GeneratedFromRecording: true,
		RecordingSessionID:     tool.SessionID,
	}, tool.ToolCode)

	w.Header().Set("Content-Type", "text/x-python")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	_, _ = w.Write([]byte(source))
}
