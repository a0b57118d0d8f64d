package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mymcp/console/internal/web/templates"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := templates.ChatData{}
	tools, err := s.backend.ListTools(ctx)
	if err != nil {
		data.Error = fmt.Sprintf("Could not fetch tools from backend: %v", err)
	}
	for _, t := range tools {
		view := templates.ToolInfoView{Name: t.Name, Description: t.Description}
		if strings.HasPrefix(t.Name, "agent_") {
			data.AgentTools = append(data.AgentTools, view)
		} else {
			data.BackendTools = append(data.BackendTools, view)
		}
	}

	_ = templates.ChatPage(data).Render(ctx, w)
}

func (s *Server) handleAPIChatExecute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tool := r.FormValue("tool")
	if tool == "" {
		_ = templates.ErrorBanner("Pick a tool to execute").Render(ctx, w)
		return
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(r.FormValue("arguments")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			_ = templates.ErrorBanner(fmt.Sprintf("Arguments must be a JSON object: %v", err)).Render(ctx, w)
			return
		}
	}

	result, err := s.backend.ExecuteTool(ctx, tool, args)
	if err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Tool execution failed: %v", err)).Render(ctx, w)
		return
	}
	_ = templates.ExecutionResult(templates.ResultView{
		Success: result.Error == "",
		Output:  result.Result,
		Error:   result.Error,
	}).Render(ctx, w)
}
