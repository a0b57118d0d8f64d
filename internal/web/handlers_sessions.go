package web

import (
	"fmt"
	"net/http"

	"github.com/mymcp/console/internal/web/templates"
)

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := s.fetchSessionList(r)

	if isHTMX(r) {
		_ = templates.SessionList(data).Render(ctx, w)
		return
	}
	_ = templates.SessionsPage(data).Render(ctx, w)
}

func (s *Server) fetchSessionList(r *http.Request) templates.SessionsData {
	sessions, err := s.catalog.List(r.Context())
	if err != nil {
		return templates.SessionsData{Error: fmt.Sprintf("Error fetching sessions: %v", err)}
	}
	return templates.SessionsData{Sessions: sessionViews(sessions)}
}

func (s *Server) handleSessionDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	session, err := s.catalog.Get(ctx, id)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to fetch session details: %v", err), http.StatusBadGateway)
		return
	}

	_ = templates.SessionDetailPage(sessionView(*session)).Render(ctx, w)
}

// handleAPIDeleteSession deletes a session and re-fetches the list; there
// is no optimistic removal. A failed delete is reported above the unchanged
// list.
func (s *Server) handleAPIDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := s.catalog.Delete(ctx, id); err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Failed to delete session: %v", err)).Render(ctx, w)
	}
	_ = templates.SessionList(s.fetchSessionList(r)).Render(ctx, w)
}
