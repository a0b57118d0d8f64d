package web

import (
	"fmt"
	"net/http"

	"github.com/mymcp/console/internal/web/templates"
)

func (s *Server) handleMarketplace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := s.fetchServerList(r)

	if isHTMX(r) {
		_ = templates.ServerList(data).Render(ctx, w)
		return
	}
	_ = templates.MarketplacePage(data).Render(ctx, w)
}

func (s *Server) fetchServerList(r *http.Request) templates.MarketplaceData {
	servers, err := s.backend.ListServers(r.Context())
	if err != nil {
		return templates.MarketplaceData{Error: fmt.Sprintf("Error fetching servers: %v", err)}
	}

	data := templates.MarketplaceData{}
	for _, srv := range servers {
		data.Servers = append(data.Servers, templates.ServerView{
			Name:        srv.Name,
			Description: srv.Description,
			Status:      srv.Status,
			SetupNeeded: srv.SetupNeeded,
		})
	}
	return data
}

// handleAPIInstallServer installs a marketplace server. Servers with
// unconfigured setup requirements are refused with a pointer to the Setup
// page, matching the backend's own precondition.
func (s *Server) handleAPIInstallServer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.FormValue("server")
	if name == "" {
		_ = templates.ErrorBanner("Server name is required").Render(ctx, w)
		return
	}

	if setup, err := s.backend.ServerSetup(ctx, name); err == nil && setup != nil {
		for _, req := range setup.Requirements {
			if req.Required && !req.Configured {
				_ = templates.ErrorBanner(fmt.Sprintf(
					"Setup required: %s needs configuration before installation. Visit the Setup page first.", name,
				)).Render(ctx, w)
				_ = templates.ServerList(s.fetchServerList(r)).Render(ctx, w)
				return
			}
		}
	}

	if err := s.backend.InstallServer(ctx, name); err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Failed to install %s: %v", name, err)).Render(ctx, w)
	} else {
		_ = templates.SuccessBanner(fmt.Sprintf("Installed %s", name)).Render(ctx, w)
	}
	_ = templates.ServerList(s.fetchServerList(r)).Render(ctx, w)
}
