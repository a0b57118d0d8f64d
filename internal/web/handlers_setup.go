package web

import (
	"fmt"
	"net/http"

	"github.com/mymcp/console/internal/web/templates"
)

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := templates.SetupData{
		Snippets:       ideSnippets(s.backend.BaseURL() + "/mcp"),
		SQLEditorSteps: sqlEditorSteps,
		Tables:         databaseTables,
	}
	servers, err := s.backend.SetupStatus(ctx)
	if err != nil {
		data.Error = fmt.Sprintf("Could not fetch server setup status: %v", err)
	}
	for _, srv := range servers {
		view := templates.SetupServerView{Server: srv.Server, Ready: srv.Ready}
		for _, req := range srv.Requirements {
			label := req.Description
			if label == "" {
				label = req.Key
			}
			view.Requirements = append(view.Requirements, templates.RequirementView{
				Key:        req.Key,
				Label:      label,
				Required:   req.Required,
				Configured: req.Configured,
			})
		}
		data.Servers = append(data.Servers, view)
	}

	_ = templates.SetupPage(data).Render(ctx, w)
}

func (s *Server) handleAPITestCredential(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	server := r.PathValue("server")
	key := r.FormValue("key")
	value := r.FormValue("value")

	result, err := s.backend.TestCredential(ctx, server, key, value)
	if err != nil {
		_ = templates.ErrorBanner(fmt.Sprintf("Credential test failed: %v", err)).Render(ctx, w)
		return
	}
	_ = templates.ExecutionResult(templates.ResultView{
		Success: result.Success,
		Output:  result.Result,
		Error:   result.Error,
	}).Render(ctx, w)
}

// sqlEditorSteps are the manual steps for applying the platform schema in
// the hosted SQL editor. The schema files ship with the backend; the console
// only renders the instructions.
var sqlEditorSteps = []string{
	"Open your Supabase dashboard and navigate to the SQL Editor.",
	"Create a new SQL query.",
	"Copy the schema SQL from the backend's database directory and execute it.",
	"Return to this page and refresh to see the updated server status.",
}

// databaseTables describes the tables the platform expects, shown on the
// setup page so operators know what the schema SQL creates.
var databaseTables = []templates.DatabaseTableView{
	{
		Name:        "site_pages",
		Description: "Web page content and embeddings for semantic search.",
		Details: []string{
			"Page content split into chunks, keyed by URL and chunk number",
			"Title, summary, and full text per chunk",
			"Vector embeddings for similarity search",
			"Metadata in JSON format for filtering results",
			"A vector similarity search function, indexes, and row-level security policies",
		},
	},
	{
		Name:        "marketplace_servers",
		Description: "Discoverable MCP servers shown on the Marketplace page.",
		Details: []string{
			"Server metadata: name, description, repository URL",
			"Installation commands and Docker images",
			"Tool schemas and examples",
			"Statistics and ratings",
		},
	},
	{
		Name:        "user_server_installations",
		Description: "Which servers each user has installed.",
		Details: []string{
			"Installation status and configuration",
			"User-specific settings and API keys",
		},
	},
	{
		Name:        "server_reviews",
		Description: "User reviews and ratings for marketplace servers.",
	},
	{
		Name:        "server_content_pages",
		Description: "SEO-friendly content pages for each server.",
	},
	{
		Name:        "crawl_sessions",
		Description: "Logs of marketplace discovery crawl sessions.",
	},
}

// ideSnippets are the per-IDE connection instructions for the backend's MCP
// endpoint.
func ideSnippets(mcpURL string) []templates.IDESnippet {
	return []templates.IDESnippet{
		{IDE: "Windsurf", Snippet: fmt.Sprintf(`{
  "mcpServers": {
    "mymcp": {
      "command": "curl",
      "args": ["%s"]
    }
  }
}`, mcpURL)},
		{IDE: "Cursor", Snippet: "Connect to: " + mcpURL},
		{IDE: "Cline/Roo Code", Snippet: fmt.Sprintf(`{
  "mcpServers": {
    "mymcp": {
      "url": "%s"
    }
  }
}`, mcpURL)},
		{IDE: "Claude Code", Snippet: "claude mcp add MyMCP " + mcpURL},
	}
}
