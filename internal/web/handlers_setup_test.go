package web

import (
	"strings"
	"testing"
)

func TestDatabaseSetupInstructions(t *testing.T) {
	if len(sqlEditorSteps) == 0 {
		t.Fatal("no SQL editor steps to render")
	}
	if !strings.Contains(sqlEditorSteps[0], "SQL Editor") {
		t.Errorf("first step = %q, want it to point at the SQL editor", sqlEditorSteps[0])
	}

	want := map[string]bool{
		"site_pages":                false,
		"marketplace_servers":       false,
		"user_server_installations": false,
		"server_reviews":            false,
		"server_content_pages":      false,
		"crawl_sessions":            false,
	}
	for _, table := range databaseTables {
		if table.Description == "" {
			t.Errorf("table %s has no description", table.Name)
		}
		if _, ok := want[table.Name]; ok {
			want[table.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("table %s missing from the setup instructions", name)
		}
	}
}

func TestIDESnippetsEmbedBackendURL(t *testing.T) {
	snippets := ideSnippets("http://localhost:8100/mcp")
	if len(snippets) == 0 {
		t.Fatal("no IDE snippets to render")
	}
	for _, s := range snippets {
		if !strings.Contains(s.Snippet, "http://localhost:8100/mcp") {
			t.Errorf("%s snippet does not reference the MCP endpoint: %q", s.IDE, s.Snippet)
		}
	}
}
