package toolstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSaveWritesSourceAndSidecar(t *testing.T) {
	store := New(t.TempDir())

	meta, err := store.Save("Login Flow", "logs in", "def execute_recorded_action():\n    pass", "sess-1", true)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if !strings.HasPrefix(meta.FileName, "browser_tool_") || !strings.HasSuffix(meta.FileName, ".py") {
		t.Errorf("FileName = %q, want browser_tool_<suffix>.py", meta.FileName)
	}
	suffix := strings.TrimSuffix(strings.TrimPrefix(meta.FileName, "browser_tool_"), ".py")
	if len(suffix) != 8 {
		t.Errorf("suffix = %q, want 8 characters", suffix)
	}

	source, err := os.ReadFile(filepath.Join(store.Dir(), meta.FileName))
	if err != nil {
		t.Fatalf("reading tool file: %v", err)
	}
	for _, want := range []string{
		"def execute_recorded_action",
		"TOOL_METADATA = {",
		`"name": "Login Flow"`,
		`"generated_from_recording": True`,
		`"registered_as_agent": True`,
	} {
		if !strings.Contains(string(source), want) {
			t.Errorf("tool source missing %q", want)
		}
	}

	sidecarPath := filepath.Join(store.Dir(), strings.TrimSuffix(meta.FileName, ".py")+"_metadata.json")
	data, err := os.ReadFile(sidecarPath)
	if err != nil {
		t.Fatalf("reading sidecar: %v", err)
	}
	var sidecar Metadata
	if err := json.Unmarshal(data, &sidecar); err != nil {
		t.Fatalf("unmarshaling sidecar: %v", err)
	}
	if sidecar.Name != "Login Flow" || sidecar.RecordingSessionID != "sess-1" || !sidecar.RegisteredAsAgent {
		t.Errorf("sidecar = %+v", sidecar)
	}
	if sidecar.Type != "browser_automation" {
		t.Errorf("Type = %q, want browser_automation", sidecar.Type)
	}
}

func TestSaveUniqueFileNames(t *testing.T) {
	store := New(t.TempDir())

	first, err := store.Save("One", "", "pass", "sess-1", false)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	second, err := store.Save("Two", "", "pass", "sess-2", false)
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if first.FileName == second.FileName {
		t.Errorf("both saves produced %q", first.FileName)
	}
}

func TestListPrefersSidecar(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Save("Login Flow", "logs in", "pass", "sess-1", false); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	tools, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(tools) != 1 {
		t.Fatalf("len(tools) = %d, want 1", len(tools))
	}
	if tools[0].Metadata.Name != "Login Flow" || tools[0].Metadata.Description != "logs in" {
		t.Errorf("metadata = %+v", tools[0].Metadata)
	}
}

func TestListFallsBackToEmbeddedMetadata(t *testing.T) {
	dir := t.TempDir()
	source := `"""A legacy tool"""

def run():
    pass

TOOL_METADATA = {
    "name": "Legacy Checkout",
    "description": "Automates checkout",
    "generated_from_recording": True,
}
`
	if err := os.WriteFile(filepath.Join(dir, "browser_tool_old.py"), []byte(source), 0o644); err != nil {
		t.Fatalf("writing legacy tool: %v", err)
	}

	tools, err := New(dir).List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(tools) != 1 {
		t.Fatalf("len(tools) = %d, want 1", len(tools))
	}
	if tools[0].Metadata.Name != "Legacy Checkout" {
		t.Errorf("Name = %q, want the embedded metadata name", tools[0].Metadata.Name)
	}
	if tools[0].Metadata.Description != "Automates checkout" {
		t.Errorf("Description = %q", tools[0].Metadata.Description)
	}
}

func TestListSynthesizesMetadataForOrphans(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "my_custom_tool.py"), []byte("def run():\n    pass\n"), 0o644); err != nil {
		t.Fatalf("writing orphan tool: %v", err)
	}

	tools, err := New(dir).List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(tools) != 1 {
		t.Fatalf("len(tools) = %d, want 1", len(tools))
	}
	if tools[0].Metadata.Name != "My Custom Tool" {
		t.Errorf("Name = %q, want a title-cased filename", tools[0].Metadata.Name)
	}
}

func TestListSkipsNonToolFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"__init__.py", "notes.txt", "browser_tool_abc_metadata.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}

	tools, err := New(dir).List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(tools) != 0 {
		t.Errorf("len(tools) = %d, want 0", len(tools))
	}
}

func TestListMissingDirectory(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "does-not-exist"))

	tools, err := store.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if tools != nil {
		t.Errorf("tools = %v, want nil for missing directory", tools)
	}
}

func TestReadRejectsPathTraversal(t *testing.T) {
	store := New(t.TempDir())

	if _, err := store.Read("../secrets.py"); err == nil {
		t.Fatal("expected error for path outside the store")
	}
}
