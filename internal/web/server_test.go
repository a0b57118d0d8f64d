package web

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mymcp/console/internal/backend"
	"github.com/mymcp/console/internal/recorder"
	"github.com/mymcp/console/internal/toolstore"
)

// fakeBackend scripts the backend API for server tests and records which
// endpoints were hit.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	session backend.RecordingSession
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calls: make(map[string]int),
		session: backend.RecordingSession{
			ID:     "sess-e2e",
			Name:   "Login Flow",
			Status: backend.StatusRecording,
			Actions: []backend.RecordedAction{
				{Type: "navigate", Description: "Navigate to /login"},
				{Type: "type", Description: "Type username"},
				{Type: "click", Description: "Click Submit"},
			},
			ActionsCount: 3,
			StartTime:    time.Now().Add(-5 * time.Second).UnixMilli(),
		},
	}
}

func (f *fakeBackend) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	record := func(key string, fn http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.calls[key]++
			f.mu.Unlock()
			fn(w, r)
		}
	}

	mux.HandleFunc("GET /health", record("health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("GET /extension/status", record("status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"connected": true, "websocketReady": false})
	}))
	mux.HandleFunc("POST /recorder/start", record("start", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"sessionId": "sess-e2e", "message": "Recording started"})
	}))
	mux.HandleFunc("GET /recorder/sessions", record("list", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		sessions := []backend.RecordingSession{f.session}
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"success": true, "sessions": sessions})
	}))
	mux.HandleFunc("GET /recorder/sessions/{id}", record("get", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		session := f.session
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"session": session})
	}))
	mux.HandleFunc("POST /recorder/stop", record("stop", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.session.Status = backend.StatusStopped
		f.session.Duration = 5000
		session := f.session
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"session": session})
	}))
	mux.HandleFunc("DELETE /recorder/sessions/{id}", record("delete", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("POST /recorder/sessions/{id}/generate-tool", record("generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"toolCode": "def execute_recorded_action():\n    pass"})
	}))
	mux.HandleFunc("POST /agents/register", record("register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	mux.HandleFunc("GET /tools", record("tools", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"tools": []map[string]string{
			{"name": "agent_login", "description": "registered agent"},
			{"name": "navigate", "description": "built-in"},
		}})
	}))
	mux.HandleFunc("POST /tools/{name}/execute", record("execute", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "result": "ok"})
	}))
	mux.HandleFunc("GET /setup", record("setup", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"servers": []map[string]any{
			{"server": "github", "ready": false, "requirements": []map[string]any{
				{"key": "GITHUB_TOKEN", "required": true, "configured": false},
			}},
		}})
	}))
	return mux
}

type testConsole struct {
	client   *http.Client
	base     string
	backend  *fakeBackend
	toolsDir string
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()

	fake := newFakeBackend()
	backendSrv := httptest.NewServer(fake.handler())
	t.Cleanup(backendSrv.Close)

	apiClient := backend.NewClient(backendSrv.URL, 5*time.Second)
	gate := recorder.NewGate(apiClient)
	lifecycle := recorder.NewLifecycle(apiClient, gate, nil)
	catalog := recorder.NewCatalog(apiClient)
	generator := recorder.NewGenerator(apiClient, nil)
	toolsDir := t.TempDir()
	tools := toolstore.New(toolsDir)
	persister := recorder.NewPersister(apiClient, tools, nil)

	server := NewServer(0, apiClient, gate, lifecycle, catalog, generator, persister, tools, t.TempDir())
	consoleSrv := httptest.NewServer(server.Handler())
	t.Cleanup(consoleSrv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("creating cookie jar: %v", err)
	}

	return &testConsole{
		client:   &http.Client{Jar: jar},
		base:     consoleSrv.URL,
		backend:  fake,
		toolsDir: toolsDir,
	}
}

func (c *testConsole) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := c.client.Get(c.base + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (c *testConsole) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.client.PostForm(c.base+path, form)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRecordingToSavedToolWorkflow(t *testing.T) {
	c := newTestConsole(t)

	// Start a named recording.
	resp := c.postForm(t, "/api/recorder/start", url.Values{
		"name":        {"Login Flow"},
		"description": {"records the login"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start returned %d", resp.StatusCode)
	}
	if c.backend.count("start") != 1 {
		t.Fatalf("backend start calls = %d, want 1", c.backend.count("start"))
	}

	// Poll the active session.
	resp = c.get(t, "/api/recorder/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status returned %d", resp.StatusCode)
	}
	if c.backend.count("get") != 1 {
		t.Fatalf("backend get calls = %d, want 1", c.backend.count("get"))
	}

	// Stop it.
	resp = c.postForm(t, "/api/recorder/stop", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stop returned %d", resp.StatusCode)
	}
	if c.backend.count("stop") != 1 {
		t.Fatalf("backend stop calls = %d, want 1", c.backend.count("stop"))
	}

	// Generate a tool from the stopped session.
	resp = c.postForm(t, "/api/tools/generate", url.Values{"session_id": {"sess-e2e"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate returned %d", resp.StatusCode)
	}

	// Save it; the cached generation must be reused, not regenerated.
	resp = c.postForm(t, "/api/tools/save", url.Values{
		"session_id":       {"sess-e2e"},
		"tool_name":        {"Login Flow"},
		"tool_description": {"logs in"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save returned %d", resp.StatusCode)
	}
	if c.backend.count("generate") != 1 {
		t.Errorf("backend generate calls = %d, want 1 (save reuses the cache)", c.backend.count("generate"))
	}
	if c.backend.count("register") != 1 {
		t.Errorf("backend register calls = %d, want 1", c.backend.count("register"))
	}

	// The tool and its metadata sidecar landed on disk.
	entries, err := os.ReadDir(c.toolsDir)
	if err != nil {
		t.Fatalf("reading tools dir: %v", err)
	}
	var toolFile string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".py") {
			toolFile = e.Name()
		}
	}
	if toolFile == "" {
		t.Fatal("no tool file written")
	}
	suffix := strings.TrimSuffix(strings.TrimPrefix(toolFile, "browser_tool_"), ".py")
	if len(suffix) != 8 {
		t.Errorf("tool file = %q, want browser_tool_<8 char suffix>.py", toolFile)
	}

	data, err := os.ReadFile(filepath.Join(c.toolsDir, strings.TrimSuffix(toolFile, ".py")+"_metadata.json"))
	if err != nil {
		t.Fatalf("reading metadata sidecar: %v", err)
	}
	var meta toolstore.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("unmarshaling sidecar: %v", err)
	}
	if meta.Name != "Login Flow" || meta.RecordingSessionID != "sess-e2e" || !meta.RegisteredAsAgent {
		t.Errorf("metadata = %+v", meta)
	}
}

func TestStartWithoutNameDoesNotReachBackend(t *testing.T) {
	c := newTestConsole(t)

	resp := c.postForm(t, "/api/recorder/start", url.Values{"name": {""}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start returned %d", resp.StatusCode)
	}
	if c.backend.count("start") != 0 {
		t.Errorf("backend start calls = %d, want 0", c.backend.count("start"))
	}
}

func TestDeleteSessionRefetchesList(t *testing.T) {
	c := newTestConsole(t)

	req, err := http.NewRequest(http.MethodDelete, c.base+"/api/sessions/sess-e2e", nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete returned %d", resp.StatusCode)
	}
	if c.backend.count("delete") != 1 {
		t.Errorf("backend delete calls = %d, want 1", c.backend.count("delete"))
	}
	if c.backend.count("list") != 1 {
		t.Errorf("backend list calls = %d, want 1 (re-fetch after delete)", c.backend.count("list"))
	}
}

func TestTestToolRequiresWebSocket(t *testing.T) {
	c := newTestConsole(t)

	// The fake backend reports websocketReady false.
	resp := c.postForm(t, "/api/tools/test/agent_login", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("test returned %d", resp.StatusCode)
	}
	if c.backend.count("execute") != 0 {
		t.Errorf("backend execute calls = %d, want 0 when the gate refuses", c.backend.count("execute"))
	}
}

func TestChatExecuteRejectsBadArguments(t *testing.T) {
	c := newTestConsole(t)

	resp := c.postForm(t, "/api/chat/execute", url.Values{
		"tool":      {"navigate"},
		"arguments": {"{not json"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("execute returned %d", resp.StatusCode)
	}
	if c.backend.count("execute") != 0 {
		t.Errorf("backend execute calls = %d, want 0 for invalid arguments", c.backend.count("execute"))
	}
}

func TestChatExecuteDispatchesTool(t *testing.T) {
	c := newTestConsole(t)

	resp := c.postForm(t, "/api/chat/execute", url.Values{
		"tool":      {"navigate"},
		"arguments": {`{"url": "https://example.com"}`},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("execute returned %d", resp.StatusCode)
	}
	if c.backend.count("execute") != 1 {
		t.Errorf("backend execute calls = %d, want 1", c.backend.count("execute"))
	}
}

func TestClientCookieMinted(t *testing.T) {
	c := newTestConsole(t)

	resp := c.get(t, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("recorder page returned %d", resp.StatusCode)
	}

	base, _ := url.Parse(c.base)
	for _, cookie := range c.client.Jar.Cookies(base) {
		if cookie.Name == clientCookie && cookie.Value != "" {
			return
		}
	}
	t.Error("first visit did not mint a client cookie")
}

func TestSetupPageRenders(t *testing.T) {
	c := newTestConsole(t)

	resp := c.get(t, "/setup")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("setup page returned %d", resp.StatusCode)
	}
	if c.backend.count("setup") != 1 {
		t.Errorf("backend setup calls = %d, want 1", c.backend.count("setup"))
	}
}

func TestHealthEndpoint(t *testing.T) {
	c := newTestConsole(t)

	resp := c.get(t, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health returned %d", resp.StatusCode)
	}
}

func TestExtensionZipMissingFiles(t *testing.T) {
	c := newTestConsole(t)

	resp := c.get(t, "/extension.zip")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("extension.zip returned %d, want 500 with an empty extension dir", resp.StatusCode)
	}
}
