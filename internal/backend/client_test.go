package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestStartRecording(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/recorder/start" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req struct {
			SessionName string `json:"sessionName"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.SessionName != "Login Flow" {
			t.Errorf("sessionName = %q, want %q", req.SessionName, "Login Flow")
		}
		json.NewEncoder(w).Encode(map[string]string{
			"sessionId": "sess-1",
			"message":   "Recording started",
		})
	}))

	resp, err := client.StartRecording(context.Background(), "Login Flow", "records the login")
	if err != nil {
		t.Fatalf("StartRecording() error: %v", err)
	}
	if resp.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want %q", resp.SessionID, "sess-1")
	}
}

func TestStopRecordingSendsNoSessionID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recorder/stop" {
			t.Errorf("path = %q, want /recorder/stop", r.URL.Path)
		}
		if r.ContentLength > 0 {
			t.Error("stop must not carry a request body")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"session": map[string]any{"id": "sess-1", "status": "stopped", "actionsCount": 3},
		})
	}))

	session, err := client.StopRecording(context.Background())
	if err != nil {
		t.Fatalf("StopRecording() error: %v", err)
	}
	if session.ID != "sess-1" || session.Status != StatusStopped || session.ActionsCount != 3 {
		t.Errorf("session = %+v, want stopped sess-1 with 3 actions", session)
	}
}

func TestListSessions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"sessions": []map[string]any{
				{"id": "a", "name": "First", "status": "stopped"},
				{"id": "b", "name": "Second", "status": "recording"},
			},
		})
	}))

	sessions, err := client.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(sessions) != 2 || sessions[0].ID != "a" || sessions[1].ID != "b" {
		t.Errorf("sessions = %+v, want a then b in backend order", sessions)
	}
}

func TestGenerateTool(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recorder/sessions/sess-1/generate-tool" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"toolCode": "def execute_recorded_action():\n    pass"})
	}))

	code, err := client.GenerateTool(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("GenerateTool() error: %v", err)
	}
	if !strings.Contains(code, "def execute_recorded_action") {
		t.Errorf("unexpected tool code: %q", code)
	}
}

func TestErrorFieldExtraction(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "session has no actions"})
	}))

	_, err := client.GenerateTool(context.Background(), "sess-1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "session has no actions") {
		t.Errorf("error = %q, want the backend's error field", err)
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error = %q, want the status code", err)
	}
}

func TestErrorBodyTruncation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 1000)))
	}))

	err := client.Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(err.Error()) > 300 {
		t.Errorf("error not truncated: %d chars", len(err.Error()))
	}
}

func TestErrorBodyTruncationRuneBoundary(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("世", 100)))
	}))

	err := client.Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !utf8.ValidString(err.Error()) {
		t.Errorf("truncation split a multi-byte rune: %q", err.Error())
	}
}

func TestUnreachableBackend(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)

	if err := client.Health(context.Background()); err == nil {
		t.Fatal("expected error from unreachable backend")
	}
}

func TestExecuteToolDefaultsArguments(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tools/my_tool/execute" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req struct {
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Arguments == nil {
			t.Error("arguments must default to an empty object, not null")
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "result": "done"})
	}))

	result, err := client.ExecuteTool(context.Background(), "my_tool", nil)
	if err != nil {
		t.Fatalf("ExecuteTool() error: %v", err)
	}
	if !result.Success || result.Result != "done" {
		t.Errorf("result = %+v", result)
	}
}

func TestRegisterAgent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/agents/register" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var reg AgentRegistration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if reg.Name != "Login Flow" || !reg.Metadata.GeneratedFromRecording {
			t.Errorf("registration = %+v", reg)
		}
		w.WriteHeader(http.StatusOK)
	}))

	err := client.RegisterAgent(context.Background(), AgentRegistration{
		Name:     "Login Flow",
		Metadata: AgentMetadata{GeneratedFromRecording: true, RecordingSessionID: "sess-1"},
	})
	if err != nil {
		t.Fatalf("RegisterAgent() error: %v", err)
	}
}

func TestServerSetup(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/setup/github" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"server": "github",
			"ready":  false,
			"requirements": []map[string]any{
				{"key": "GITHUB_TOKEN", "required": true, "configured": false},
			},
		})
	}))

	setup, err := client.ServerSetup(context.Background(), "github")
	if err != nil {
		t.Fatalf("ServerSetup() error: %v", err)
	}
	if setup.Ready || len(setup.Requirements) != 1 || setup.Requirements[0].Key != "GITHUB_TOKEN" {
		t.Errorf("setup = %+v", setup)
	}
}

func TestSessionCompleted(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusRecording, false},
		{StatusStopped, true},
		{StatusCompleted, true},
	}
	for _, tt := range tests {
		s := RecordingSession{Status: tt.status}
		if got := s.Completed(); got != tt.want {
			t.Errorf("Completed() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}
