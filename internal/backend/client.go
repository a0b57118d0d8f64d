// Package backend is the HTTP client for the MyMCP backend API. Every
// console page is a thin view over this client; the backend is the sole
// owner of recording sessions, tools, and marketplace state.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const maxErrorBody = 200

// Client talks to the backend API at a fixed base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client. The timeout applies per request; a
// timed-out call is reported as an error, never retried.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do issues a single request and decodes a JSON response into out (when out
// is non-nil). Non-2xx responses are normalized into an error carrying the
// backend's JSON error field when present, else the truncated raw body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// apiError extracts the JSON error field from a non-success response, else
// the truncated raw body.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &parsed) == nil && parsed.Error != "" {
		return fmt.Errorf("backend returned %d: %s", resp.StatusCode, parsed.Error)
	}

	msg := strings.TrimSpace(string(data))
	if len(msg) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("backend returned %d: %s", resp.StatusCode, msg)
}

// Health probes the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// ExtensionStatus reads the raw browser-extension connection state.
func (c *Client) ExtensionStatus(ctx context.Context) (*ExtensionStatus, error) {
	var status ExtensionStatus
	if err := c.do(ctx, http.MethodGet, "/extension/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// StartResponse is the backend's answer to a session-create request.
type StartResponse struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// StartRecording creates a new recording session.
func (c *Client) StartRecording(ctx context.Context, name, description string) (*StartResponse, error) {
	req := struct {
		SessionName string `json:"sessionName"`
		Description string `json:"description"`
	}{name, description}

	var resp StartResponse
	if err := c.do(ctx, http.MethodPost, "/recorder/start", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopRecording stops the active recording session. The backend tracks the
// active session server-side, so no id is passed; this is a single-session
// model (see the lifecycle docs).
func (c *Client) StopRecording(ctx context.Context) (*RecordingSession, error) {
	var resp struct {
		Session RecordingSession `json:"session"`
	}
	if err := c.do(ctx, http.MethodPost, "/recorder/stop", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

// ListSessions returns all recording sessions in backend order.
func (c *Client) ListSessions(ctx context.Context) ([]RecordingSession, error) {
	var resp struct {
		Success  bool               `json:"success"`
		Sessions []RecordingSession `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, "/recorder/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

// GetSession fetches a single session with its full action list.
func (c *Client) GetSession(ctx context.Context, id string) (*RecordingSession, error) {
	var resp struct {
		Session RecordingSession `json:"session"`
	}
	if err := c.do(ctx, http.MethodGet, "/recorder/sessions/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

// DeleteSession removes a session. Callers must re-fetch the list to
// observe the removal.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/recorder/sessions/"+url.PathEscape(id), nil, nil)
}

// GenerateTool asks the backend to convert a completed session into tool
// source code. The backend validates that the session is completed and has
// at least one action; its error is surfaced verbatim.
func (c *Client) GenerateTool(ctx context.Context, sessionID string) (string, error) {
	var resp struct {
		ToolCode string `json:"toolCode"`
	}
	path := "/recorder/sessions/" + url.PathEscape(sessionID) + "/generate-tool"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.ToolCode, nil
}

// AddAction injects a manual action into the active recording session.
func (c *Client) AddAction(ctx context.Context, action RecordedAction) error {
	return c.do(ctx, http.MethodPost, "/recorder/action", action, nil)
}

// RegisterAgent registers a generated tool as an invocable agent.
func (c *Client) RegisterAgent(ctx context.Context, reg AgentRegistration) error {
	return c.do(ctx, http.MethodPost, "/agents/register", reg, nil)
}

// ListTools returns the tools the backend currently exposes.
func (c *Client) ListTools(ctx context.Context) ([]ToolInfo, error) {
	var resp struct {
		Tools []ToolInfo `json:"tools"`
	}
	if err := c.do(ctx, http.MethodGet, "/tools", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tools, nil
}

// ExecuteTool invokes a backend tool with the given arguments.
func (c *Client) ExecuteTool(ctx context.Context, name string, args map[string]any) (*ToolResult, error) {
	req := struct {
		Arguments map[string]any `json:"arguments"`
	}{args}
	if req.Arguments == nil {
		req.Arguments = map[string]any{}
	}

	var result ToolResult
	path := "/tools/" + url.PathEscape(name) + "/execute"
	if err := c.do(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListServers returns the marketplace servers known to the backend.
func (c *Client) ListServers(ctx context.Context) ([]MarketplaceServer, error) {
	var resp struct {
		Servers []MarketplaceServer `json:"servers"`
	}
	if err := c.do(ctx, http.MethodGet, "/servers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Servers, nil
}

// InstallServer installs a marketplace server by name.
func (c *Client) InstallServer(ctx context.Context, name string) error {
	req := struct {
		ServerName string `json:"serverName"`
	}{name}
	return c.do(ctx, http.MethodPost, "/servers/install", req, nil)
}

// SetupStatus returns the setup state of all servers.
func (c *Client) SetupStatus(ctx context.Context) ([]ServerSetup, error) {
	var resp struct {
		Servers []ServerSetup `json:"servers"`
	}
	if err := c.do(ctx, http.MethodGet, "/setup", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Servers, nil
}

// ServerSetup returns the setup requirements for one server.
func (c *Client) ServerSetup(ctx context.Context, name string) (*ServerSetup, error) {
	var setup ServerSetup
	if err := c.do(ctx, http.MethodGet, "/setup/"+url.PathEscape(name), nil, &setup); err != nil {
		return nil, err
	}
	return &setup, nil
}

// TestCredential checks a credential value against a server's setup
// endpoint before it is stored.
func (c *Client) TestCredential(ctx context.Context, server, key, value string) (*ToolResult, error) {
	req := struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}{key, value}

	var result ToolResult
	path := "/setup/" + url.PathEscape(server) + "/test"
	if err := c.do(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
