package recorder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mymcp/console/internal/backend"
	"github.com/mymcp/console/internal/toolstore"
)

type registrarFunc func(ctx context.Context, reg backend.AgentRegistration) error

func (f registrarFunc) RegisterAgent(ctx context.Context, reg backend.AgentRegistration) error {
	return f(ctx, reg)
}

type mockStore struct {
	saveFn func(name, description, code, sessionID string, registeredAsAgent bool) (*toolstore.Metadata, error)
}

func (m *mockStore) Save(name, description, code, sessionID string, registeredAsAgent bool) (*toolstore.Metadata, error) {
	return m.saveFn(name, description, code, sessionID, registeredAsAgent)
}

func okRegistrar() Registrar {
	return registrarFunc(func(ctx context.Context, reg backend.AgentRegistration) error { return nil })
}

func okStore() *mockStore {
	return &mockStore{
		saveFn: func(name, description, code, sessionID string, registeredAsAgent bool) (*toolstore.Metadata, error) {
			return &toolstore.Metadata{FileName: "browser_tool_deadbeef.py"}, nil
		},
	}
}

func TestPersisterSaveBothSucceed(t *testing.T) {
	var gotReg backend.AgentRegistration
	registrar := registrarFunc(func(ctx context.Context, reg backend.AgentRegistration) error {
		gotReg = reg
		return nil
	})
	var gotRegistered bool
	store := &mockStore{
		saveFn: func(name, description, code, sessionID string, registeredAsAgent bool) (*toolstore.Metadata, error) {
			gotRegistered = registeredAsAgent
			return &toolstore.Metadata{FileName: "browser_tool_deadbeef.py"}, nil
		},
	}
	p := NewPersister(registrar, store, nil)

	result, err := p.Save(context.Background(), "Login Flow", "logs in", "def execute_recorded_action():\n    pass", "sess-1")
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if !result.Registered {
		t.Error("expected Registered = true")
	}
	if result.LocalFile != "browser_tool_deadbeef.py" {
		t.Errorf("LocalFile = %q, want the stored file name", result.LocalFile)
	}
	if !gotRegistered {
		t.Error("local save must record the registration outcome")
	}

	if gotReg.Name != "Login Flow" {
		t.Errorf("registration name = %q, want %q", gotReg.Name, "Login Flow")
	}
	if !strings.Contains(gotReg.Description, "Generated from recording sess-1") {
		t.Errorf("registration description missing session provenance: %q", gotReg.Description)
	}
	if len(gotReg.Tools) != 1 || gotReg.Tools[0] != "execute_login_flow_workflow" {
		t.Errorf("registration tools = %v, want [execute_login_flow_workflow]", gotReg.Tools)
	}
	if !strings.Contains(gotReg.Code, "def _original_execute_recorded_action") {
		t.Error("agent code should rename the recorded entry point")
	}
	if !gotReg.Metadata.GeneratedFromRecording || gotReg.Metadata.RecordingSessionID != "sess-1" {
		t.Errorf("registration metadata = %+v, want recording provenance", gotReg.Metadata)
	}

	if len(result.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(result.Steps))
	}
	if result.Steps[0].Step != StepRegisterAgent || !result.Steps[0].OK {
		t.Errorf("Steps[0] = %+v, want successful %s", result.Steps[0], StepRegisterAgent)
	}
	if result.Steps[1].Step != StepLocalSave || !result.Steps[1].OK {
		t.Errorf("Steps[1] = %+v, want successful %s", result.Steps[1], StepLocalSave)
	}
}

func TestPersisterSaveRegistrationFailsLocalSucceeds(t *testing.T) {
	registrar := registrarFunc(func(ctx context.Context, reg backend.AgentRegistration) error {
		return errors.New("agents endpoint unavailable")
	})
	p := NewPersister(registrar, okStore(), nil)

	result, err := p.Save(context.Background(), "Login Flow", "", "code", "sess-1")
	if err != nil {
		t.Fatalf("Save() error: %v, local fallback should succeed", err)
	}
	if result.Registered {
		t.Error("expected Registered = false")
	}
	if !result.Saved() {
		t.Error("expected Saved() = true with a local file")
	}
	if result.Steps[0].OK || result.Steps[0].Err == "" {
		t.Errorf("Steps[0] = %+v, want recorded registration failure", result.Steps[0])
	}
}

func TestPersisterSaveBothFail(t *testing.T) {
	registrar := registrarFunc(func(ctx context.Context, reg backend.AgentRegistration) error {
		return errors.New("agents endpoint unavailable")
	})
	store := &mockStore{
		saveFn: func(name, description, code, sessionID string, registeredAsAgent bool) (*toolstore.Metadata, error) {
			return nil, errors.New("disk full")
		},
	}
	p := NewPersister(registrar, store, nil)

	result, err := p.Save(context.Background(), "Login Flow", "", "code", "sess-1")
	if err == nil {
		t.Fatal("expected error when both persistence paths fail")
	}
	if result == nil || result.Saved() {
		t.Error("expected an unsaved result alongside the error")
	}
}

func TestPersisterSaveValidation(t *testing.T) {
	p := NewPersister(okRegistrar(), okStore(), nil)

	tests := []struct {
		name     string
		toolName string
		code     string
		session  string
		want     error
	}{
		{"empty name", "", "code", "sess-1", ErrToolNameRequired},
		{"whitespace name", "   ", "code", "sess-1", ErrToolNameRequired},
		{"empty code", "Login Flow", "", "sess-1", ErrToolCodeRequired},
		{"empty session", "Login Flow", "code", "", ErrSessionRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Save(context.Background(), tt.toolName, "", tt.code, tt.session)
			if !errors.Is(err, tt.want) {
				t.Errorf("Save() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPersisterSaveLocalFailsRegistrationSucceeds(t *testing.T) {
	store := &mockStore{
		saveFn: func(name, description, code, sessionID string, registeredAsAgent bool) (*toolstore.Metadata, error) {
			return nil, errors.New("disk full")
		},
	}
	p := NewPersister(okRegistrar(), store, nil)

	result, err := p.Save(context.Background(), "Login Flow", "", "code", "sess-1")
	if err != nil {
		t.Fatalf("Save() error: %v, registration alone should satisfy", err)
	}
	if !result.Registered || result.LocalFile != "" {
		t.Errorf("result = %+v, want registered with no local file", result)
	}
	if result.Steps[1].OK {
		t.Errorf("Steps[1] = %+v, want recorded local failure", result.Steps[1])
	}
}
