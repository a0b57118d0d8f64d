package recorder

import (
	"context"
	"errors"
	"testing"
)

type generatorBackendFunc func(ctx context.Context, sessionID string) (string, error)

func (f generatorBackendFunc) GenerateTool(ctx context.Context, sessionID string) (string, error) {
	return f(ctx, sessionID)
}

func TestGeneratorGenerate(t *testing.T) {
	g := NewGenerator(generatorBackendFunc(func(ctx context.Context, sessionID string) (string, error) {
		return "def execute_recorded_action():\n    pass\n", nil
	}), nil)
	st := &ClientState{}

	tool, err := g.Generate(context.Background(), st, "abc123def456")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if tool.ToolName != "browser_automation_abc123" {
		t.Errorf("ToolName = %q, want %q", tool.ToolName, "browser_automation_abc123")
	}
	if tool.ToolDescription == "" {
		t.Error("expected a default tool description")
	}
	if tool.ToolCode == "" {
		t.Error("expected generated code")
	}
}

func TestGeneratorCachesPerSession(t *testing.T) {
	calls := 0
	g := NewGenerator(generatorBackendFunc(func(ctx context.Context, sessionID string) (string, error) {
		calls++
		return "code", nil
	}), nil)
	st := &ClientState{}

	first, err := g.Generate(context.Background(), st, "sess-1")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	second, err := g.Generate(context.Background(), st, "sess-1")
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 backend call across repeat generations, got %d", calls)
	}
	if first != second {
		t.Error("repeat generation should return the cached tool")
	}
}

func TestGeneratorRegenerateBypassesCache(t *testing.T) {
	calls := 0
	g := NewGenerator(generatorBackendFunc(func(ctx context.Context, sessionID string) (string, error) {
		calls++
		return "code", nil
	}), nil)
	st := &ClientState{}

	if _, err := g.Generate(context.Background(), st, "sess-1"); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if _, err := g.Regenerate(context.Background(), st, "sess-1"); err != nil {
		t.Fatalf("Regenerate() error: %v", err)
	}

	if calls != 2 {
		t.Errorf("expected 2 backend calls after regenerate, got %d", calls)
	}
}

func TestGeneratorRequiresSessionID(t *testing.T) {
	g := NewGenerator(generatorBackendFunc(func(ctx context.Context, sessionID string) (string, error) {
		t.Fatal("backend must not be called")
		return "", nil
	}), nil)

	_, err := g.Generate(context.Background(), &ClientState{}, "")
	if !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
}

func TestGeneratorBackendErrorNotCached(t *testing.T) {
	fail := true
	g := NewGenerator(generatorBackendFunc(func(ctx context.Context, sessionID string) (string, error) {
		if fail {
			return "", errors.New("session has no actions")
		}
		return "code", nil
	}), nil)
	st := &ClientState{}

	if _, err := g.Generate(context.Background(), st, "sess-1"); err == nil {
		t.Fatal("expected error from backend failure")
	}

	fail = false
	tool, err := g.Generate(context.Background(), st, "sess-1")
	if err != nil {
		t.Fatalf("Generate() after recovery error: %v", err)
	}
	if tool.ToolCode != "code" {
		t.Errorf("ToolCode = %q, want %q", tool.ToolCode, "code")
	}
}
