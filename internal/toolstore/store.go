// Package toolstore persists generated tools in the shared agent-resources
// tools directory: one source file plus a sibling JSON metadata file per
// tool. The Tools page and external agent loaders read this directory.
package toolstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	toolFilePrefix  = "browser_tool_"
	metadataSuffix  = "_metadata.json"
	createdAtLayout = "2006-01-02 15:04:05"
)

// Metadata is the sidecar record written next to each tool file.
type Metadata struct {
	Name                   string `json:"name"`
	Description            string `json:"description"`
	FileName               string `json:"file_name"`
	GeneratedFromRecording bool   `json:"generated_from_recording"`
	RecordingSessionID     string `json:"recording_session_id,omitempty"`
	CreatedAt              string `json:"created_at,omitempty"`
	Type                   string `json:"type"`
	RegisteredAsAgent      bool   `json:"registered_as_agent,omitempty"`
}

// Tool is a saved tool discovered in the store.
type Tool struct {
	Path     string
	Metadata Metadata
}

// Store reads and writes the tools directory. Concurrent writers are not
// coordinated; the randomized filename keeps collisions unlikely.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the tools directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the tool source and its metadata sidecar. The two writes are
// not transactional: a crash in between leaves an orphaned source file,
// which List tolerates by synthesizing metadata. Returns the metadata as
// written, including the generated file name.
func (s *Store) Save(name, description, code, sessionID string, registeredAsAgent bool) (*Metadata, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating tools directory: %w", err)
	}

	fileName := toolFilePrefix + randomSuffix() + ".py"
	meta := Metadata{
		Name:                   name,
		Description:            description,
		FileName:               fileName,
		GeneratedFromRecording: true,
		RecordingSessionID:     sessionID,
		CreatedAt:              time.Now().Format(createdAtLayout),
		Type:                   "browser_automation",
		RegisteredAsAgent:      registeredAsAgent,
	}

	source := RenderSource(meta, code)
	if err := os.WriteFile(filepath.Join(s.dir, fileName), []byte(source), 0o644); err != nil {
		return nil, fmt.Errorf("writing tool file: %w", err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, metadataFileName(fileName)), data, 0o644); err != nil {
		return nil, fmt.Errorf("writing metadata file: %w", err)
	}

	return &meta, nil
}

// List returns every tool in the store. Metadata comes from the JSON
// sidecar when present; otherwise a legacy TOOL_METADATA block embedded in
// the source is tried, and finally defaults are synthesized from the
// filename so an orphaned tool file still renders.
func (s *Store) List() ([]Tool, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tools directory: %w", err)
	}

	var tools []Tool
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".py") || strings.HasPrefix(name, "__") {
			continue
		}

		path := filepath.Join(s.dir, name)
		meta, ok := s.loadSidecar(name)
		if !ok {
			meta = s.extractLegacyMetadata(path, name)
		}
		tools = append(tools, Tool{Path: path, Metadata: meta})
	}
	return tools, nil
}

// Read returns the source of a stored tool by file name.
func (s *Store) Read(fileName string) (string, error) {
	if fileName != filepath.Base(fileName) {
		return "", fmt.Errorf("invalid tool file name %q", fileName)
	}
	data, err := os.ReadFile(filepath.Join(s.dir, fileName))
	if err != nil {
		return "", fmt.Errorf("reading tool file: %w", err)
	}
	return string(data), nil
}

func (s *Store) loadSidecar(fileName string) (Metadata, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, metadataFileName(fileName)))
	if err != nil {
		return Metadata{}, false
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, false
	}
	if meta.FileName == "" {
		meta.FileName = fileName
	}
	return meta, true
}

var (
	legacyNameRe = regexp.MustCompile(`TOOL_METADATA\s*=\s*\{[^}]*?"name":\s*"([^"]*)"`)
	legacyDescRe = regexp.MustCompile(`TOOL_METADATA\s*=\s*\{[^}]*?"description":\s*"([^"]*)"`)
)

// extractLegacyMetadata is a best-effort fallback for tools saved without a
// sidecar. The regex scrape of the embedded TOOL_METADATA block is legacy
// behavior, not a format contract.
func (s *Store) extractLegacyMetadata(path, fileName string) Metadata {
	meta := Metadata{
		Name:        displayNameFromFile(fileName),
		Description: "Browser automation tool",
		FileName:    fileName,
		Type:        "unknown",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return meta
	}
	if m := legacyNameRe.FindSubmatch(data); m != nil {
		meta.Name = string(m[1])
	}
	if m := legacyDescRe.FindSubmatch(data); m != nil {
		meta.Description = string(m[1])
	}
	return meta
}

func metadataFileName(toolFile string) string {
	return strings.TrimSuffix(toolFile, ".py") + metadataSuffix
}

func displayNameFromFile(fileName string) string {
	base := strings.TrimSuffix(fileName, ".py")
	words := strings.Split(strings.ReplaceAll(base, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// RenderSource wraps raw tool code with the doc header and embedded
// TOOL_METADATA block the agent loader expects.
func RenderSource(meta Metadata, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\"\"\"\n%s\n\n", meta.Description)
	fmt.Fprintf(&b, "Generated from browser recording session: %s\n", meta.RecordingSessionID)
	fmt.Fprintf(&b, "Tool Name: %s\n\"\"\"\n\n", meta.Name)
	b.WriteString(code)
	b.WriteString("\n\n# Tool metadata for agent integration\n")
	b.WriteString("TOOL_METADATA = {\n")
	fmt.Fprintf(&b, "    \"name\": %q,\n", meta.Name)
	fmt.Fprintf(&b, "    \"description\": %q,\n", meta.Description)
	fmt.Fprintf(&b, "    \"generated_from_recording\": True,\n")
	fmt.Fprintf(&b, "    \"recording_session_id\": %q,\n", meta.RecordingSessionID)
	fmt.Fprintf(&b, "    \"file_name\": %q,\n", meta.FileName)
	fmt.Fprintf(&b, "    \"registered_as_agent\": %s,\n", pythonBool(meta.RegisteredAsAgent))
	b.WriteString("}\n")
	return b.String()
}

func pythonBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
