package extension

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func zipNames(t *testing.T, data []byte) map[string]bool {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading zip: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	return names
}

func TestBundlePrefersPrebuiltZip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, PrebuiltZipName, "prebuilt-bytes")
	writeFile(t, dir, "manifest.json", "{}")

	data, err := Bundle(dir)
	if err != nil {
		t.Fatalf("Bundle() error: %v", err)
	}
	if string(data) != "prebuilt-bytes" {
		t.Error("expected the pre-built zip to be served verbatim")
	}
}

func TestBundleZipsEssentialFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "manifest.json", "{}")
	writeFile(t, dir, "popup.html", "<html></html>")
	writeFile(t, dir, "lib/popup.js", "// js")
	writeFile(t, dir, "icons/icon16.png", "png-bytes")
	writeFile(t, dir, "icons/readme.txt", "not an icon")

	data, err := Bundle(dir)
	if err != nil {
		t.Fatalf("Bundle() error: %v", err)
	}

	names := zipNames(t, data)
	for _, want := range []string{"manifest.json", "popup.html", "lib/popup.js", "icons/icon16.png"} {
		if !names[want] {
			t.Errorf("zip missing %s", want)
		}
	}
	if names["icons/readme.txt"] {
		t.Error("zip should only include png icons")
	}
}

func TestBundleSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "manifest.json", "{}")

	data, err := Bundle(dir)
	if err != nil {
		t.Fatalf("Bundle() error: %v", err)
	}
	names := zipNames(t, data)
	if !names["manifest.json"] || len(names) != 1 {
		t.Errorf("zip contents = %v, want manifest.json only", names)
	}
}

func TestBundleEmptyDirectory(t *testing.T) {
	if _, err := Bundle(t.TempDir()); err == nil {
		t.Fatal("expected error when no extension files exist")
	}
}
