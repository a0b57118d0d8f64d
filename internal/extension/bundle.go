// Package extension packages the browser extension for download from the
// recorder page.
package extension

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PrebuiltZipName is the pre-built bundle preferred over dynamic zipping.
const PrebuiltZipName = "mymcp-extension-latest.zip"

// essentialFiles is the minimum file set a working extension install needs.
var essentialFiles = []string{
	"manifest.json",
	"popup.html",
	"connect.html",
	"lib/popup.js",
	"lib/background.js",
	"lib/connect.js",
	"lib/content.js",
	"lib/relayConnection.js",
}

// Bundle returns the extension as a zip archive. A pre-built
// mymcp-extension-latest.zip in the extension directory wins; otherwise the
// essential files plus icons are zipped on the fly, skipping anything
// missing on disk.
func Bundle(dir string) ([]byte, error) {
	if data, err := os.ReadFile(filepath.Join(dir, PrebuiltZipName)); err == nil {
		return data, nil
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	wrote := 0
	for _, name := range essentialFiles {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			continue
		}
		if err := addFile(zw, name, data); err != nil {
			return nil, err
		}
		wrote++
	}

	iconsDir := filepath.Join(dir, "icons")
	if entries, err := os.ReadDir(iconsDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(iconsDir, entry.Name()))
			if err != nil {
				continue
			}
			if err := addFile(zw, "icons/"+entry.Name(), data); err != nil {
				return nil, err
			}
			wrote++
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing extension zip: %w", err)
	}
	if wrote == 0 {
		return nil, fmt.Errorf("no extension files found in %s", dir)
	}
	return buf.Bytes(), nil
}

func addFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s to extension zip: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s to extension zip: %w", name, err)
	}
	return nil
}
