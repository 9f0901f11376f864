// Package sessionize serializes schedule documents in the Sessionize
// "view/all" layout.
package sessionize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"schedgen/internal/models"
)

// Marshal renders doc with two-space indentation, without HTML escaping and
// without a trailing newline. Non-ASCII text is written as raw UTF-8.
func Marshal(doc *models.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteFile marshals doc and writes it to path, creating parent
// directories as needed.
func WriteFile(path string, doc *models.Document) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
