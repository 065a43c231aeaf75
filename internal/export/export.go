// Package export writes the in-memory mapping snapshot to a local JSON
// document. Exporting is purely local: no host call, no refresh.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/beepbasket/beepbasket/internal/hass"
)

// Filename returns the date-stamped name of an export document.
func Filename(t time.Time) string {
	return fmt.Sprintf("barcode_mappings_%s.json", t.Format("2006-01-02"))
}

// Write serializes the full snapshot as pretty-printed JSON. The caller
// passes the unfiltered mapping table; an active search filter never narrows
// an export.
func Write(w io.Writer, mappings map[string]hass.MappingRecord) error {
	if mappings == nil {
		mappings = map[string]hass.MappingRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(mappings); err != nil {
		return fmt.Errorf("encode mappings: %w", err)
	}
	return nil
}

// WriteFile writes the export document into dir, creating it if needed, and
// returns the full path of the written file.
func WriteFile(dir string, mappings map[string]hass.MappingRecord, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, Filename(now))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := Write(file, mappings); err != nil {
		return "", err
	}
	return path, nil
}
