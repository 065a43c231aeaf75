package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/beepbasket/beepbasket/internal/hass"
)

func TestFilename_DateStamped(t *testing.T) {
	at := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	if got, want := Filename(at), "barcode_mappings_2026-08-31.json"; got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	mappings := map[string]hass.MappingRecord{
		"111": {Name: "Oat Milk", Quantity: "1L"},
		"222": {Name: "Pasta", Brands: "Barilla", Stores: "Rewe"},
	}

	path, err := WriteFile(dir, mappings, time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if filepath.Base(path) != "barcode_mappings_2026-08-31.json" {
		t.Fatalf("path = %q, want date-stamped filename", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var parsed map[string]hass.MappingRecord
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if !reflect.DeepEqual(parsed, mappings) {
		t.Fatalf("round trip = %#v, want %#v", parsed, mappings)
	}
}

func TestWriteFile_EmptySnapshot(t *testing.T) {
	path, err := WriteFile(t.TempDir(), nil, time.Now())
	if err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var parsed map[string]hass.MappingRecord
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(parsed) != 0 {
		t.Fatalf("parsed = %#v, want empty object", parsed)
	}
}
