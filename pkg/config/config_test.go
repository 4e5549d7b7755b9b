package config

import (
	"path/filepath"
	"testing"
)

// TestDefault verifies that the default configuration is fully populated
// with distinct UID roots.
func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Metadata.PatientName == "" {
		t.Error("Expected a default patient name")
	}
	if cfg.Metadata.PatientID == "" {
		t.Error("Expected a default patient ID")
	}
	if cfg.Metadata.SeriesDescription == "" {
		t.Error("Expected a default series description")
	}

	roots := []string{cfg.UIDRoots.Study, cfg.UIDRoots.Series, cfg.UIDRoots.Instance}
	for i, root := range roots {
		if root == "" {
			t.Fatalf("Expected a non-empty UID root at index %d", i)
		}
		for j := i + 1; j < len(roots); j++ {
			if root == roots[j] {
				t.Errorf("Expected distinct UID roots, got %q twice", root)
			}
		}
	}
}

// TestLoadConfigMissingFile verifies that a missing config file yields the
// defaults rather than an error.
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error: %v", err)
	}

	want := Default()
	if cfg.Metadata.PatientName != want.Metadata.PatientName {
		t.Errorf("Expected default patient name %q, got %q",
			want.Metadata.PatientName, cfg.Metadata.PatientName)
	}
}

// TestSaveLoadRoundTrip verifies that a saved configuration loads back
// unchanged.
func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Metadata.PatientName = "Jane Roe"
	cfg.Metadata.PatientID = "JR-42"
	cfg.UIDRoots.Instance = "9.9.9"

	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Metadata.PatientName != "Jane Roe" {
		t.Errorf("Expected patient name %q, got %q", "Jane Roe", loaded.Metadata.PatientName)
	}
	if loaded.Metadata.PatientID != "JR-42" {
		t.Errorf("Expected patient ID %q, got %q", "JR-42", loaded.Metadata.PatientID)
	}
	if loaded.UIDRoots.Instance != "9.9.9" {
		t.Errorf("Expected instance root %q, got %q", "9.9.9", loaded.UIDRoots.Instance)
	}

	// Fields absent from the file keep their defaults.
	if loaded.UIDRoots.Study != Default().UIDRoots.Study {
		t.Errorf("Expected default study root, got %q", loaded.UIDRoots.Study)
	}
}
