package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Parser.ChunkSizeKB != 64 || cfg.Parser.MaxMemoryMB != 50 {
		t.Errorf("parser defaults: %+v", cfg.Parser)
	}
	if cfg.Query.WorkerThreshold != 100 {
		t.Errorf("query defaults: %+v", cfg.Query)
	}
	if cfg.UI.DensityMode != "comfortable" {
		t.Errorf("ui defaults: %+v", cfg.UI)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Query.WorkerThreshold = 250
	cfg.UI.DensityMode = "compact"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Query.WorkerThreshold != 250 {
		t.Errorf("threshold = %d, want 250", loaded.Query.WorkerThreshold)
	}
	if loaded.UI.DensityMode != "compact" {
		t.Errorf("density = %s, want compact", loaded.UI.DensityMode)
	}
}

func TestLoadFillsZeroedFields(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".specmaster")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	// A hand-edited config that zeroes the budgets.
	raw := `{"parser": {"chunk_size_kb": 0}, "query": {"worker_threshold": -5}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Parser.ChunkSizeKB != 64 {
		t.Errorf("chunk size = %d, want default 64", cfg.Parser.ChunkSizeKB)
	}
	if cfg.Query.WorkerThreshold != 100 {
		t.Errorf("threshold = %d, want default 100", cfg.Query.WorkerThreshold)
	}
}

func TestLoadCorruptFileFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".specmaster")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Parser.ChunkSizeKB != 64 {
		t.Errorf("corrupt config should fall back to defaults, got %+v", cfg.Parser)
	}
}
