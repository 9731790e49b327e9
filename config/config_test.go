package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Gas.FO2 != DefaultFO2 {
		t.Errorf("want default FO2 %v; got %v", DefaultFO2, cfg.Gas.FO2)
	}
	if cfg.MValueMode != DefaultMValueMode {
		t.Errorf("want default M-value mode %v; got %v", DefaultMValueMode, cfg.MValueMode)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dive.yaml")

	cfg := DefaultConfig()
	cfg.MaxDepth = 45.0
	cfg.Gas.FO2 = 0.18
	cfg.Gas.FHe = 0.45

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.MaxDepth != cfg.MaxDepth {
		t.Errorf("want MaxDepth %v; got %v", cfg.MaxDepth, loaded.MaxDepth)
	}
	if loaded.Gas.FHe != cfg.Gas.FHe {
		t.Errorf("want FHe %v; got %v", cfg.Gas.FHe, loaded.Gas.FHe)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Errorf("expected an error for a missing config file")
	}
}
