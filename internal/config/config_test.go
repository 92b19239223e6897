package config

import (
	"path/filepath"
	"testing"

	"github.com/rapidai/pdf2md/internal/types"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ImageMode != types.ImageModeNone {
		t.Errorf("expected default imageMode none, got %s", cfg.ImageMode)
	}
	if cfg.Tunables.HeaderScoreThreshold != 0.4 {
		t.Errorf("expected default header score threshold 0.4, got %v", cfg.Tunables.HeaderScoreThreshold)
	}
}

func TestValidate_SaveModeRequiresPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImageMode = types.ImageModeSave
	if err := Validate(cfg); err == nil {
		t.Error("expected error for save mode without imageSavePath, got nil")
	}

	cfg.ImageSavePath = "/tmp/out"
	if err := Validate(cfg); err != nil {
		t.Errorf("expected no error once imageSavePath is set, got %v", err)
	}
}

func TestManager_LoadSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	cfg := m.Config()
	cfg.TitlePrefix = "mydoc"
	m.SetConfig(cfg)

	if err := m.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	m2, err := NewManager(path)
	if err != nil {
		t.Fatalf("second NewManager failed: %v", err)
	}
	if m2.Config().TitlePrefix != "mydoc" {
		t.Errorf("expected reloaded TitlePrefix 'mydoc', got %q", m2.Config().TitlePrefix)
	}
}

func TestManager_MissingFileUsesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "does-not-exist.json")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if m.Config().ImageMode != types.ImageModeNone {
		t.Errorf("expected default imageMode for missing file, got %s", m.Config().ImageMode)
	}
}
