package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "auth:\n  secret: test\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Map.Width != 30 || cfg.Map.Height != 20 {
		t.Errorf("default map size: got %dx%d", cfg.Map.Width, cfg.Map.Height)
	}
	if cfg.Map.DefaultSightDistance != 2 {
		t.Errorf("default sight: got %d", cfg.Map.DefaultSightDistance)
	}
	if cfg.Map.DefaultRevealMode != "permanent" {
		t.Errorf("default reveal mode: got %q", cfg.Map.DefaultRevealMode)
	}
	if cfg.Session.FloodFillConfirmThreshold != 20 {
		t.Errorf("default flood threshold: got %d", cfg.Session.FloodFillConfirmThreshold)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
map:
  width: 12
  height: 8
  default_reveal_mode: lineOfSight
session:
  flood_fill_confirm_threshold: 50
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9000 || cfg.Map.Width != 12 || cfg.Map.Height != 8 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Map.DefaultRevealMode != "lineOfSight" {
		t.Errorf("reveal mode override: got %q", cfg.Map.DefaultRevealMode)
	}
	if cfg.Session.FloodFillConfirmThreshold != 50 {
		t.Errorf("threshold override: got %d", cfg.Session.FloodFillConfirmThreshold)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
