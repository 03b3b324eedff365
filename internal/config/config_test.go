package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate, got: %v", err)
	}
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "antislop.toml")
	contents := `
profile = "strict"
only = ["stub", "placeholder"]
gitignore = false

[cache]
enabled = false
dir = "/tmp/antislop-cache"
ttl_hours = 48

[output]
format = "json"
color = false
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Profile != "strict" {
		t.Errorf("Profile = %q, want strict", cfg.Profile)
	}
	if len(cfg.Only) != 2 {
		t.Errorf("Only = %v, want 2 entries", cfg.Only)
	}
	if cfg.Gitignore {
		t.Error("Gitignore should be false")
	}
	if cfg.Cache.TTLHours != 48 {
		t.Errorf("Cache.TTLHours = %d, want 48", cfg.Cache.TTLHours)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %q, want json", cfg.Output.Format)
	}
}

func TestValidateRejectsUnknownCategory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Only = []string{"not_a_real_category"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unknown category")
	}
}

func TestValidateRejectsOnlyAndDisableTogether(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Only = []string{"stub"}
	cfg.Disable = []string{"noise"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error when only and disable are both set")
	}
}

func TestValidateRejectsBadOutputFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an unsupported output format")
	}
}

func TestValidateRejectsEmptySuppressPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Suppress = []SuppressRule{{Path: ""}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for a suppress rule with no path")
	}
}

func TestFindConfigFileDiscoversAntislopToml(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "antislop.toml")
	if err := os.WriteFile(path, []byte("gitignore = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	found, ok := FindConfigFile(dir)
	if !ok || found != path {
		t.Fatalf("FindConfigFile = (%q, %v), want (%q, true)", found, ok, path)
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	result, err := LoadConfig(WithSearchDir(dir))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if result.Source != "" {
		t.Errorf("Source = %q, want empty (no file found)", result.Source)
	}
	if result.Config.Output.Format != "text" {
		t.Errorf("Output.Format = %q, want text default", result.Config.Output.Format)
	}
}

func TestLoadConfigExplicitPathMissing(t *testing.T) {
	_, err := LoadConfig(WithPath(filepath.Join(t.TempDir(), "missing.toml")))
	if err == nil {
		t.Fatal("expected an error for a missing explicit config path")
	}
}

func TestComposeOptionsTranslation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Only = []string{"stub", "hedging"}
	opts := cfg.ComposeOptions()
	if len(opts.Only) != 2 {
		t.Fatalf("ComposeOptions().Only = %v, want 2 entries", opts.Only)
	}
}
