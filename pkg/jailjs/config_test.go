package jailjs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/badlogic/jailjs/pkg/jailjs"
)

func TestLoadRuntimeConfigTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runtime.toml")
	if err := os.WriteFile(path, []byte("max_ops = 5000\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := jailjs.LoadRuntimeConfigTOML(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MaxOps != 5000 {
		t.Fatalf("want MaxOps 5000, got %d", cfg.MaxOps)
	}

	opts := cfg.Options()
	if len(opts) != 1 {
		t.Fatalf("want exactly one derived option, got %d", len(opts))
	}
}

func TestRuntimeConfigOptionsNilSafe(t *testing.T) {
	var cfg *jailjs.RuntimeConfig
	if opts := cfg.Options(); opts != nil {
		t.Fatalf("want nil options for a nil config, got %v", opts)
	}
}

func TestLoadCapabilityManifestYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capabilities.yaml")
	contents := "globals:\n  maxRetries: 3\n  featureName: \"beta\"\n  enabled: true\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	manifest, err := jailjs.LoadCapabilityManifest(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if manifest.Globals["featureName"] != "beta" {
		t.Fatalf("want featureName=beta, got %v", manifest.Globals["featureName"])
	}
	if manifest.Globals["enabled"] != true {
		t.Fatalf("want enabled=true, got %v", manifest.Globals["enabled"])
	}
}

func TestLoadRuntimeConfigTOMLMissingFile(t *testing.T) {
	if _, err := jailjs.LoadRuntimeConfigTOML(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("want error for a missing config file")
	}
}
