// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package meta

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "apiKey: abc123\nglobalIgnoreFiles:\n  - ~/.vtignore\n  - /etc/vt/ignore\ndangerousOperations:\n  confirmation: false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "abc123" {
		t.Fatalf("APIKey = %q, want %q", cfg.APIKey, "abc123")
	}
	if len(cfg.GlobalIgnoreFiles) != 2 {
		t.Fatalf("GlobalIgnoreFiles = %v, want 2 entries", cfg.GlobalIgnoreFiles)
	}
	if cfg.DangerousOperations.Confirmation {
		t.Fatal("DangerousOperations.Confirmation = true, want false as set in the file")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error loading a nonexistent config file")
	}
}

func TestLoadDefaultFallsBackWithoutAnyFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("API_KEY", "")

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.DangerousOperations.Confirmation {
		t.Fatal("default DangerousOperations.Confirmation should be true")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.APIKey = "roundtrip-key"

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.APIKey != "roundtrip-key" {
		t.Fatalf("APIKey = %q, want %q", loaded.APIKey, "roundtrip-key")
	}
}

func TestLocalConfigPathIsUnderControlDir(t *testing.T) {
	root := t.TempDir()
	path := LocalConfigPath(root)
	if filepath.Dir(path) != ControlDir(root) {
		t.Fatalf("LocalConfigPath(%q) = %q, want a child of %q", root, path, ControlDir(root))
	}
}

func TestGlobalConfigPathFallsBackWhenNothingExists(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(t.TempDir(), "does-not-exist"))

	path, err := GlobalConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("expected a non-empty fallback path")
	}
}

func TestEnvOverridesAPIKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("apiKey: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "from-env" {
		t.Fatalf("APIKey = %q, want env override %q", cfg.APIKey, "from-env")
	}
}
