// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package meta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/val-town/vt/pkg/ignore"
)

func TestLoadIgnoreRulesLayersAllSources(t *testing.T) {
	root := t.TempDir()

	globalPath := filepath.Join(t.TempDir(), "global-ignore")
	if err := os.WriteFile(globalPath, []byte("*.bak\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(root, workingCopyIgnoreFileName), []byte("*.local\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := os.MkdirAll(ControlDir(root), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(LocalIgnorePath(root), []byte("managed.txt\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadIgnoreRules(root, []string{globalPath})
	if err != nil {
		t.Fatal(err)
	}

	for _, tc := range []struct {
		path string
		want bool
	}{
		{"node_modules/x.js", true}, // built-in default
		{"dump.bak", true},          // global
		{"notes.local", true},       // working copy .vtignore
		{"managed.txt", true},       // control-dir managed ignore
		{"keep.ts", false},
	} {
		if got := ignore.IsIgnored(tc.path, rules, false); got != tc.want {
			t.Errorf("IsIgnored(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestLoadIgnoreRulesToleratesMissingFiles(t *testing.T) {
	root := t.TempDir()
	rules, err := LoadIgnoreRules(root, []string{filepath.Join(root, "nonexistent")})
	if err != nil {
		t.Fatal(err)
	}
	if !ignore.IsIgnored(".git/config", rules, false) {
		t.Fatal("expected built-in defaults to still apply when every configured file is absent")
	}
}

func TestWorkingCopyIgnorePathMatchesTheFileLoadIgnoreRulesReads(t *testing.T) {
	root := t.TempDir()
	if WorkingCopyIgnorePath(root) != filepath.Join(root, workingCopyIgnoreFileName) {
		t.Fatalf("WorkingCopyIgnorePath(%q) = %q", root, WorkingCopyIgnorePath(root))
	}
}

func TestExpandHomeExpandsTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	got := expandHome("~/.vtignore")
	want := filepath.Join(home, ".vtignore")
	if got != want {
		t.Fatalf("expandHome = %q, want %q", got, want)
	}
}

func TestExpandHomeLeavesOtherPathsAlone(t *testing.T) {
	if got := expandHome("/etc/vt/ignore"); got != "/etc/vt/ignore" {
		t.Fatalf("expandHome modified an absolute path: %q", got)
	}
}
