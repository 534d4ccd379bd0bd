// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package ignore

import "testing"

func TestIsIgnored(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		isDir    bool
		want     bool
	}{
		{"unmatched", []string{"*.log"}, "readme.md", false, false},
		{"extension match", []string{"*.log"}, "debug.log", false, true},
		{"extension match nested", []string{"*.log"}, "logs/debug.log", false, true},
		{"dir only pattern on file", []string{"build/"}, "build", false, false},
		{"dir only pattern on dir", []string{"build/"}, "build", true, true},
		{"dir only pattern collapses children", []string{"build/"}, "build/out.js", false, true},
		{"anchored matches root only", []string{"/vendor"}, "vendor", false, true},
		{"anchored does not match nested", []string{"/vendor"}, "src/vendor", false, false},
		{"negation re-includes", []string{"*.log", "!important.log"}, "important.log", false, false},
		{"negation leaves others ignored", []string{"*.log", "!important.log"}, "debug.log", false, true},
		{"later rule overrides earlier", []string{"!a.txt", "a.txt"}, "a.txt", false, true},
		{"comment and blank lines skipped", []string{"# comment", "", "*.tmp"}, "x.tmp", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := Parse(tt.patterns)
			got := IsIgnored(tt.path, rules, tt.isDir)
			if got != tt.want {
				t.Errorf("IsIgnored(%q, isDir=%v) = %v, want %v", tt.path, tt.isDir, got, tt.want)
			}
		})
	}
}

func TestIsIgnoredDeterministic(t *testing.T) {
	rules := Parse([]string{"*.log", "!keep.log"})
	for i := 0; i < 5; i++ {
		if IsIgnored("a.log", rules, false) != true {
			t.Fatal("expected a.log to be ignored on every call")
		}
		if IsIgnored("keep.log", rules, false) != false {
			t.Fatal("expected keep.log to never be ignored")
		}
	}
}

func TestIsIgnoredDir_DirectoryCollapse(t *testing.T) {
	rules := Parse([]string{"*.log"})

	t.Run("every file denied collapses the directory", func(t *testing.T) {
		got := IsIgnoredDir("logs", rules, []string{"logs/a.log", "logs/b.log"})
		if !got {
			t.Error("expected directory to collapse when every file below is ignored")
		}
	})

	t.Run("one kept file prevents collapse", func(t *testing.T) {
		got := IsIgnoredDir("logs", rules, []string{"logs/a.log", "logs/readme.md"})
		if got {
			t.Error("expected directory to stay visible when one file below is not ignored")
		}
	})

	t.Run("empty directory falls back to per-path rules", func(t *testing.T) {
		got := IsIgnoredDir("logs", rules, nil)
		if got {
			t.Error("expected empty, unmatched directory to not be ignored")
		}
	})
}

func TestWindowsPathSeparatorsNormalized(t *testing.T) {
	rules := Parse([]string{"build/"})
	got := IsIgnored(`build\out.js`, rules, false)
	if !got {
		t.Error("expected backslash-separated path to normalize to '/' before matching")
	}
}

func TestLoadLayersDefaultsGlobalAndLocal(t *testing.T) {
	rules := Load([]string{"*.secret"}, []string{"dist/"})
	if !IsIgnored(".git/HEAD", rules, false) {
		t.Error("expected built-in default .git/ pattern to apply")
	}
	if !IsIgnored("token.secret", rules, false) {
		t.Error("expected global ignore pattern to apply")
	}
	if !IsIgnored("dist", rules, true) {
		t.Error("expected local ignore pattern to apply")
	}
}

func TestControlDirectoryIsIgnoredByDefault(t *testing.T) {
	rules := Parse(DefaultPatterns)
	if !IsIgnored(".vt", rules, true) {
		t.Error("expected .vt/ to be ignored as a directory")
	}
	if !IsIgnored(".vt/state.json", rules, false) {
		t.Error("expected .vt/state.json to be ignored")
	}
}
