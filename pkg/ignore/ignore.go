// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package ignore decides whether a path is ignored given a layered,
// ordered list of gitignore-syntax patterns, with an optional
// directory-collapse mode.
package ignore

import (
	"path"
	"strings"
)

// Rule is a single compiled ignore pattern.
type Rule struct {
	raw       string
	negate    bool
	dirOnly   bool
	anchored  bool
	pattern   string // pattern with leading '/' and trailing '/' stripped
	hasSlash  bool   // pattern contains a '/' other than a trailing one
}

// Rules is an ordered list of compiled patterns; later rules override
// earlier ones, exactly like a .gitignore file.
type Rules []Rule

// DefaultPatterns are the built-in ignore rules applied before any
// user-supplied ones. ".vt/" must stay in sync with meta.ControlDirName.
var DefaultPatterns = []string{
	".git/",
	".vt/",
	"node_modules/",
	".DS_Store",
	"*.log",
}

// Parse compiles a newline-separated pattern list (gitignore syntax) into
// Rules. Blank lines and lines starting with '#' are skipped.
func Parse(patterns []string) Rules {
	rules := make(Rules, 0, len(patterns))
	for _, raw := range patterns {
		line := strings.TrimRight(raw, " \t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r := Rule{raw: raw}
		if strings.HasPrefix(line, "!") {
			r.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			r.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			r.anchored = true
			line = strings.TrimPrefix(line, "/")
		}
		r.hasSlash = strings.Contains(line, "/")
		r.pattern = line
		rules = append(rules, r)
	}
	return rules
}

// Load builds Rules by layering, in order, the built-in defaults, a global
// ignore file's contents, and a per-working-copy ignore file's contents
// Callers read the files themselves and pass the resulting line slices.
func Load(globalLines, localLines []string) Rules {
	all := make([]string, 0, len(DefaultPatterns)+len(globalLines)+len(localLines))
	all = append(all, DefaultPatterns...)
	all = append(all, globalLines...)
	all = append(all, localLines...)
	return Parse(all)
}

// matches reports whether rule r matches path p (already '/'-normalized,
// no leading '/'), given whether p is a directory.
// matches checks p (and, for directory-only patterns, every ancestor
// directory of p) against the rule. Every path component strictly before
// the last is necessarily a directory; the last component's directory-ness
// is given by isDir. This lets a directory-only pattern like "build/"
// ignore both the directory itself and everything reachable below it.
func (r Rule) matches(p string, isDir bool) bool {
	parts := strings.Split(p, "/")
	for i, last := 0, len(parts)-1; i <= last; i++ {
		prefix := strings.Join(parts[:i+1], "/")
		prefixIsDir := isDir || i < last
		if r.dirOnly && !prefixIsDir {
			continue
		}
		candidates := []string{prefix}
		if !r.hasSlash && !r.anchored {
			candidates = append(candidates, path.Base(prefix))
		}
		for _, c := range candidates {
			if ok, _ := path.Match(r.pattern, c); ok {
				return true
			}
		}
	}
	return false
}

// normalize converts OS path separators to '/' and strips a leading '/'.
func normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimPrefix(p, "/")
}

// IsIgnored decides whether path is ignored by rules. isDir
// tells the matcher whether path names a directory. The decision is
// per-path; IsIgnoredDir provides directory-collapse mode.
func IsIgnored(p string, rules Rules, isDir bool) bool {
	p = normalize(p)
	if p == "" {
		return false
	}
	ignored := false
	for _, r := range rules {
		if r.matches(p, isDir) {
			ignored = !r.negate
		}
	}
	return ignored
}

// IsIgnoredDir implements directory-collapse mode: a directory
// is ignored iff every file reachable below it (filesBelow, the file paths
// under dirPath relative to the ignore root) is denied by rules. For an
// empty directory (filesBelow is empty) it falls back to the per-path
// IsIgnored decision on dirPath itself.
func IsIgnoredDir(dirPath string, rules Rules, filesBelow []string) bool {
	if len(filesBelow) == 0 {
		return IsIgnored(dirPath, rules, true)
	}
	for _, f := range filesBelow {
		if !IsIgnored(f, rules, false) {
			return false
		}
	}
	return true
}
