// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package meta

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/val-town/vt/pkg/ignore"
)

// workingCopyIgnoreFileName is the user-editable ignore file at the
// working copy's root, alongside .vt/.
const workingCopyIgnoreFileName = ".vtignore"

// WorkingCopyIgnorePath returns the hand-edited .vtignore file at root,
// the file `vt config ignore` opens in $EDITOR.
func WorkingCopyIgnorePath(root string) string {
	return filepath.Join(root, workingCopyIgnoreFileName)
}

// LocalIgnorePath returns the per-working-copy ignore file inside the
// control directory, populated by val-level ignore settings rather than
// hand-edited.
func LocalIgnorePath(root string) string {
	return filepath.Join(ControlDir(root), ignoreFileName)
}

// LoadIgnoreRules builds the full layered ignore.Rules for a working copy:
// built-in defaults, then every configured global ignore file, then the
// working copy's own .vtignore, then the program-managed control-dir
// ignore file, each in that order so later entries override earlier ones.
func LoadIgnoreRules(root string, globalIgnoreFiles []string) (ignore.Rules, error) {
	var global []string
	for _, f := range globalIgnoreFiles {
		lines, err := readLinesIfExists(expandHome(f))
		if err != nil {
			return nil, err
		}
		global = append(global, lines...)
	}

	local, err := readLinesIfExists(filepath.Join(root, workingCopyIgnoreFileName))
	if err != nil {
		return nil, err
	}

	managed, err := readLinesIfExists(LocalIgnorePath(root))
	if err != nil {
		return nil, err
	}
	local = append(local, managed...)

	return ignore.Load(global, local), nil
}

// readLinesIfExists reads path and splits it into lines, returning nil
// with no error if the file doesn't exist.
func readLinesIfExists(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

// expandHome expands a leading "~/" to the current user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/"))
}
