// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package meta

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/val-town/vt/pkg/vterrors"
)

// ControlDirName is the hidden directory at a working copy's root holding
// state.json, the per-copy ignore file, and the watcher lock file.
const ControlDirName = ".vt"

const (
	stateFileName  = "state.json"
	ignoreFileName = "ignore"
	lockFileName   = "lock"
)

// ValRef identifies the val a working copy tracks.
type ValRef struct {
	ID string `json:"id"`
}

// BranchRef identifies the branch and version a working copy is pinned to.
type BranchRef struct {
	ID      string `json:"id"`
	Version uint64 `json:"version"`
}

// RunRef records the PID of the process that last ran a watch loop in this
// working copy, so a new watch invocation can detect and terminate a stale
// one on startup.
type RunRef struct {
	PID int `json:"pid"`
}

// WorkingCopyState is the persisted state.json schema.
type WorkingCopyState struct {
	Val     ValRef    `json:"val"`
	Branch  BranchRef `json:"branch"`
	LastRun *RunRef   `json:"lastRun,omitempty"`
}

// rawState mirrors WorkingCopyState but also accepts the legacy "project"
// key in place of "val", so older state.json files migrate transparently.
type rawState struct {
	Val     *ValRef   `json:"val,omitempty"`
	Project *ValRef   `json:"project,omitempty"`
	Branch  BranchRef `json:"branch"`
	LastRun *RunRef   `json:"lastRun,omitempty"`
}

// ControlDir returns the hidden control directory under root.
func ControlDir(root string) string {
	return filepath.Join(root, ControlDirName)
}

// StatePath returns the state.json path under root.
func StatePath(root string) string {
	return filepath.Join(ControlDir(root), stateFileName)
}

// LoadState reads and migrates state.json. A file still in the legacy
// "project" schema is migrated and rewritten in the current schema. A
// missing file is reported as a vterrors.NotFound so callers can
// distinguish "not a working copy yet" from a corrupt one.
func LoadState(root string) (WorkingCopyState, error) {
	path := StatePath(root)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return WorkingCopyState{}, &vterrors.NotFound{Resource: "state", Path: path}
		}
		return WorkingCopyState{}, err
	}

	var raw rawState
	if err := json.Unmarshal(data, &raw); err != nil {
		return WorkingCopyState{}, &vterrors.InvalidSchema{Path: path, Reason: err.Error()}
	}

	val := raw.Val
	if val == nil {
		val = raw.Project // legacy project -> val migration
	}
	if val == nil {
		return WorkingCopyState{}, &vterrors.InvalidSchema{Path: path, Reason: "state.json has neither a val nor a legacy project field"}
	}

	state := WorkingCopyState{Val: *val, Branch: raw.Branch, LastRun: raw.LastRun}
	if raw.Val == nil {
		if err := SaveState(root, state); err != nil {
			return WorkingCopyState{}, err
		}
	}
	return state, nil
}

// SaveState writes state.json atomically (temp file + rename), always in
// the current "val" schema regardless of which schema was loaded.
func SaveState(root string, state WorkingCopyState) error {
	dir := ControlDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	path := StatePath(root)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
