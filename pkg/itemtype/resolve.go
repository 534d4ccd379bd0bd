// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package itemtype

import (
	"path/filepath"
	"strings"

	"github.com/val-town/vt/pkg/remote"
)

// scriptExtensions are the extensions eligible for the cron/http/email
// substring dispatch. Anything else falls straight through to file.
var scriptExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
}

// substringTypes maps a name-substring to the ValItemType it signals, in
// the fixed check order the spec's "exactly one match" rule is evaluated
// against (cron, http, email).
var substringTypes = []struct {
	substring string
	itemType  remote.ItemType
}{
	{"cron", remote.ItemTypeInterval},
	{"http", remote.ItemTypeHTTP},
	{"email", remote.ItemTypeEmail},
}

// Resolve determines the ValItemType for a local path.
//
// If known, a caller-supplied remote type always wins: remoteType should
// be the type of the item at this path in the remote snapshot, or "" if
// none exists there. Otherwise the path's extension and filename decide:
// for a script-eligible extension, exactly one of {cron, http, email}
// appearing as a substring of the base name selects that type; zero or
// more than one match default to script. Any other extension is a plain
// file.
func Resolve(path string, remoteType remote.ItemType) remote.ItemType {
	if remoteType != "" {
		return remoteType
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !scriptExtensions[ext] {
		return remote.ItemTypeFile
	}

	base := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	matched := remote.ItemType("")
	matches := 0
	for _, st := range substringTypes {
		if strings.Contains(base, st.substring) {
			matches++
			matched = st.itemType
		}
	}
	if matches == 1 {
		return matched
	}
	return remote.ItemTypeScript
}
