// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cliutil

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/val-town/vt/pkg/status"
)

// kindIcon mirrors one glyph per status.Kind, the same icon-keyed
// convention the teacher uses for its bulk-operation result tables.
func kindIcon(k status.Kind) string {
	switch k {
	case status.KindCreated:
		return ColorGreenBold + "+" + ColorReset
	case status.KindModified:
		return ColorYellowBold + "~" + ColorReset
	case status.KindDeleted:
		return ColorRedBold + "-" + ColorReset
	case status.KindRenamed:
		return ColorCyanBold + "→" + ColorReset
	default:
		return " "
	}
}

// PrintChanges writes one line per changed entry in m (NotModified entries
// are skipped), sorted by path. quiet suppresses everything but a final
// change count.
func PrintChanges(w io.Writer, m *status.Manager, quiet bool) {
	changed := m.Filter(func(e status.ItemStatus) bool { return e.Kind != status.KindNotModified })
	entries := changed.Entries()

	if !quiet {
		for _, e := range entries {
			switch e.Kind {
			case status.KindRenamed:
				fmt.Fprintf(w, " %s %s -> %s\n", kindIcon(e.Kind), e.OldPath, e.Path)
			case status.KindCreated:
				fmt.Fprintf(w, " %s %s (created %s)\n", kindIcon(e.Kind), e.Path, humanize.Time(e.Mtime))
			default:
				fmt.Fprintf(w, " %s %s\n", kindIcon(e.Kind), e.Path)
			}
			for _, warn := range e.Warnings {
				fmt.Fprintf(w, "   %s%s%s\n", ColorRedBold, warn, ColorReset)
			}
		}
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "nothing to do, working copy matches the remote")
		return
	}
	fmt.Fprintf(w, "%d change(s)\n", len(entries))
}

// DangerousPaths returns the set of paths in m that a destructive operation
// would discard, for display in a DirtyWorkingCopy error or a confirm
// prompt's description.
func DangerousPaths(m *status.Manager) []string {
	var paths []string
	for _, e := range m.Entries() {
		paths = append(paths, fmt.Sprintf("%s %s", kindIcon(e.Kind), e.Path))
	}
	return paths
}
