// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package status implements the ItemStatus tagged union, the
// ItemStatusManager bucketed collection, and the StatusEngine that diffs
// a local working copy against a remote snapshot.
package status
