// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package itemtype resolves the ValItemType a local file should be treated
// as when no remote type is already known, by extension and filename
// heuristics.
package itemtype
