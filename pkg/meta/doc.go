// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package meta implements the working copy's persistent state.json, its
// local and global ignore-rule sources, its watcher lock file, and the
// user-level credential configuration.
package meta
