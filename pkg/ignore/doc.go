// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package ignore decides whether a path should be skipped when walking a
// working copy or a remote snapshot, using the same pattern semantics as
// .gitignore: negation with '!', directory-only patterns with a trailing
// '/', and anchored patterns with a leading '/'.
package ignore
