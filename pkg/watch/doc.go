// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

// Package watch implements a recursive filesystem watch over a working
// copy that debounces rapid-fire events and then triggers a push, followed
// by a short grace period in which further triggers are dropped, swallowing
// the races that a disappearing remote file produces.
package watch
