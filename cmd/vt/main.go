// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package main

import "github.com/val-town/vt/cmd/vt/cmd"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cmd.Execute(version)
}
