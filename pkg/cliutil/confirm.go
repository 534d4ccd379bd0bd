// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cliutil

import (
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Confirm prompts title/description and returns the user's answer. On a
// non-interactive terminal it returns false without prompting, matching
// dangerousOperations.confirmation's "no confirmation means abort" default.
func Confirm(title, description string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return false, nil
	}

	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeCharm()).Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
