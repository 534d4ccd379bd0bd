// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/cliutil"
)

var browseNoBrowser bool

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the working copy's val in a browser",
	Long: cliutil.QuickStartHelp(`  # Open the current val's page
  vt browse

  # Just print the URL instead of opening it
  vt browse --no-browser`),
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
	browseCmd.Flags().BoolVar(&browseNoBrowser, "no-browser", false, "print the URL instead of opening it")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx, err := newCmdContext()
	if err != nil {
		return err
	}

	root, err := workingCopyRoot()
	if err != nil {
		return err
	}
	state, err := loadWorkingCopy(root)
	if err != nil {
		return err
	}

	val, err := ctx.store.RetrieveVal(ctx.ctx, state.Val.ID)
	if err != nil {
		return fmt.Errorf("resolve val: %w", err)
	}
	url := valBrowseURL(val.Author, val.Name)

	if browseNoBrowser {
		fmt.Println(url)
		return nil
	}

	if err := openBrowser(url); err != nil {
		ctx.logger.Warn("could not open a browser: %s", err)
		fmt.Println(url)
	}
	return nil
}

// openBrowser shells out to the host's URL opener. No library in this
// project's dependency set wraps browser launching, so this uses the
// standard per-OS "open a URL" commands directly via os/exec.
func openBrowser(url string) error {
	var name string
	var args []string
	switch runtime.GOOS {
	case "darwin":
		name, args = "open", []string{url}
	case "windows":
		name, args = "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		name, args = "xdg-open", []string{url}
	}
	return exec.Command(name, args...).Start()
}
