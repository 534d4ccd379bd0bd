// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/cliutil"
	vtsync "github.com/val-town/vt/pkg/sync"
)

var pullDryRun bool

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull remote changes into the working copy",
	Long: cliutil.QuickStartHelp(`  # Pull the latest remote changes
  vt pull

  # Preview what a pull would change without writing anything
  vt pull --dry-run`),
	Args: cobra.NoArgs,
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pullCmd)
	pullCmd.Flags().BoolVar(&pullDryRun, "dry-run", false, "report what would change without writing anything")
}

func runPull(cmd *cobra.Command, args []string) error {
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
	rules, err := loadRules(root, ctx.cfg)
	if err != nil {
		return err
	}

	manager, err := vtsync.Pull(ctx.ctx, ctx.store, vtsync.PullParams{
		TargetDir: root,
		ValID:     state.Val.ID,
		BranchID:  state.Branch.ID,
		Rules:     rules,
		DryRun:    pullDryRun,
	})
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}

	cliutil.PrintChanges(cmdStdout(), manager, quiet)
	return nil
}
