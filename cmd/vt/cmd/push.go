// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/cliutil"
	"github.com/val-town/vt/pkg/meta"
	vtsync "github.com/val-town/vt/pkg/sync"
)

var pushDryRun bool

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push working copy changes to the remote",
	Long: cliutil.QuickStartHelp(`  # Push local edits
  vt push

  # Preview what a push would change without uploading anything
  vt push --dry-run`),
	Args: cobra.NoArgs,
	RunE: runPush,
}

func init() {
	rootCmd.AddCommand(pushCmd)
	pushCmd.Flags().BoolVar(&pushDryRun, "dry-run", false, "report what would change without uploading anything")
}

func runPush(cmd *cobra.Command, args []string) error {
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

	manager, err := vtsync.Push(ctx.ctx, ctx.store, vtsync.PushParams{
		TargetDir: root,
		ValID:     state.Val.ID,
		BranchID:  state.Branch.ID,
		Rules:     rules,
		DryRun:    pushDryRun,
		Policy:    vtsync.DefaultPolicy,
	})
	if err != nil {
		return fmt.Errorf("push: %w", err)
	}

	if !pushDryRun {
		branch, err := ctx.store.RetrieveBranch(ctx.ctx, state.Val.ID, state.Branch.ID)
		if err != nil {
			return fmt.Errorf("resolve pushed version: %w", err)
		}
		if err := meta.SaveState(root, meta.WorkingCopyState{
			Val:    state.Val,
			Branch: meta.BranchRef{ID: state.Branch.ID, Version: branch.Version},
		}); err != nil {
			return fmt.Errorf("save working copy state: %w", err)
		}
	}

	cliutil.PrintChanges(cmdStdout(), manager, quiet)
	return nil
}
