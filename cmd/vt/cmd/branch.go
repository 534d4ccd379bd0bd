// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/checkout"
	"github.com/val-town/vt/pkg/cliutil"
)

var branchDelete bool

var branchCmd = &cobra.Command{
	Use:   "branch [name]",
	Short: "List or delete branches",
	Long: cliutil.QuickStartHelp(`  # List branches, with the checked-out one marked
  vt branch

  # Delete a branch
  vt branch -D old-experiment`),
	Args: cobra.MaximumNArgs(1),
	RunE: runBranch,
}

func init() {
	rootCmd.AddCommand(branchCmd)
	branchCmd.Flags().BoolVarP(&branchDelete, "delete", "D", false, "delete the named branch")
}

func runBranch(cmd *cobra.Command, args []string) error {
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

	if branchDelete {
		if len(args) != 1 {
			return fmt.Errorf("branch -D requires a branch name")
		}
		branches, err := ctx.store.ListBranches(ctx.ctx, state.Val.ID)
		if err != nil {
			return fmt.Errorf("list branches: %w", err)
		}
		target, err := findBranchByName(branches, args[0])
		if err != nil {
			return err
		}
		if err := checkout.DeleteBranch(ctx.ctx, ctx.store, state.Val.ID, target.ID, state.Branch.ID); err != nil {
			return err
		}
		if !quiet {
			fmt.Printf("deleted branch %s\n", args[0])
		}
		return nil
	}

	summaries, err := checkout.ListBranches(ctx.ctx, ctx.store, state.Val.ID, state.Branch.ID)
	if err != nil {
		return err
	}
	for _, b := range summaries {
		marker := "  "
		if b.Current {
			marker = cliutil.ColorGreenBold + "* " + cliutil.ColorReset
		}
		fmt.Printf("%s%s\n", marker, b.Name)
	}
	return nil
}
