// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/cliutil"
	"github.com/val-town/vt/pkg/status"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what changed between the working copy and the remote",
	Long: cliutil.QuickStartHelp(`  # See what's changed before pushing
  vt status`),
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	branch, err := ctx.store.RetrieveBranch(ctx.ctx, state.Val.ID, state.Branch.ID)
	if err != nil {
		return fmt.Errorf("resolve branch: %w", err)
	}

	rules, err := loadRules(root, ctx.cfg)
	if err != nil {
		return err
	}

	s, err := status.Compute(ctx.ctx, root, rules, ctx.store, state.Val.ID, state.Branch.ID, branch.Version)
	if err != nil {
		return fmt.Errorf("compute status: %w", err)
	}

	versionRange := fmt.Sprintf("%d", state.Branch.Version)
	if branch.Version != state.Branch.Version {
		versionRange = fmt.Sprintf("%d..%d", state.Branch.Version, branch.Version)
	}
	fmt.Printf("On branch %s@%s\n", branch.Name, versionRange)
	cliutil.PrintChanges(cmdStdout(), s, false)
	return nil
}
