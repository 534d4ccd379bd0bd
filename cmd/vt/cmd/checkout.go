// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/checkout"
	"github.com/val-town/vt/pkg/cliutil"
	"github.com/val-town/vt/pkg/meta"
	"github.com/val-town/vt/pkg/status"
)

var (
	checkoutForce  bool
	checkoutDryRun bool
	checkoutFork   string
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <branch>",
	Short: "Switch the working copy to a different branch",
	Long: cliutil.QuickStartHelp(`  # Switch to an existing branch
  vt checkout experiment

  # Create and switch to a new branch forked off the current one
  vt checkout -b experiment

  # See what a checkout would discard without doing it
  vt checkout experiment --dry-run`),
	Args: cobra.MaximumNArgs(1),
	RunE: runCheckout,
}

func init() {
	rootCmd.AddCommand(checkoutCmd)
	checkoutCmd.Flags().BoolVarP(&checkoutForce, "force", "f", false, "discard local changes without confirmation")
	checkoutCmd.Flags().BoolVar(&checkoutDryRun, "dry-run", false, "report what would change without writing anything")
	checkoutCmd.Flags().StringVarP(&checkoutFork, "branch", "b", "", "create and switch to a new branch forked off the current one")
}

func runCheckout(cmd *cobra.Command, args []string) error {
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

	if checkoutFork == "" && len(args) == 0 {
		return fmt.Errorf("checkout requires either a branch name or -b <new-branch>")
	}

	if !checkoutDryRun && !checkoutForce {
		dirty, err := checkout.DirtyGate(ctx.ctx, ctx.store, root, state.Val.ID, state.Branch.ID, rules)
		if err != nil {
			return fmt.Errorf("check for local changes: %w", err)
		}
		if len(dirty.Entries()) > 0 {
			if err := confirmDiscard(dirty); err != nil {
				return err
			}
		}
	}

	var result *checkout.Result
	if checkoutFork != "" {
		result, err = checkout.ForkCheckout(ctx.ctx, ctx.store, checkout.ForkCheckoutParams{
			TargetDir:    root,
			ValID:        state.Val.ID,
			ForkedFromID: state.Branch.ID,
			Name:         checkoutFork,
			DryRun:       checkoutDryRun,
			Rules:        rules,
		})
	} else {
		branches, berr := ctx.store.ListBranches(ctx.ctx, state.Val.ID)
		if berr != nil {
			return fmt.Errorf("list branches: %w", berr)
		}
		toBranch, berr := findBranchByName(branches, args[0])
		if berr != nil {
			return berr
		}
		result, err = checkout.BranchCheckout(ctx.ctx, ctx.store, checkout.BranchCheckoutParams{
			TargetDir:    root,
			ValID:        state.Val.ID,
			FromBranchID: state.Branch.ID,
			ToBranchID:   toBranch.ID,
			DryRun:       checkoutDryRun,
			Rules:        rules,
		})
	}
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	if !checkoutDryRun && result.ToBranch != nil {
		if err := meta.SaveState(root, meta.WorkingCopyState{
			Val:    state.Val,
			Branch: meta.BranchRef{ID: result.ToBranch.ID, Version: result.ToBranch.Version},
		}); err != nil {
			return fmt.Errorf("save working copy state: %w", err)
		}
		if !quiet {
			fmt.Printf("switched to branch %s\n", result.ToBranch.Name)
		}
	}

	cliutil.PrintChanges(cmdStdout(), result.Changes, quiet)
	return nil
}

// confirmDiscard shows the paths a checkout would discard and asks for
// confirmation, returning an error that aborts the checkout if the answer
// is no (or the terminal is non-interactive, per Confirm's default).
func confirmDiscard(dirty *status.Manager) error {
	paths := cliutil.DangerousPaths(dirty)
	description := fmt.Sprintf("%d local change(s) will be discarded:\n%s", len(paths), joinLines(paths))
	ok, err := cliutil.Confirm("Discard local changes and switch branches?", description)
	if err != nil {
		return fmt.Errorf("confirm: %w", err)
	}
	if !ok {
		return fmt.Errorf("checkout aborted: local changes would be discarded (use --force to override)")
	}
	return nil
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += "  " + l + "\n"
	}
	return out
}
