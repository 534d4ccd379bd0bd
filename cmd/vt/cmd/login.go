// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/cliutil"
	"github.com/val-town/vt/pkg/meta"
)

var loginLocal bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API key so vt can talk to the remote",
	Long: cliutil.QuickStartHelp(`  # Store a key in the global config
  vt login

  # Store a key just for the current working copy
  vt login --local`),
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove a stored API key",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	loginCmd.Flags().BoolVar(&loginLocal, "local", false, "store the key in this working copy's config instead of the global one")
	logoutCmd.Flags().BoolVar(&loginLocal, "local", false, "remove the key from this working copy's config instead of the global one")
}

// runLogin prompts for an API key on stdin and persists it. The actual
// OAuth/token exchange is handled externally; this command only ever
// sees and stores the resulting credential.
func runLogin(cmd *cobra.Command, args []string) error {
	path, cfg, err := resolveConfigTarget()
	if err != nil {
		return err
	}

	fmt.Print("Paste your Val Town API key: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read API key: %w", err)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return fmt.Errorf("no API key entered")
	}

	cfg.APIKey = key
	if err := meta.Save(path, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if !quiet {
		fmt.Printf("saved API key to %s\n", path)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	path, cfg, err := resolveConfigTarget()
	if err != nil {
		return err
	}
	cfg.APIKey = ""
	cfg.RefreshToken = ""
	if err := meta.Save(path, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if !quiet {
		fmt.Printf("removed stored credentials from %s\n", path)
	}
	return nil
}

// resolveConfigTarget picks the local or global config path per --local,
// loading its current contents (or DefaultConfig if it doesn't exist yet).
func resolveConfigTarget() (string, *meta.Config, error) {
	if loginLocal {
		root, err := workingCopyRoot()
		if err != nil {
			return "", nil, err
		}
		path := meta.LocalConfigPath(root)
		if cfg, err := meta.Load(path); err == nil {
			return path, cfg, nil
		}
		return path, meta.DefaultConfig(), nil
	}

	path, err := meta.GlobalConfigPath()
	if err != nil {
		return "", nil, err
	}
	if cfg, err := meta.Load(path); err == nil {
		return path, cfg, nil
	}
	return path, meta.DefaultConfig(), nil
}
