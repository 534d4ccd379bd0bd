// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/val-town/vt/pkg/meta"
)

var configLocal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit vt's configuration",
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a config value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print the config file path in use",
	Args:  cobra.NoArgs,
	RunE:  runConfigWhere,
}

var configOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List configurable keys",
	Args:  cobra.NoArgs,
	RunE:  runConfigOptions,
}

var configIgnoreCmd = &cobra.Command{
	Use:   "ignore",
	Short: "Open the working copy's .vtignore in $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  runConfigIgnore,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd, configWhereCmd, configOptionsCmd, configIgnoreCmd)
	configCmd.PersistentFlags().BoolVar(&configLocal, "local", false, "operate on this working copy's config instead of the global one")
}

// configKeys are the dotted paths config set/get understands.
var configKeys = []string{
	"apiKey",
	"refreshToken",
	"globalIgnoreFiles",
	"dangerousOperations.confirmation",
	"editorTemplate",
}

func runConfigOptions(cmd *cobra.Command, args []string) error {
	for _, k := range configKeys {
		fmt.Println(k)
	}
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	path, _, err := resolveConfigPathFor(configLocal)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	_, cfg, err := resolveConfigPathFor(configLocal)
	if err != nil {
		return err
	}
	value, err := configValue(cfg, args[0])
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, cfg, err := resolveConfigPathFor(configLocal)
	if err != nil {
		return err
	}
	if err := setConfigValue(cfg, args[0], args[1]); err != nil {
		return err
	}
	if err := meta.Save(path, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	if !quiet {
		fmt.Printf("set %s in %s\n", args[0], path)
	}
	return nil
}

func runConfigIgnore(cmd *cobra.Command, args []string) error {
	root, err := workingCopyRoot()
	if err != nil {
		return err
	}
	path := meta.WorkingCopyIgnorePath(root)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("create .vtignore: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		return fmt.Errorf("$EDITOR is not set")
	}
	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("run $EDITOR: %w", err)
	}
	return nil
}

func resolveConfigPathFor(local bool) (string, *meta.Config, error) {
	if local {
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

func configValue(cfg *meta.Config, key string) (string, error) {
	switch key {
	case "apiKey":
		return cfg.APIKey, nil
	case "refreshToken":
		return cfg.RefreshToken, nil
	case "globalIgnoreFiles":
		return fmt.Sprint(cfg.GlobalIgnoreFiles), nil
	case "dangerousOperations.confirmation":
		return strconv.FormatBool(cfg.DangerousOperations.Confirmation), nil
	case "editorTemplate":
		return cfg.EditorTemplate, nil
	default:
		return "", fmt.Errorf("unknown config key %q (see `vt config options`)", key)
	}
}

func setConfigValue(cfg *meta.Config, key, value string) error {
	switch key {
	case "apiKey":
		cfg.APIKey = value
	case "refreshToken":
		cfg.RefreshToken = value
	case "editorTemplate":
		cfg.EditorTemplate = value
	case "dangerousOperations.confirmation":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("dangerousOperations.confirmation must be true or false: %w", err)
		}
		cfg.DangerousOperations.Confirmation = b
	case "globalIgnoreFiles":
		return fmt.Errorf("globalIgnoreFiles is a list; edit it directly with `vt config where`")
	default:
		return fmt.Errorf("unknown config key %q (see `vt config options`)", key)
	}
	return nil
}
