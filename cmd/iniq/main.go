// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// iniq inspects INI configuration files: it dumps parsed tables, extracts
// single values with type conversions, and watches files for changes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yourbase/ini"
)

// version is set at build time with -ldflags="-X main.version=...".
var version = "0.1.0"

var rootParams struct {
	divider      string
	mergeTables  bool
	overrideKeys bool
}

var rootCmd = &cobra.Command{
	Use:   "iniq",
	Short: "Iniq reads and watches INI configuration files",
	Long: "Iniq parses INI configuration files, prints their tables and values,\n" +
		"and can watch a file and serve its contents live as they change.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of iniq",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("iniq", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootParams.divider, "divider", "=", "single character separating keys from values")
	rootCmd.PersistentFlags().BoolVar(&rootParams.mergeTables, "merge-tables", false, "tables with the same name share their entries")
	rootCmd.PersistentFlags().BoolVar(&rootParams.overrideKeys, "override-keys", false, "repeated keys replace earlier values instead of appending")
	rootCmd.AddCommand(versionCmd)
}

// parseOptions converts the global flags into parse options.
func parseOptions() ([]ini.Option, error) {
	if len(rootParams.divider) != 1 {
		return nil, fmt.Errorf("divider must be a single character, got %q", rootParams.divider)
	}
	return []ini.Option{
		ini.WithDivider(rootParams.divider[0]),
		ini.WithMergeTables(rootParams.mergeTables),
		ini.WithOverrideKeys(rootParams.overrideKeys),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "iniq:", err)
		os.Exit(1)
	}
}
