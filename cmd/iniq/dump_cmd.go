// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yourbase/ini"
)

var dumpCmd = &cobra.Command{
	Use:   "dump FILE",
	Short: "Print every table and entry in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions()
	if err != nil {
		return err
	}
	doc, err := ini.ParseFile(args[0], opts...)
	if err != nil {
		return err
	}
	if !doc.Valid() {
		return fmt.Errorf("%s is empty", args[0])
	}
	for i, t := range doc.Tables() {
		name := t.Name()
		if name.IsEmpty() {
			name = "root"
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("[%s]\n", name)
		for _, e := range t.Entries() {
			fmt.Printf("%s = %s\n", e.Key, e.Value)
		}
	}
	return nil
}
