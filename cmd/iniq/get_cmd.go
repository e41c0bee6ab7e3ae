// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yourbase/ini"
)

var getParams struct {
	table    string
	key      string
	typ      string
	delim    string
	unescape bool
}

var getCmd = &cobra.Command{
	Use:   "get FILE",
	Short: "Print one value from a file",
	Long: "Get looks up a key, by default in the root table, and prints its\n" +
		"value converted to the requested type.",
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getParams.table, "table", "t", "", "table to read from (default: the root table)")
	getCmd.Flags().StringVarP(&getParams.key, "key", "k", "", "key to look up")
	getCmd.Flags().StringVar(&getParams.typ, "type", "str", "how to print the value: str, int, uint, float, bool, or array")
	getCmd.Flags().StringVar(&getParams.delim, "delim", " ", "field delimiter for --type array")
	getCmd.Flags().BoolVar(&getParams.unescape, "unescape", false, "remove backslash escapes from the value")
	getCmd.MarkFlagRequired("key")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions()
	if err != nil {
		return err
	}
	doc, err := ini.ParseFile(args[0], opts...)
	if err != nil {
		return err
	}
	table := doc.Root()
	if getParams.table != "" {
		table = doc.Table(getParams.table)
		if table == nil {
			return fmt.Errorf("table %q not found", getParams.table)
		}
	}
	e := table.Get(getParams.key)
	if e == nil {
		return fmt.Errorf("key %q not found", getParams.key)
	}
	switch getParams.typ {
	case "str":
		fmt.Println(e.Str(getParams.unescape))
	case "int":
		fmt.Println(e.Int())
	case "uint":
		fmt.Println(e.Uint())
	case "float":
		fmt.Println(e.Float())
	case "bool":
		fmt.Println(e.Bool())
	case "array":
		if len(getParams.delim) != 1 {
			return fmt.Errorf("delim must be a single character, got %q", getParams.delim)
		}
		for _, f := range e.Array(getParams.delim[0]) {
			fmt.Println(f)
		}
	default:
		return fmt.Errorf("unknown type %q", getParams.typ)
	}
	return nil
}
