package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/risor-io/tic"
	"github.com/risor-io/tic/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline CART",
	Short: "List the top-level functions of a cartridge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		source, err := readSource(args[0])
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			items := slices.Collect(tic.Lang.Outline(source))
			if items == nil {
				items = []outline.Item{}
			}
			return writeJSON(os.Stdout, items)
		case "lsp":
			return writeJSON(os.Stdout, outline.DocumentSymbols(source))
		case "text":
			for item := range tic.Lang.Outline(source) {
				fmt.Printf("%d:%d\t%s\t%s\n", item.Line, item.Column, item.Name, faint(item.Kind))
			}
			return nil
		default:
			return fmt.Errorf("unknown format %q", format)
		}
	},
}

func init() {
	outlineCmd.Flags().StringP("format", "f", "text", "output format: text, json or lsp")
	rootCmd.AddCommand(outlineCmd)
}
