package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/risor-io/tic"
)

var langCmd = &cobra.Command{
	Use:   "lang",
	Short: "Print the editor language descriptor",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("output")
		return writeLang(os.Stdout, format)
	},
}

func init() {
	langCmd.Flags().StringP("output", "o", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(langCmd)
}

func writeLang(w io.Writer, format string) error {
	switch format {
	case "json":
		return writeJSON(w, tic.Lang)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tic.Lang); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
