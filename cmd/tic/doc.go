package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jmespath-community/go-jmespath"
	"github.com/spf13/cobra"

	"github.com/risor-io/tic"
)

var docCmd = &cobra.Command{
	Use:   "doc [TOPIC]",
	Short: "Show the cartridge API reference",
	Long: `Show the cartridge API reference as JSON. TOPIC is an operation or
callback name. Use --category for a group and --query to filter the result
with a JMESPath expression, for example:

  tic doc --all --query "functions[?category=='draw'].signature"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		category, _ := cmd.Flags().GetString("category")
		all, _ := cmd.Flags().GetBool("all")
		query, _ := cmd.Flags().GetString("query")

		var opts []tic.DocsOption
		switch {
		case all:
			opts = append(opts, tic.DocsAll())
		case category != "":
			opts = append(opts, tic.DocsCategory(category))
		case len(args) == 1:
			opts = append(opts, tic.DocsTopic(args[0]))
		}
		result, err := queryDocs(tic.Docs(opts...), query)
		if err != nil {
			return err
		}
		return writeJSON(os.Stdout, result)
	},
}

func init() {
	flags := docCmd.Flags()
	flags.StringP("category", "c", "", "draw, input, memory, sound, system, callbacks, errors or language")
	flags.BoolP("all", "a", false, "show the complete reference")
	flags.StringP("query", "q", "", "JMESPath expression applied to the result")
	rootCmd.AddCommand(docCmd)
}

// queryDocs applies a JMESPath expression to the documentation. The data is
// converted to plain maps and slices first, which is what JMESPath walks.
func queryDocs(docs *tic.Documentation, query string) (any, error) {
	var data any
	if err := json.Unmarshal([]byte(docs.JSON()), &data); err != nil {
		return nil, err
	}
	if query == "" {
		return data, nil
	}
	result, err := jmespath.Search(query, data)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return result, nil
}
