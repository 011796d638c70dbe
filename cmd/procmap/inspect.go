package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rendis/procmap/internal/query"
	"github.com/rendis/procmap/internal/validation"
	"github.com/rendis/procmap/pkg/schema"
	"github.com/spf13/cobra"
)

var (
	inspectQuery string
	inspectYAML  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print a process definition, or query it with jq",
	Example: `  procmap inspect --query '.lanes[].name'
  procmap inspect -d examples/sdcrs/sdcrs.yaml --query '[.edges[] | select(.label)] | length'
  procmap inspect --yaml > sdcrs.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadDefinition(definitionPath)
		if err != nil {
			return err
		}
		if inspectQuery == "" {
			return printDefinition(cmd.OutOrStdout(), def, inspectYAML)
		}
		results, err := query.Run(cmd.Context(), def, inspectQuery)
		if err != nil {
			return err
		}
		return printResults(cmd.OutOrStdout(), results)
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectQuery, "query", "q", "", "jq expression evaluated over the definition")
	inspectCmd.Flags().BoolVar(&inspectYAML, "yaml", false, "print the definition as YAML instead of JSON")
}

func printDefinition(w io.Writer, def *schema.ProcessDefinition, asYAML bool) error {
	format := validation.FormatJSON
	if asYAML {
		format = validation.FormatYAML
	}
	data, err := validation.MarshalDefinition(def, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	if err == nil && !asYAML {
		_, err = fmt.Fprintln(w)
	}
	return err
}

// printResults writes one JSON document per jq output, like jq itself.
func printResults(w io.Writer, results []any) error {
	for _, r := range results {
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return schema.NewError(schema.ErrCodeQuery, "encode query result").WithCause(err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}
