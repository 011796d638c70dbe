package main

import (
	"fmt"
	"io"

	"github.com/rendis/procmap/internal/process"
	"github.com/rendis/procmap/internal/validation"
	"github.com/rendis/procmap/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a process definition without rendering it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := loadDefinition(definitionPath)
		if err != nil {
			return err
		}
		name := definitionPath
		if name == "" {
			name = "built-in SDCRS process"
		}
		logger.DebugContext(cmd.Context(), "validating definition", "source", name)
		return runValidate(cmd.OutOrStdout(), name, def)
	},
}

// runValidate prints every issue found in def and returns the aggregated
// error when any of them is an error.
func runValidate(w io.Writer, name string, def *schema.ProcessDefinition) error {
	result := validation.Check(def)

	for _, is := range result.Warnings {
		fmt.Fprintln(w, is)
	}
	for _, is := range result.Errors {
		fmt.Fprintln(w, is)
	}
	if err := result.ToError(); err != nil {
		return err
	}

	p, err := process.FromDefinition(def)
	if err != nil {
		return err
	}
	stats := p.Stats()
	fmt.Fprintf(w, "%s: valid (%d lanes, %d nodes, %d edges: %d events, %d tasks, %d gateways)\n",
		name, stats.Lanes, stats.Nodes, stats.Edges, stats.Events, stats.Tasks, stats.Gateways)
	return nil
}
