package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rendis/procmap/internal/diagram"
	"github.com/spf13/cobra"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List color themes and output formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "THEME\tTASK\tLANE\tEDGE")
		for _, name := range diagram.ThemeNames() {
			t, err := diagram.LookupTheme(name)
			if err != nil {
				return err
			}
			marker := ""
			if name == diagram.DefaultTheme {
				marker = " (default)"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", name, marker, t.TaskFill, t.LaneFill, t.EdgeColor)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nFormats: %s\n", strings.Join(diagram.FormatNames(), ", "))
		return nil
	},
}
