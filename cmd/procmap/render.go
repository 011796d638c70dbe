package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rendis/procmap/internal/diagram"
	"github.com/rendis/procmap/internal/logging"
	"github.com/rendis/procmap/internal/process"
	"github.com/rendis/procmap/pkg/schema"
	"github.com/spf13/cobra"
)

var (
	renderOutput string
	renderTheme  string
	renderFormat string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the process diagram to a file",
	Long: `Render builds the process, lays it out and writes the diagram to the
configured output path. Use "-o -" to write to stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg
		if cmd.Flags().Changed("output") {
			c.OutputPath = renderOutput
		}
		if cmd.Flags().Changed("theme") {
			c.Theme = renderTheme
		}
		if cmd.Flags().Changed("format") {
			c.Format = renderFormat
		}
		if err := c.validate(); err != nil {
			return err
		}

		def, err := loadDefinition(definitionPath)
		if err != nil {
			return err
		}
		return renderDiagram(cmd.Context(), logger, c, def, cmd.OutOrStdout())
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output path (default from config: assets/sdcrs-workflow.png)")
	renderCmd.Flags().StringVarP(&renderTheme, "theme", "t", "", "color theme (see 'procmap themes')")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "png, svg, jpg, dot, mermaid or ascii (default from output extension)")
}

// renderDiagram builds def into a Process, renders it with c and writes it to
// c.OutputPath, or to stdout when the path is "-". The parent directory is
// created if missing.
func renderDiagram(ctx context.Context, logger *slog.Logger, c Config, def *schema.ProcessDefinition, stdout io.Writer) error {
	p, err := process.FromDefinition(def)
	if err != nil {
		return err
	}

	themeName := c.Theme
	if themeName == "" {
		themeName = p.Theme()
	}
	theme, err := diagram.LookupTheme(themeName)
	if err != nil {
		return err
	}
	format, err := c.outputFormat()
	if err != nil {
		return err
	}
	r, err := diagram.NewRenderer(format, theme, diagram.RendererOptions{ToolsDir: c.ToolsDir, Logger: logger})
	if err != nil {
		return err
	}
	model, err := diagram.Build(p)
	if err != nil {
		return err
	}

	ctx = logging.WithFormat(logging.WithProcess(ctx, p.Title()), string(format))
	for _, w := range p.Warnings() {
		logger.WarnContext(ctx, "process warning", "path", w.Path, "message", w.Message)
	}
	logger.DebugContext(ctx, "rendering diagram", "theme", theme.Name, "output", c.OutputPath)

	if c.OutputPath == "-" {
		return r.Render(ctx, model, stdout)
	}

	if err := os.MkdirAll(filepath.Dir(c.OutputPath), 0o755); err != nil {
		return schema.NewErrorf(schema.ErrCodeRender, "create output directory for %s", c.OutputPath).WithCause(err)
	}
	if err := diagram.WriteFile(ctx, c.OutputPath, r, model); err != nil {
		return err
	}

	stats := p.Stats()
	logger.InfoContext(ctx, "diagram written",
		"path", c.OutputPath,
		"theme", theme.Name,
		"lanes", stats.Lanes,
		"nodes", stats.Nodes,
		"edges", stats.Edges,
	)
	fmt.Fprintf(stdout, "Diagram written to %s\n", c.OutputPath)
	return nil
}
