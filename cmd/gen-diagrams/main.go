// gen-diagrams renders the built-in SDCRS process in every output format for
// the README documentation.
// Run: go run ./cmd/gen-diagrams
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rendis/procmap/internal/diagram"
	"github.com/rendis/procmap/internal/logging"
	"github.com/rendis/procmap/internal/sdcrs"
)

var outputs = []struct {
	file   string
	format diagram.Format
}{
	{"sdcrs-workflow.png", diagram.FormatPNG},
	{"sdcrs-workflow.svg", diagram.FormatSVG},
	{"sdcrs-workflow.dot", diagram.FormatDOT},
	{"sdcrs-workflow.mmd", diagram.FormatMermaid},
	{"sdcrs-workflow.txt", diagram.FormatASCII},
}

func main() {
	logger, err := logging.NewLogger(os.Stderr, "info", "text")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	p, err := sdcrs.Process()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build error: %v\n", err)
		os.Exit(1)
	}
	model, err := diagram.Build(p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "model error: %v\n", err)
		os.Exit(1)
	}
	theme, err := diagram.LookupTheme(p.Theme())
	if err != nil {
		fmt.Fprintf(os.Stderr, "theme error: %v\n", err)
		os.Exit(1)
	}

	outDir := filepath.Join("docs", "assets")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", outDir, err)
		os.Exit(1)
	}

	home, _ := os.UserHomeDir()
	opts := diagram.RendererOptions{ToolsDir: filepath.Join(home, ".procmap", "bin"), Logger: logger}

	ctx := logging.WithProcess(context.Background(), p.Title())
	failed := false
	for _, out := range outputs {
		fctx := logging.WithFormat(ctx, string(out.format))
		r, err := diagram.NewRenderer(out.format, theme, opts)
		if err != nil {
			logger.ErrorContext(fctx, "renderer unavailable", "error", err)
			failed = true
			continue
		}
		path := filepath.Join(outDir, out.file)
		if err := diagram.WriteFile(fctx, path, r, model); err != nil {
			logger.ErrorContext(fctx, "render failed", "path", path, "error", err)
			failed = true
			continue
		}
		logger.InfoContext(fctx, "written", "path", path)
	}
	if failed {
		os.Exit(1)
	}
}
