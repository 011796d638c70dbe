package diagram

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rendis/procmap/pkg/schema"
)

// Format names an output encoding.
type Format string

const (
	FormatPNG     Format = "png"
	FormatSVG     Format = "svg"
	FormatJPG     Format = "jpg"
	FormatDOT     Format = "dot"
	FormatMermaid Format = "mermaid"
	FormatASCII   Format = "ascii"
)

var formatExtensions = map[string]Format{
	".png":  FormatPNG,
	".svg":  FormatSVG,
	".jpg":  FormatJPG,
	".jpeg": FormatJPG,
	".dot":  FormatDOT,
	".gv":   FormatDOT,
	".mmd":  FormatMermaid,
	".txt":  FormatASCII,
}

// Renderer lays out a DiagramModel and encodes it to w.
type Renderer interface {
	Render(ctx context.Context, model *DiagramModel, w io.Writer) error
}

// RendererOptions carries settings only some renderers use.
type RendererOptions struct {
	// ToolsDir is searched for the mermaid-ascii binary.
	ToolsDir string
	// Logger receives renderer diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// NewRenderer returns the renderer for format with theme applied.
func NewRenderer(format Format, theme Theme, opts RendererOptions) (Renderer, error) {
	switch format {
	case FormatPNG, FormatSVG, FormatJPG, FormatDOT:
		return NewGraphvizRenderer(format, theme)
	case FormatMermaid:
		return NewMermaidRenderer(theme), nil
	case FormatASCII:
		return NewASCIIRenderer(opts.ToolsDir, opts.Logger), nil
	default:
		return nil, schema.NewErrorf(schema.ErrCodeConfig, "unknown output format %q", format).
			WithDetails(map[string]any{"available": FormatNames()})
	}
}

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FormatPNG, FormatSVG, FormatJPG, FormatDOT, FormatMermaid, FormatASCII:
		return f, nil
	case "jpeg":
		return FormatJPG, nil
	}
	return "", schema.NewErrorf(schema.ErrCodeConfig, "unknown output format %q", name).
		WithDetails(map[string]any{"available": FormatNames()})
}

// FormatFromPath infers the output format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	f, ok := formatExtensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// FormatNames returns all format names in sorted order.
func FormatNames() []string {
	names := []string{
		string(FormatPNG), string(FormatSVG), string(FormatJPG),
		string(FormatDOT), string(FormatMermaid), string(FormatASCII),
	}
	sort.Strings(names)
	return names
}
