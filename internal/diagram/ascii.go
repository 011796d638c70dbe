package diagram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// asciiMaxWidth is the column at which a lane's boxes wrap onto a new row.
const asciiMaxWidth = 100

// ASCIIRenderer renders a DiagramModel as text. When the mermaid-ascii binary
// is installed under binDir it is used; otherwise the built-in lane listing.
type ASCIIRenderer struct {
	binDir string
	logger *slog.Logger
}

// NewASCIIRenderer returns a text renderer. binDir may be empty; a nil logger
// means slog.Default().
func NewASCIIRenderer(binDir string, logger *slog.Logger) *ASCIIRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ASCIIRenderer{binDir: binDir, logger: logger}
}

// Render writes the text diagram to w.
func (r *ASCIIRenderer) Render(ctx context.Context, model *DiagramModel, w io.Writer) error {
	if _, err := io.WriteString(w, RenderASCIIAuto(ctx, r.logger, model, r.binDir)); err != nil {
		return renderError("write ascii", err)
	}
	return nil
}

// kindTag returns a short ASCII indicator for a node kind.
func kindTag(kind NodeKind) string {
	switch kind {
	case NodeKindStart:
		return "[START]"
	case NodeKindEnd:
		return "[END]"
	case NodeKindGateway:
		return "[XOR]"
	default:
		return ""
	}
}

// RenderASCII renders a DiagramModel as a text-based diagram: one section of
// boxes per lane followed by the list of sequence flows.
func RenderASCII(model *DiagramModel) string {
	var b strings.Builder

	// Title.
	if model.Title != "" {
		b.WriteString(fmt.Sprintf("=== %s ===\n", model.Title))
	}
	if model.Pool != "" {
		b.WriteString(fmt.Sprintf("Pool: %s\n", model.Pool))
	}

	for _, lane := range model.Lanes {
		b.WriteString(fmt.Sprintf("\n--- %s ---\n", lane.Name))

		var boxes []asciiBox
		for _, id := range lane.NodeIDs {
			if node := model.Node(id); node != nil {
				boxes = append(boxes, makeBox(node))
			}
		}
		for _, row := range wrapBoxes(boxes, asciiMaxWidth) {
			renderBoxRow(&b, row)
		}
	}

	if len(model.Edges) > 0 {
		b.WriteString("\nFlows:\n")
		for _, edge := range model.Edges {
			arrow := "──→"
			if edge.Label != "" {
				arrow = fmt.Sprintf("─[%s]→", edge.Label)
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				flatLabel(model, edge.From), arrow, flatLabel(model, edge.To)))
		}
	}

	return b.String()
}

// asciiBox holds the rendered lines of a single box.
type asciiBox struct {
	lines []string
	width int
}

// makeBox creates an ASCII box for a node, one content line per label line.
func makeBox(node *Node) asciiBox {
	contentLines := strings.Split(node.Label, "\n")
	if tag := kindTag(node.Kind); tag != "" {
		contentLines = append(contentLines, tag)
	}

	// Calculate width.
	maxLen := 0
	for _, line := range contentLines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	width := maxLen + 4 // 2 border + 2 padding

	// Build box lines.
	var lines []string
	top := "┌" + strings.Repeat("─", width-2) + "┐"
	bot := "└" + strings.Repeat("─", width-2) + "┘"
	lines = append(lines, top)
	for _, content := range contentLines {
		padded := content + strings.Repeat(" ", maxLen-utf8.RuneCountInString(content))
		lines = append(lines, "│ "+padded+" │")
	}
	lines = append(lines, bot)

	return asciiBox{lines: lines, width: width}
}

// wrapBoxes splits boxes into rows no wider than maxWidth. A box wider than
// maxWidth gets a row of its own.
func wrapBoxes(boxes []asciiBox, maxWidth int) [][]asciiBox {
	var rows [][]asciiBox
	var row []asciiBox
	width := 0
	for _, box := range boxes {
		next := width + box.width
		if len(row) > 0 {
			next += 2
		}
		if len(row) > 0 && next > maxWidth {
			rows = append(rows, row)
			row, next = nil, box.width
		}
		row = append(row, box)
		width = next
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// renderBoxRow writes boxes side by side.
func renderBoxRow(b *strings.Builder, boxes []asciiBox) {
	if len(boxes) == 0 {
		return
	}

	// Find max height.
	maxHeight := 0
	for _, box := range boxes {
		if len(box.lines) > maxHeight {
			maxHeight = len(box.lines)
		}
	}

	// Render line by line.
	for row := 0; row < maxHeight; row++ {
		var line strings.Builder
		for i, box := range boxes {
			if i > 0 {
				line.WriteString("  ") // gap between boxes
			}
			if row < len(box.lines) {
				line.WriteString(box.lines[row])
			} else {
				line.WriteString(strings.Repeat(" ", box.width))
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
}

// flatLabel returns a node's label on a single line, or the ID when the node
// is unknown.
func flatLabel(model *DiagramModel, id string) string {
	node := model.Node(id)
	if node == nil {
		return id
	}
	return strings.Join(strings.Fields(node.Label), " ")
}
