package diagram

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// MermaidRenderer renders a DiagramModel as Mermaid flowchart text.
type MermaidRenderer struct {
	theme Theme
}

// NewMermaidRenderer returns a renderer producing Mermaid flowchart text.
func NewMermaidRenderer(theme Theme) *MermaidRenderer {
	return &MermaidRenderer{theme: theme}
}

// Render writes the flowchart to w.
func (r *MermaidRenderer) Render(_ context.Context, model *DiagramModel, w io.Writer) error {
	if _, err := io.WriteString(w, RenderMermaid(model, r.theme)); err != nil {
		return renderError("write mermaid", err)
	}
	return nil
}

// RenderMermaid renders a DiagramModel as a Mermaid flowchart string. The
// pool is an outer subgraph holding one subgraph per lane. Nodes get
// generated IDs (see mermaidIDs), so any node ID is safe to render.
// Edges with an unknown endpoint are skipped.
func RenderMermaid(model *DiagramModel, theme Theme) string {
	var b strings.Builder
	ids := mermaidIDs(model)

	b.WriteString("flowchart LR\n")

	// Title as comment.
	if model.Title != "" {
		b.WriteString(fmt.Sprintf("    %%%% %s\n", model.Title))
	}

	b.WriteString(fmt.Sprintf("    subgraph pool[%s]\n", mermaidLabel(model.Pool)))
	b.WriteString("        direction TB\n")
	for i, lane := range model.Lanes {
		b.WriteString(fmt.Sprintf("        subgraph lane_%d[%s]\n", i, mermaidLabel(lane.Name)))
		b.WriteString("            direction LR\n")
		for _, id := range lane.NodeIDs {
			if node := model.Node(id); node != nil {
				b.WriteString(fmt.Sprintf("            %s\n", mermaidNodeDef(ids[id], node)))
			}
		}
		b.WriteString("        end\n")
	}
	b.WriteString("    end\n")

	for _, edge := range model.Edges {
		from, okFrom := ids[edge.From]
		to, okTo := ids[edge.To]
		if !okFrom || !okTo {
			continue
		}
		label := ""
		if edge.Label != "" {
			label = "|" + mermaidLabel(edge.Label) + "|"
		}
		b.WriteString(fmt.Sprintf("    %s -->%s %s\n", from, label, to))
	}

	// Theme class definitions.
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("    classDef event fill:%s,stroke:%s,color:%s\n", theme.EventFill, theme.EventBorder, theme.TaskFont))
	b.WriteString(fmt.Sprintf("    classDef task fill:%s,stroke:%s,color:%s\n", theme.TaskFill, theme.TaskBorder, theme.TaskFont))
	b.WriteString(fmt.Sprintf("    classDef gateway fill:%s,stroke:%s,color:%s\n", theme.GatewayFill, theme.GatewayBorder, theme.TaskFont))
	b.WriteString(fmt.Sprintf("    style pool fill:%s,stroke:%s,color:%s\n", theme.PoolFill, theme.PoolBorder, theme.TitleFont))
	for i := range model.Lanes {
		b.WriteString(fmt.Sprintf("    style lane_%d fill:%s,stroke:%s,color:%s\n", i, theme.LaneFill, theme.LaneBorder, theme.LaneFont))
	}

	// Apply classes.
	for _, cls := range []string{"event", "task", "gateway"} {
		var members []string
		for _, node := range model.Nodes {
			if mermaidClass(node.Kind) == cls {
				members = append(members, ids[node.ID])
			}
		}
		if len(members) > 0 {
			b.WriteString(fmt.Sprintf("    class %s %s\n", strings.Join(members, ","), cls))
		}
	}

	return b.String()
}

// mermaidIDs maps node IDs to "n<index>" in model order. Node IDs may hold
// dots, dashes or words Mermaid reserves (end, subgraph, pool), so they are
// never used verbatim.
func mermaidIDs(model *DiagramModel) map[string]string {
	ids := make(map[string]string, len(model.Nodes))
	for i, node := range model.Nodes {
		ids[node.ID] = fmt.Sprintf("n%d", i)
	}
	return ids
}

// mermaidNodeDef returns a Mermaid node definition with the appropriate shape.
func mermaidNodeDef(id string, node *Node) string {
	label := mermaidLabel(node.Label)

	switch node.Kind {
	case NodeKindGateway:
		return fmt.Sprintf("%s{%s}", id, label)
	case NodeKindStart:
		return fmt.Sprintf("%s((%s))", id, label)
	case NodeKindEnd:
		return fmt.Sprintf("%s(((%s)))", id, label)
	default: // task
		return fmt.Sprintf("%s(%s)", id, label)
	}
}

// mermaidLabel quotes a label, turning line breaks into <br/>.
func mermaidLabel(s string) string {
	r := strings.NewReplacer(`"`, "#quot;", "\n", "<br/>")
	return `"` + r.Replace(s) + `"`
}

func mermaidClass(kind NodeKind) string {
	switch kind {
	case NodeKindStart, NodeKindEnd:
		return "event"
	case NodeKindGateway:
		return "gateway"
	default:
		return "task"
	}
}
