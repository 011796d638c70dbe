package diagram

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/rendis/procmap/pkg/schema"
)

// GraphvizRenderer lays out a DiagramModel with graphviz and encodes it as
// PNG, SVG, JPG or dot. The pool and each lane become nested clusters laid
// out left to right.
type GraphvizRenderer struct {
	format graphviz.Format
	theme  Theme
}

// NewGraphvizRenderer returns a renderer for one of the graphviz formats.
func NewGraphvizRenderer(format Format, theme Theme) (*GraphvizRenderer, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatPNG:
		gvFormat = graphviz.PNG
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatJPG:
		gvFormat = graphviz.JPG
	case FormatDOT:
		gvFormat = graphviz.XDOT
	default:
		return nil, schema.NewErrorf(schema.ErrCodeConfig, "format %q is not a graphviz format", format)
	}
	return &GraphvizRenderer{format: gvFormat, theme: theme}, nil
}

// Render writes the laid-out diagram to w.
func (r *GraphvizRenderer) Render(ctx context.Context, model *DiagramModel, w io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return renderError("create graphviz", err)
	}
	defer gv.Close()

	gv.SetLayout(graphviz.DOT)

	graph, err := gv.Graph(graphviz.WithName("process"))
	if err != nil {
		return renderError("create graph", err)
	}
	defer graph.Close()

	if err := r.buildGraph(graph, model); err != nil {
		return err
	}

	if err := gv.Render(ctx, graph, r.format, w); err != nil {
		return renderError(fmt.Sprintf("render %s", r.format), err)
	}
	return nil
}

func (r *GraphvizRenderer) buildGraph(graph *cgraph.Graph, model *DiagramModel) error {
	t := r.theme

	graph.SetRankDir(cgraph.LRRank)
	graph.SetCompound(true)
	graph.SetNewRank(true)
	graph.SetNodeSeparator(0.4)
	graph.SetRankSeparator(0.5)
	graph.SetPad(0.3)
	graph.SetBackgroundColor(t.Background)
	graph.SetFontName(t.FontName)
	graph.SetFontColor(t.TitleFont)
	if model.Title != "" {
		graph.SetLabel(model.Title)
		graph.SetLabelLocation(cgraph.TopLocation)
		graph.SetFontSize(20)
	}

	pool, err := graph.CreateSubGraphByName("cluster_pool")
	if err != nil {
		return renderError("create pool cluster", err)
	}
	pool.SetLabel(model.Pool)
	pool.SetLabelJust(cgraph.LeftJust)
	pool.SetFontSize(16)
	if err := styleCluster(pool, t.PoolFill, t.PoolBorder); err != nil {
		return err
	}

	gvNodes := make(map[string]*cgraph.Node, len(model.Nodes))
	for i, lane := range model.Lanes {
		sub, err := pool.CreateSubGraphByName(fmt.Sprintf("cluster_lane_%d", i))
		if err != nil {
			return renderError(fmt.Sprintf("create lane cluster %q", lane.Name), err)
		}
		sub.SetLabel(lane.Name)
		sub.SetLabelJust(cgraph.LeftJust)
		sub.SetFontColor(t.LaneFont)
		sub.SetFontSize(14)
		if err := styleCluster(sub, t.LaneFill, t.LaneBorder); err != nil {
			return err
		}

		for _, id := range lane.NodeIDs {
			node := model.Node(id)
			if node == nil {
				return schema.NewError(schema.ErrCodeRender, "lane references a node missing from the model").
					WithLane(lane.Name).WithNode(id)
			}
			gvNode, err := sub.CreateNodeByName(node.ID)
			if err != nil {
				return renderError(fmt.Sprintf("create node %s", node.ID), err)
			}
			gvNode.SetLabel(node.Label)
			gvNode.SetFontName(t.FontName)
			gvNode.SetFontSize(11)
			applyNodeStyle(gvNode, node, t)
			gvNodes[node.ID] = gvNode
		}
	}

	for _, edge := range model.Edges {
		fromGV, toGV := gvNodes[edge.From], gvNodes[edge.To]
		if fromGV == nil || toGV == nil {
			return schema.NewErrorf(schema.ErrCodeRender, "edge %s -> %s references a node outside every lane",
				edge.From, edge.To)
		}
		e, err := graph.CreateEdgeByName("", fromGV, toGV)
		if err != nil {
			return renderError(fmt.Sprintf("create edge %s -> %s", edge.From, edge.To), err)
		}
		e.SetColor(t.EdgeColor)
		e.SetArrowHead(cgraph.NormalArrow)
		e.SetFontName(t.FontName)
		e.SetFontSize(10)
		if edge.Label != "" {
			e.SetLabel(edge.Label)
			e.SetFontColor(t.EdgeFont)
		}
	}
	return nil
}

// styleCluster fills a cluster. Clusters have no typed fill/pen color setters.
func styleCluster(g *cgraph.Graph, fill, border string) error {
	g.SetStyle(cgraph.FilledGraphStyle)
	if err := g.SafeSet("fillcolor", fill, ""); err != nil {
		return renderError("set cluster fill color", err)
	}
	if err := g.SafeSet("color", border, ""); err != nil {
		return renderError("set cluster border color", err)
	}
	return nil
}

// applyNodeStyle sets graphviz attributes based on node kind.
func applyNodeStyle(gvNode *cgraph.Node, node *Node, t Theme) {
	gvNode.SetFontColor(t.TaskFont)
	switch node.Kind {
	case NodeKindStart:
		gvNode.SetShape(cgraph.CircleShape)
		gvNode.SetStyle(cgraph.FilledNodeStyle)
		gvNode.SetFillColor(t.EventFill)
		gvNode.SetColor(t.EventBorder)
		gvNode.SetWidth(0.6)
		gvNode.SetFixedSize(true)
	case NodeKindEnd:
		gvNode.SetShape(cgraph.DoubleCircleShape)
		gvNode.SetStyle(cgraph.FilledNodeStyle)
		gvNode.SetFillColor(t.EventFill)
		gvNode.SetColor(t.EventBorder)
		gvNode.SetPenWidth(2)
		gvNode.SetWidth(0.5)
		gvNode.SetFixedSize(true)
	case NodeKindGateway:
		gvNode.SetShape(cgraph.DiamondShape)
		gvNode.SetStyle(cgraph.FilledNodeStyle)
		gvNode.SetFillColor(t.GatewayFill)
		gvNode.SetColor(t.GatewayBorder)
	default:
		gvNode.SetShape(cgraph.BoxShape)
		gvNode.SetStyle(cgraph.FilledNodeStyle + "," + cgraph.RoundedNodeStyle)
		gvNode.SetFillColor(t.TaskFill)
		gvNode.SetColor(t.TaskBorder)
		gvNode.SetMargin(0.1)
	}
}

func renderError(msg string, cause error) error {
	return schema.NewError(schema.ErrCodeRender, msg).WithCause(cause)
}
