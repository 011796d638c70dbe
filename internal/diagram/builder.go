package diagram

import (
	"github.com/rendis/procmap/internal/process"
	"github.com/rendis/procmap/pkg/schema"
)

// Build constructs a DiagramModel from a finalized Process. The pool holds
// one lane per process lane; nodes and edges are copied in definition order.
func Build(p *process.Process) (*DiagramModel, error) {
	if p == nil {
		return nil, schema.NewError(schema.ErrCodeRender, "cannot build diagram from nil process")
	}

	lanes := p.Lanes()
	model := &DiagramModel{
		Title: p.Title(),
		Pool:  p.Pool(),
		Theme: p.Theme(),
		Lanes: make([]*Lane, 0, len(lanes)),
	}
	for _, l := range lanes {
		model.Lanes = append(model.Lanes, &Lane{Name: l.Name, NodeIDs: l.NodeIDs})
	}

	nodes := p.Nodes()
	model.Nodes = make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		model.Nodes = append(model.Nodes, &Node{
			ID:    n.ID,
			Label: n.Label,
			Kind:  nodeKind(n.Kind),
			Lane:  n.Lane,
		})
	}

	edges := p.Edges()
	model.Edges = make([]Edge, 0, len(edges))
	for _, e := range edges {
		model.Edges = append(model.Edges, Edge{From: e.From, To: e.To, Label: e.Label})
	}
	return model, nil
}

// nodeKind converts a schema.NodeKind to a NodeKind.
func nodeKind(k schema.NodeKind) NodeKind {
	switch k {
	case schema.NodeKindStartEvent:
		return NodeKindStart
	case schema.NodeKindEndEvent:
		return NodeKindEnd
	case schema.NodeKindExclusiveGateway:
		return NodeKindGateway
	default:
		return NodeKindTask
	}
}
