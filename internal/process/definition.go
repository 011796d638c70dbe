package process

import "github.com/rendis/procmap/pkg/schema"

// FromDefinition builds a Process from its serializable form. The definition
// goes through the same Builder calls as hand-written code, so every builder
// and whole-graph invariant applies.
func FromDefinition(def *schema.ProcessDefinition) (*Process, error) {
	if def == nil {
		return nil, schema.NewError(schema.ErrCodeDefinition, "process definition is nil")
	}

	opts := []Option{WithTheme(def.Theme)}
	if def.Pool != "" {
		opts = append(opts, WithPool(def.Pool))
	}

	return Define(def.Title, func(b *Builder) error {
		for _, ld := range def.Lanes {
			lane, err := b.AddLane(ld.Name)
			if err != nil {
				return err
			}
			for _, nd := range ld.Nodes {
				if _, err := b.AddNodeWithID(lane, nd.ID, nd.Label, nd.Kind); err != nil {
					return err
				}
			}
		}

		for i, ed := range def.Edges {
			from, ok := b.Node(ed.From)
			if !ok {
				return edgeRefError(i, ed, ed.From)
			}
			to, ok := b.Node(ed.To)
			if !ok {
				return edgeRefError(i, ed, ed.To)
			}
			if err := b.Connect(from, to, ed.Label); err != nil {
				return err
			}
		}
		return nil
	}, opts...)
}

func edgeRefError(i int, ed schema.EdgeDefinition, missing string) error {
	return schema.NewErrorf(schema.ErrCodeDefinition,
		"edges[%d] (%s -> %s) references unknown node %q", i, ed.From, ed.To, missing).
		WithDetails(map[string]any{"path": schema.EdgePath(i)})
}

// Definition converts the process back to its serializable form.
func (p *Process) Definition() *schema.ProcessDefinition {
	def := &schema.ProcessDefinition{
		Title: p.title,
		Theme: p.theme,
		Pool:  p.pool,
		Lanes: make([]schema.LaneDefinition, 0, len(p.lanes)),
		Edges: make([]schema.EdgeDefinition, 0, len(p.edges)),
	}
	for _, l := range p.lanes {
		ld := schema.LaneDefinition{Name: l.Name, Nodes: make([]schema.NodeDefinition, 0, len(l.NodeIDs))}
		for _, id := range l.NodeIDs {
			n := p.nodes[p.nodeIndex[id]]
			ld.Nodes = append(ld.Nodes, schema.NodeDefinition{ID: n.ID, Label: n.Label, Kind: n.Kind})
		}
		def.Lanes = append(def.Lanes, ld)
	}
	for _, e := range p.edges {
		def.Edges = append(def.Edges, schema.EdgeDefinition{From: e.From, To: e.To, Label: e.Label})
	}
	return def
}
