package process

import "github.com/rendis/procmap/pkg/schema"

// Node is a single event, task or gateway owned by exactly one lane.
type Node struct {
	ID    string
	Label string
	Kind  schema.NodeKind
	Lane  string
}

// Edge is a directed connection between two nodes. Label is empty for
// unlabeled sequence flows.
type Edge struct {
	From  string
	To    string
	Label string
}

// Lane is an actor column. NodeIDs preserves insertion order.
type Lane struct {
	Name    string
	NodeIDs []string
}

// Stats summarizes the size of a process.
type Stats struct {
	Lanes    int
	Nodes    int
	Edges    int
	Events   int
	Tasks    int
	Gateways int
}

// Process is the immutable, validated swimlane graph produced by a Builder.
// Accessors return copies so callers cannot mutate the graph.
type Process struct {
	title string
	pool  string
	theme string

	lanes     []Lane
	nodes     []Node
	nodeIndex map[string]int
	edges     []Edge
	outgoing  map[string][]int // node ID → indices into edges
	incoming  map[string][]int
	start     string
	warnings  []schema.ValidationIssue
}

// Title returns the diagram title.
func (p *Process) Title() string { return p.title }

// Pool returns the name of the pool containing all lanes.
func (p *Process) Pool() string { return p.pool }

// Theme returns the theme the definition asks for, or "" when unset.
func (p *Process) Theme() string { return p.theme }

// Start returns the ID of the single start event.
func (p *Process) Start() string { return p.start }

// Lanes returns the lanes in display order.
func (p *Process) Lanes() []Lane {
	out := make([]Lane, len(p.lanes))
	for i, l := range p.lanes {
		out[i] = Lane{Name: l.Name, NodeIDs: append([]string(nil), l.NodeIDs...)}
	}
	return out
}

// Lane looks up a lane by name.
func (p *Process) Lane(name string) (Lane, bool) {
	for _, l := range p.lanes {
		if l.Name == name {
			return Lane{Name: l.Name, NodeIDs: append([]string(nil), l.NodeIDs...)}, true
		}
	}
	return Lane{}, false
}

// Nodes returns every node in insertion order.
func (p *Process) Nodes() []Node {
	return append([]Node(nil), p.nodes...)
}

// Node looks up a node by ID.
func (p *Process) Node(id string) (Node, bool) {
	i, ok := p.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return p.nodes[i], true
}

// Edges returns every edge in insertion order.
func (p *Process) Edges() []Edge {
	return append([]Edge(nil), p.edges...)
}

// Outgoing returns the edges leaving the given node.
func (p *Process) Outgoing(id string) []Edge {
	return p.pick(p.outgoing[id])
}

// Incoming returns the edges entering the given node.
func (p *Process) Incoming(id string) []Edge {
	return p.pick(p.incoming[id])
}

func (p *Process) pick(idx []int) []Edge {
	out := make([]Edge, 0, len(idx))
	for _, i := range idx {
		out = append(out, p.edges[i])
	}
	return out
}

// Warnings returns the non-fatal issues found when the process was built,
// such as lanes without nodes.
func (p *Process) Warnings() []schema.ValidationIssue {
	return append([]schema.ValidationIssue(nil), p.warnings...)
}

// Stats counts lanes, nodes, edges and node kinds.
func (p *Process) Stats() Stats {
	s := Stats{Lanes: len(p.lanes), Nodes: len(p.nodes), Edges: len(p.edges)}
	for _, n := range p.nodes {
		switch {
		case n.Kind.IsEvent():
			s.Events++
		case n.Kind == schema.NodeKindTask:
			s.Tasks++
		case n.Kind == schema.NodeKindExclusiveGateway:
			s.Gateways++
		}
	}
	return s
}
