package diagram

// NodeKind classifies a diagram node by the BPMN element it draws.
type NodeKind string

const (
	NodeKindStart   NodeKind = "start"
	NodeKindEnd     NodeKind = "end"
	NodeKindTask    NodeKind = "task"
	NodeKindGateway NodeKind = "gateway"
)

// DiagramModel is the intermediate representation used by all renderers.
// Lanes, nodes and edges keep definition order so output is deterministic.
type DiagramModel struct {
	Title string
	Pool  string
	Theme string
	Lanes []*Lane
	Nodes []*Node
	Edges []Edge
}

// Lane is one horizontal band of the pool.
type Lane struct {
	Name    string
	NodeIDs []string
}

// Node represents a single element in the diagram.
type Node struct {
	ID    string
	Label string
	Kind  NodeKind
	Lane  string
}

// Edge represents a sequence flow between two nodes.
type Edge struct {
	From  string
	To    string
	Label string
}

// Node looks up a node by ID.
func (m *DiagramModel) Node(id string) *Node {
	for _, n := range m.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
