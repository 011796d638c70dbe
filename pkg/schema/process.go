package schema

// ProcessDefinition is the JSON/YAML-serializable form of a swimlane process.
type ProcessDefinition struct {
	Title string           `json:"title" yaml:"title"`
	Theme string           `json:"theme,omitempty" yaml:"theme,omitempty"`
	Pool  string           `json:"pool,omitempty" yaml:"pool,omitempty"` // defaults to Title
	Lanes []LaneDefinition `json:"lanes" yaml:"lanes"`
	Edges []EdgeDefinition `json:"edges" yaml:"edges"`
}

// LaneDefinition is one actor column and the nodes it owns, in display order.
type LaneDefinition struct {
	Name  string           `json:"name" yaml:"name"`
	Nodes []NodeDefinition `json:"nodes" yaml:"nodes"`
}

// NodeDefinition describes a single event, task or gateway.
type NodeDefinition struct {
	ID    string   `json:"id" yaml:"id"`
	Label string   `json:"label" yaml:"label"`
	Kind  NodeKind `json:"kind" yaml:"kind"`
}

// EdgeDefinition is a directed connection between two node IDs.
type EdgeDefinition struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// NodeKind enumerates the kinds of nodes in a process.
type NodeKind string

const (
	NodeKindStartEvent       NodeKind = "start_event"
	NodeKindEndEvent         NodeKind = "end_event"
	NodeKindTask             NodeKind = "task"
	NodeKindExclusiveGateway NodeKind = "exclusive_gateway"
)

// Valid reports whether k is a known node kind.
func (k NodeKind) Valid() bool {
	switch k {
	case NodeKindStartEvent, NodeKindEndEvent, NodeKindTask, NodeKindExclusiveGateway:
		return true
	}
	return false
}

// IsEvent reports whether k is a start or end marker.
func (k NodeKind) IsEvent() bool {
	return k == NodeKindStartEvent || k == NodeKindEndEvent
}
