package process

import (
	"fmt"
	"strings"

	"github.com/rendis/procmap/pkg/schema"
)

// LaneRef is a handle to a lane issued by a Builder.
type LaneRef struct {
	owner *Builder
	idx   int
}

// Name returns the lane name, or "" for the zero LaneRef.
func (l LaneRef) Name() string {
	if l.owner == nil {
		return ""
	}
	return l.owner.lanes[l.idx].Name
}

// NodeRef is a handle to a node issued by a Builder.
type NodeRef struct {
	owner *Builder
	id    string
}

// ID returns the node ID, or "" for the zero NodeRef.
func (n NodeRef) ID() string {
	return n.id
}

// Option configures a Builder.
type Option func(b *Builder)

// WithPool names the pool holding the lanes. Defaults to the title.
func WithPool(name string) Option {
	return func(b *Builder) {
		b.pool = name
	}
}

// WithTheme records the theme the process prefers when rendered.
func WithTheme(theme string) Option {
	return func(b *Builder) {
		b.theme = theme
	}
}

// Builder accumulates lanes, nodes and edges and produces an immutable
// Process. Structural mistakes are reported by the call that introduces them;
// whole-graph checks run in Build. A Builder is single-use: after Build (or
// after Define returns) every mutation fails.
type Builder struct {
	title string
	pool  string
	theme string

	lanes     []Lane
	laneIndex map[string]int
	nodes     []Node
	nodeIndex map[string]int
	edges     []Edge
	edgeSet   map[[2]string]bool
	seq       map[int]int // lane index → last generated node number

	closed bool
	// Outcome of the first Build call.
	built    *Process
	buildErr error
}

// NewBuilder creates a Builder for a process with the given title.
func NewBuilder(title string, opts ...Option) *Builder {
	b := &Builder{
		title:     title,
		laneIndex: make(map[string]int),
		nodeIndex: make(map[string]int),
		edgeSet:   make(map[[2]string]bool),
		seq:       make(map[int]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.pool == "" {
		b.pool = title
	}
	return b
}

// Define opens a Builder, hands it to fn and finalizes it on every exit path,
// including when fn fails or panics. On success it returns the built Process.
// fn may call Build itself; Define then returns that outcome.
func Define(title string, fn func(b *Builder) error, opts ...Option) (*Process, error) {
	b := NewBuilder(title, opts...)
	defer b.close()

	if err := fn(b); err != nil {
		return nil, err
	}
	if b.built != nil || b.buildErr != nil {
		return b.built, b.buildErr
	}
	return b.Build()
}

// AddLane appends a lane. Names must be non-empty and unique.
func (b *Builder) AddLane(name string) (LaneRef, error) {
	if err := b.checkOpen(); err != nil {
		return LaneRef{}, err
	}
	if strings.TrimSpace(name) == "" {
		return LaneRef{}, schema.NewError(schema.ErrCodeDefinition, "lane name is empty")
	}
	if _, exists := b.laneIndex[name]; exists {
		return LaneRef{}, schema.NewError(schema.ErrCodeDefinition, "duplicate lane name").WithLane(name)
	}

	b.lanes = append(b.lanes, Lane{Name: name})
	idx := len(b.lanes) - 1
	b.laneIndex[name] = idx
	return LaneRef{owner: b, idx: idx}, nil
}

// AddNode appends a node to lane with a generated ID of the form
// "<lane>_<n>", e.g. "mc_officer_3".
func (b *Builder) AddNode(lane LaneRef, label string, kind schema.NodeKind) (NodeRef, error) {
	if err := b.checkLane(lane); err != nil {
		return NodeRef{}, err
	}
	return b.AddNodeWithID(lane, b.nextID(lane.idx), label, kind)
}

// AddNodeWithID appends a node with an explicit ID, as used by definitions
// loaded from files.
func (b *Builder) AddNodeWithID(lane LaneRef, id, label string, kind schema.NodeKind) (NodeRef, error) {
	if err := b.checkLane(lane); err != nil {
		return NodeRef{}, err
	}
	laneName := b.lanes[lane.idx].Name

	if id == "" {
		return NodeRef{}, schema.NewError(schema.ErrCodeDefinition, "node id is empty").WithLane(laneName)
	}
	if _, exists := b.nodeIndex[id]; exists {
		return NodeRef{}, schema.NewError(schema.ErrCodeDefinition, "duplicate node id").WithNode(id)
	}
	if strings.TrimSpace(label) == "" {
		return NodeRef{}, schema.NewError(schema.ErrCodeDefinition, "node label is empty").WithNode(id)
	}
	if !kind.Valid() {
		return NodeRef{}, schema.NewErrorf(schema.ErrCodeDefinition, "unknown node kind %q", kind).WithNode(id)
	}

	b.nodes = append(b.nodes, Node{ID: id, Label: label, Kind: kind, Lane: laneName})
	b.nodeIndex[id] = len(b.nodes) - 1
	b.lanes[lane.idx].NodeIDs = append(b.lanes[lane.idx].NodeIDs, id)
	return NodeRef{owner: b, id: id}, nil
}

// Connect registers a directed edge. label may be empty except on edges
// leaving an exclusive gateway, which Build checks.
func (b *Builder) Connect(from, to NodeRef, label string) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if err := b.checkNode(from); err != nil {
		return err
	}
	if err := b.checkNode(to); err != nil {
		return err
	}
	if from.id == to.id {
		return schema.NewError(schema.ErrCodeDefinition, "edge connects a node to itself").WithNode(from.id)
	}
	if b.edgeSet[[2]string{from.id, to.id}] {
		return schema.NewErrorf(schema.ErrCodeDefinition, "duplicate edge to %s", to.id).WithNode(from.id)
	}
	if b.kindOf(to.id) == schema.NodeKindStartEvent {
		return schema.NewError(schema.ErrCodeDefinition, "start event cannot have incoming edges").WithNode(to.id)
	}
	if b.kindOf(from.id) == schema.NodeKindEndEvent {
		return schema.NewError(schema.ErrCodeDefinition, "end event cannot have outgoing edges").WithNode(from.id)
	}

	b.edges = append(b.edges, Edge{From: from.id, To: to.id, Label: label})
	b.edgeSet[[2]string{from.id, to.id}] = true
	return nil
}

// Lane returns the handle of an existing lane.
func (b *Builder) Lane(name string) (LaneRef, bool) {
	idx, ok := b.laneIndex[name]
	if !ok {
		return LaneRef{}, false
	}
	return LaneRef{owner: b, idx: idx}, true
}

// Node returns the handle of an existing node.
func (b *Builder) Node(id string) (NodeRef, bool) {
	if _, ok := b.nodeIndex[id]; !ok {
		return NodeRef{}, false
	}
	return NodeRef{owner: b, id: id}, true
}

// Build runs the whole-graph checks, finalizes the builder and returns the
// immutable Process. All violations are reported together in one
// DEFINITION_ERROR.
func (b *Builder) Build() (*Process, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}
	defer b.close()

	result := validate(b)
	if err := result.ToError(); err != nil {
		b.buildErr = err
		return nil, err
	}

	p := &Process{
		title:     b.title,
		pool:      b.pool,
		theme:     b.theme,
		lanes:     make([]Lane, len(b.lanes)),
		nodes:     append([]Node(nil), b.nodes...),
		nodeIndex: make(map[string]int, len(b.nodes)),
		edges:     append([]Edge(nil), b.edges...),
		outgoing:  make(map[string][]int, len(b.nodes)),
		incoming:  make(map[string][]int, len(b.nodes)),
		warnings:  result.Warnings,
	}
	for i, l := range b.lanes {
		p.lanes[i] = Lane{Name: l.Name, NodeIDs: append([]string(nil), l.NodeIDs...)}
	}
	for i, n := range p.nodes {
		p.nodeIndex[n.ID] = i
		if n.Kind == schema.NodeKindStartEvent {
			p.start = n.ID
		}
	}
	for i, e := range p.edges {
		p.outgoing[e.From] = append(p.outgoing[e.From], i)
		p.incoming[e.To] = append(p.incoming[e.To], i)
	}
	b.built = p
	return p, nil
}

func (b *Builder) close() {
	b.closed = true
}

func (b *Builder) checkOpen() error {
	if b.closed {
		return schema.NewError(schema.ErrCodeDefinition, "builder already finalized")
	}
	return nil
}

func (b *Builder) checkLane(lane LaneRef) error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	if lane.owner != b {
		return schema.NewError(schema.ErrCodeDefinition, "lane does not belong to this process").WithLane(lane.Name())
	}
	return nil
}

func (b *Builder) checkNode(n NodeRef) error {
	if n.owner != b {
		return schema.NewError(schema.ErrCodeDefinition, "unknown node").WithNode(n.id)
	}
	return nil
}

func (b *Builder) kindOf(id string) schema.NodeKind {
	return b.nodes[b.nodeIndex[id]].Kind
}

// nextID generates a node ID unique within the builder.
func (b *Builder) nextID(laneIdx int) string {
	prefix := slug(b.lanes[laneIdx].Name)
	for {
		b.seq[laneIdx]++
		id := fmt.Sprintf("%s_%d", prefix, b.seq[laneIdx])
		if _, taken := b.nodeIndex[id]; !taken {
			return id
		}
	}
}

// slug lowercases s and collapses every run of non-alphanumerics into "_".
func slug(s string) string {
	var sb strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && sb.Len() > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
			pendingSep = false
			continue
		}
		pendingSep = true
	}
	if sb.Len() == 0 {
		return "lane"
	}
	return sb.String()
}
