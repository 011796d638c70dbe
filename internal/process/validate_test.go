package process

import (
	"testing"

	"github.com/rendis/procmap/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// laneWith creates a builder with one lane named "L" and the given nodes,
// keyed by ID.
func laneWith(t *testing.T, nodes ...Node) (*Builder, map[string]NodeRef) {
	t.Helper()
	b := NewBuilder("Checks")
	lane, err := b.AddLane("L")
	require.NoError(t, err)
	refs := make(map[string]NodeRef, len(nodes))
	for _, n := range nodes {
		ref, err := b.AddNodeWithID(lane, n.ID, n.Label, n.Kind)
		require.NoError(t, err)
		refs[n.ID] = ref
	}
	return b, refs
}

func start(id string) Node   { return Node{ID: id, Label: "Start", Kind: schema.NodeKindStartEvent} }
func task(id string) Node    { return Node{ID: id, Label: id, Kind: schema.NodeKindTask} }
func gateway(id string) Node { return Node{ID: id, Label: id + "?", Kind: schema.NodeKindExclusiveGateway} }

func TestValidate_Clean(t *testing.T) {
	b, r := laneWith(t, start("s"), task("a"), gateway("g"), task("yes"), task("no"))
	require.NoError(t, b.Connect(r["s"], r["a"], ""))
	require.NoError(t, b.Connect(r["a"], r["g"], ""))
	require.NoError(t, b.Connect(r["g"], r["yes"], "Yes"))
	require.NoError(t, b.Connect(r["g"], r["no"], "No"))

	result := validate(b)
	assert.True(t, result.Valid())
	assert.Empty(t, result.Warnings)
}

func TestValidate_NoLanes(t *testing.T) {
	result := validate(NewBuilder("Empty"))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "lanes", result.Errors[0].Path)
}

func TestValidate_EmptyTitle(t *testing.T) {
	b := NewBuilder("")
	lane, err := b.AddLane("L")
	require.NoError(t, err)
	s, err := b.AddNode(lane, "Start", schema.NodeKindStartEvent)
	require.NoError(t, err)
	a, err := b.AddNode(lane, "A", schema.NodeKindTask)
	require.NoError(t, err)
	require.NoError(t, b.Connect(s, a, ""))

	result := validate(b)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "title", result.Errors[0].Path)
}

func TestValidate_EmptyLaneWarns(t *testing.T) {
	b, r := laneWith(t, start("s"), task("a"))
	require.NoError(t, b.Connect(r["s"], r["a"], ""))
	_, err := b.AddLane("Idle")
	require.NoError(t, err)

	result := validate(b)
	assert.True(t, result.Valid())
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "lanes[Idle]", result.Warnings[0].Path)
}

func TestValidate_NoStartEvent(t *testing.T) {
	b, r := laneWith(t, task("a"), task("b"))
	require.NoError(t, b.Connect(r["a"], r["b"], ""))

	result := validate(b)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "no start event")
}

func TestValidate_TwoStartEvents(t *testing.T) {
	b, r := laneWith(t, start("s1"), start("s2"), task("a"))
	require.NoError(t, b.Connect(r["s1"], r["a"], ""))
	require.NoError(t, b.Connect(r["s2"], r["a"], ""))

	result := validate(b)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "2 start events")
}

func TestValidate_GatewaySingleBranch(t *testing.T) {
	b, r := laneWith(t, start("s"), gateway("g"), task("yes"))
	require.NoError(t, b.Connect(r["s"], r["g"], ""))
	require.NoError(t, b.Connect(r["g"], r["yes"], "Yes"))

	result := validate(b)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "nodes[g]", result.Errors[0].Path)
	assert.Contains(t, result.Errors[0].Message, "want at least 2")
}

func TestValidate_GatewayUnlabeledBranch(t *testing.T) {
	b, r := laneWith(t, start("s"), gateway("g"), task("yes"), task("no"))
	require.NoError(t, b.Connect(r["s"], r["g"], ""))
	require.NoError(t, b.Connect(r["g"], r["yes"], "Yes"))
	require.NoError(t, b.Connect(r["g"], r["no"], ""))

	result := validate(b)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "unlabeled branch to no")
}

func TestValidate_GatewayDuplicateLabels(t *testing.T) {
	b, r := laneWith(t, start("s"), gateway("g"), task("a"), task("b"))
	require.NoError(t, b.Connect(r["s"], r["g"], ""))
	require.NoError(t, b.Connect(r["g"], r["a"], "Yes"))
	require.NoError(t, b.Connect(r["g"], r["b"], "Yes"))

	result := validate(b)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, `duplicate branch label "Yes"`)
}

func TestValidate_GatewayThreeBranches(t *testing.T) {
	b, r := laneWith(t, start("s"), gateway("g"), task("a"), task("b"), task("c"))
	require.NoError(t, b.Connect(r["s"], r["g"], ""))
	require.NoError(t, b.Connect(r["g"], r["a"], "Approve"))
	require.NoError(t, b.Connect(r["g"], r["b"], "Reject"))
	require.NoError(t, b.Connect(r["g"], r["c"], "Duplicate"))

	assert.True(t, validate(b).Valid())
}

func TestValidate_UnreachableNode(t *testing.T) {
	b, r := laneWith(t, start("s"), task("a"), task("orphan"), task("island"))
	require.NoError(t, b.Connect(r["s"], r["a"], ""))
	// Connected, but only to each other.
	require.NoError(t, b.Connect(r["orphan"], r["island"], ""))

	result := validate(b)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, "nodes[orphan]", result.Errors[0].Path)
	assert.Equal(t, "nodes[island]", result.Errors[1].Path)
}

func TestValidate_NoTaskReachable(t *testing.T) {
	b, r := laneWith(t, start("s"), Node{ID: "e", Label: "End", Kind: schema.NodeKindEndEvent})
	require.NoError(t, b.Connect(r["s"], r["e"], ""))

	result := validate(b)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, "no task is reachable")
}

func TestValidate_CycleIsAllowed(t *testing.T) {
	// Rework loops are legitimate in a process diagram.
	b, r := laneWith(t, start("s"), task("draft"), gateway("ok"), task("done"))
	require.NoError(t, b.Connect(r["s"], r["draft"], ""))
	require.NoError(t, b.Connect(r["draft"], r["ok"], ""))
	require.NoError(t, b.Connect(r["ok"], r["draft"], "No"))
	require.NoError(t, b.Connect(r["ok"], r["done"], "Yes"))

	assert.True(t, validate(b).Valid())
}

func TestBuild_KeepsWarnings(t *testing.T) {
	b, r := laneWith(t, start("s"), task("a"))
	require.NoError(t, b.Connect(r["s"], r["a"], ""))
	_, err := b.AddLane("Idle")
	require.NoError(t, err)

	p, err := b.Build()
	require.NoError(t, err)
	require.Len(t, p.Warnings(), 1)
	assert.Contains(t, p.Warnings()[0].Message, `lane "Idle" has no nodes`)
}
