package process

import (
	"fmt"
	"strings"

	"github.com/rendis/procmap/pkg/schema"
)

// validate performs the whole-graph checks that cannot be decided while the
// graph is still growing: lane population, the single start event, gateway
// branch completeness and reachability from the start event.
func validate(b *Builder) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	if b.title == "" {
		result.AddError("title", schema.ErrCodeDefinition, "process title is empty")
	}
	if len(b.lanes) == 0 {
		result.AddError("lanes", schema.ErrCodeDefinition, "process has no lanes")
		return result
	}
	for _, l := range b.lanes {
		if len(l.NodeIDs) == 0 {
			result.AddWarning(schema.LanePath(l.Name), schema.ErrCodeDefinition,
				fmt.Sprintf("lane %q has no nodes", l.Name))
		}
	}

	outgoing := make(map[string][]Edge, len(b.nodes))
	for _, e := range b.edges {
		outgoing[e.From] = append(outgoing[e.From], e)
	}

	var starts []string
	for _, n := range b.nodes {
		if n.Kind == schema.NodeKindStartEvent {
			starts = append(starts, n.ID)
		}
		if n.Kind == schema.NodeKindExclusiveGateway {
			checkGateway(result, n, outgoing[n.ID])
		}
	}

	switch len(starts) {
	case 0:
		result.AddError("nodes", schema.ErrCodeDefinition, "process has no start event")
		return result
	case 1:
	default:
		result.AddError("nodes", schema.ErrCodeDefinition,
			fmt.Sprintf("process has %d start events %v, want exactly one", len(starts), starts))
		return result
	}

	checkReachability(result, b.nodes, outgoing, starts[0])
	return result
}

// checkGateway requires at least two outgoing branches, each labeled, with
// labels distinct from one another.
func checkGateway(result *schema.ValidationResult, gw Node, branches []Edge) {
	path := schema.NodePath(gw.ID)

	if len(branches) < 2 {
		result.AddError(path, schema.ErrCodeDefinition,
			fmt.Sprintf("exclusive gateway %q has %d outgoing branch(es), want at least 2", firstLine(gw.Label), len(branches)))
	}

	seen := make(map[string]bool, len(branches))
	for _, e := range branches {
		if e.Label == "" {
			result.AddError(path, schema.ErrCodeDefinition,
				fmt.Sprintf("exclusive gateway %q has an unlabeled branch to %s", firstLine(gw.Label), e.To))
			continue
		}
		if seen[e.Label] {
			result.AddError(path, schema.ErrCodeDefinition,
				fmt.Sprintf("exclusive gateway %q has duplicate branch label %q", firstLine(gw.Label), e.Label))
		}
		seen[e.Label] = true
	}
}

// checkReachability walks the graph breadth-first from the start event and
// reports every node it cannot reach.
func checkReachability(result *schema.ValidationResult, nodes []Node, outgoing map[string][]Edge, start string) {
	reachable := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range outgoing[id] {
			if !reachable[e.To] {
				reachable[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	taskReached := false
	for _, n := range nodes {
		if !reachable[n.ID] {
			result.AddError(schema.NodePath(n.ID), schema.ErrCodeDefinition,
				fmt.Sprintf("node %q is unreachable from the start event", firstLine(n.Label)))
			continue
		}
		if n.Kind == schema.NodeKindTask {
			taskReached = true
		}
	}
	if !taskReached {
		result.AddError("nodes", schema.ErrCodeDefinition, "no task is reachable from the start event")
	}
}

// firstLine returns only the first line of a multi-line label.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
