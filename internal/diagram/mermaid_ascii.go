package diagram

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// RenderASCIIAuto tries to render using the mermaid-ascii CLI binary if available,
// falling back to the built-in RenderASCII renderer. A failing binary is
// reported on logger at debug level.
func RenderASCIIAuto(ctx context.Context, logger *slog.Logger, model *DiagramModel, binDir string) string {
	if binDir != "" {
		binPath := filepath.Join(binDir, "mermaid-ascii")
		if _, err := os.Stat(binPath); err == nil {
			result, err := RenderASCIIViaCLI(ctx, model, binPath)
			if err == nil {
				return result
			}
			logger.DebugContext(ctx, "mermaid-ascii failed, using built-in renderer", "error", err)
		}
	}
	return RenderASCII(model)
}

// RenderASCIIViaCLI pipes simplified Mermaid syntax through the mermaid-ascii binary.
func RenderASCIIViaCLI(ctx context.Context, model *DiagramModel, binPath string) (string, error) {
	mermaid := RenderMermaidForCLI(model)

	cmd := exec.CommandContext(ctx, binPath)
	cmd.Stdin = strings.NewReader(mermaid)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("mermaid-ascii: %w: %s", err, stderr.String())
	}
	return stdout.String(), nil
}

// RenderMermaidForCLI generates simplified Mermaid syntax compatible with the
// mermaid-ascii CLI tool. mermaid-ascii cannot parse ["label"] declarations
// and ignores subgraph blocks, so labels become node IDs and lanes are
// dropped.
func RenderMermaidForCLI(model *DiagramModel) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	// Labels repeat ("Send Notification" appears once per lane), so a
	// clashing display ID is suffixed with the node ID, then a counter.
	displayID := make(map[string]string, len(model.Nodes))
	used := map[string]bool{"end": true, "graph": true, "subgraph": true}
	for _, node := range model.Nodes {
		base := cliNodeID(node)
		id := base
		if used[id] {
			if suffix := cliSanitize(node.ID); suffix != "" {
				id = base + "-" + suffix
			}
		}
		for n := 2; used[id]; n++ {
			id = fmt.Sprintf("%s-%d", base, n)
		}
		used[id] = true
		displayID[node.ID] = id
	}

	for _, edge := range model.Edges {
		from, okFrom := displayID[edge.From]
		to, okTo := displayID[edge.To]
		if !okFrom || !okTo {
			continue
		}
		label := ""
		if edge.Label != "" {
			label = fmt.Sprintf("|%s|", strings.Join(strings.Fields(strings.ReplaceAll(edge.Label, "|", " ")), " "))
		}
		b.WriteString(fmt.Sprintf("    %s -->%s %s\n", from, label, to))
	}

	return b.String()
}

// cliNodeID builds a display ID for the mermaid-ascii CLI from the node
// label, else the node ID, else "node".
func cliNodeID(node *Node) string {
	if id := cliSanitize(node.Label); id != "" {
		return id
	}
	if id := cliSanitize(node.ID); id != "" {
		return id
	}
	return "node"
}

// cliSanitize keeps [A-Za-z0-9_] and collapses every other run to "-".
func cliSanitize(s string) string {
	var sb strings.Builder
	pendingDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			if pendingDash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			pendingDash = false
			continue
		}
		pendingDash = true
	}
	return sb.String()
}
