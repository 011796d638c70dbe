package diagram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRenderASCIISDCRS(t *testing.T) {
	output := RenderASCII(sdcrsModel(t))
	assert.NotEmpty(t, output)

	// Verify title and pool.
	assert.Contains(t, output, "=== SDCRS - Stray Dog Capture & Reporting System ===")
	assert.Contains(t, output, "Pool: SDCRS Process")

	// Verify lanes in order.
	teacher := strings.Index(output, "--- Teacher ---")
	mc := strings.Index(output, "--- MC Officer ---")
	assert.True(t, teacher >= 0 && mc > teacher)

	// Verify box-drawing characters.
	assert.Contains(t, output, "┌")
	assert.Contains(t, output, "┘")
	assert.Contains(t, output, "│ Submit Application")
	assert.Contains(t, output, "[START]")
	assert.Contains(t, output, "[XOR]")

	// Flows, with branch labels and labels flattened.
	assert.Contains(t, output, "  Start ──→ Submit Application (Photo+Selfie+GPS)\n")
	assert.Contains(t, output, "  Valid? ─[No]→ Auto Reject\n")
	assert.Contains(t, output, "  Success? ─[Yes]→ Mark Captured/ Resolved\n")
}

func TestRenderASCIIWrapsWideLanes(t *testing.T) {
	for _, line := range strings.Split(RenderASCII(sdcrsModel(t)), "\n") {
		if strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "===") {
			continue // flow lines and the title are not boxes
		}
		assert.LessOrEqual(t, utf8.RuneCountInString(line), asciiMaxWidth, line)
	}
}

func TestRenderASCIIEndEvent(t *testing.T) {
	output := RenderASCII(reviewModel())
	assert.Contains(t, output, "[END]")
	assert.Contains(t, output, "│ Write │")
	assert.Contains(t, output, "│ Draft │")
	assert.Contains(t, output, "Accept? ─[No]→ Write Draft")
}

func TestWrapBoxes(t *testing.T) {
	box := func(w int) asciiBox { return asciiBox{width: w} }

	rows := wrapBoxes([]asciiBox{box(10), box(10), box(10)}, 22)
	assert.Len(t, rows, 2)
	assert.Len(t, rows[0], 2)

	rows = wrapBoxes([]asciiBox{box(50), box(5)}, 20)
	assert.Len(t, rows, 2, "an oversize box gets its own row")

	assert.Empty(t, wrapBoxes(nil, 20))
}
