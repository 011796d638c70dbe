package diagram

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rendis/procmap/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingRenderer writes a partial payload and then fails.
type failingRenderer struct {
	err error
}

func (f failingRenderer) Render(_ context.Context, _ *DiagramModel, w io.Writer) error {
	_, _ = io.WriteString(w, "partial")
	return f.err
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestWriteFile_PNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sdcrs-workflow.png")

	theme, err := LookupTheme("GREYWOOF")
	require.NoError(t, err)
	r, err := NewRenderer(FormatPNG, theme, RendererOptions{})
	require.NoError(t, err)

	require.NoError(t, WriteFile(context.Background(), path, r, sdcrsModel(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(data) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
	assert.Equal(t, []string{"sdcrs-workflow.png"}, dirEntries(t, dir), "no temp file left behind")
}

func TestWriteFile_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.mmd")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, WriteFile(context.Background(), path, NewMermaidRenderer(Theme{}), reviewModel()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flowchart LR")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.png")

	err := WriteFile(context.Background(), path, NewMermaidRenderer(Theme{}), reviewModel())
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeRender))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFile_RenderFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	cause := errors.New("layout exploded")

	err := WriteFile(context.Background(), path, failingRenderer{err: cause}, reviewModel())
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeRender))
	assert.ErrorIs(t, err, cause)
	assert.Empty(t, dirEntries(t, dir))
}

func TestWriteFile_RenderErrorKeepsCode(t *testing.T) {
	dir := t.TempDir()
	renderErr := schema.NewError(schema.ErrCodeRender, "graphviz unavailable")

	err := WriteFile(context.Background(), filepath.Join(dir, "x.png"), failingRenderer{err: renderErr}, reviewModel())
	assert.Same(t, renderErr, err)
	assert.Empty(t, dirEntries(t, dir))
}

func TestWriteFile_BadArguments(t *testing.T) {
	err := WriteFile(context.Background(), "", NewMermaidRenderer(Theme{}), reviewModel())
	assert.True(t, schema.IsCode(err, schema.ErrCodeRender))

	err = WriteFile(context.Background(), filepath.Join(t.TempDir(), "x"), NewMermaidRenderer(Theme{}), nil)
	assert.True(t, schema.IsCode(err, schema.ErrCodeRender))
}
