package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rendis/procmap/internal/sdcrs"
	"github.com/rendis/procmap/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
title: Minimal
lanes:
  - name: Only
    nodes:
      - {id: start, label: Start, kind: start_event}
      - {id: work, label: "Do\nWork", kind: task}
edges:
  - {from: start, to: work}
`

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml":      FormatYAML,
		"dir/b.YML":   FormatYAML,
		"c.json":      FormatJSON,
		"/abs/d.Json": FormatJSON,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("process.toml")
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
}

func TestParseDefinition_YAML(t *testing.T) {
	def, err := ParseDefinition([]byte(minimalYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "Minimal", def.Title)
	require.Len(t, def.Lanes, 1)
	require.Len(t, def.Lanes[0].Nodes, 2)
	assert.Equal(t, "Do\nWork", def.Lanes[0].Nodes[1].Label)
	assert.Equal(t, schema.NodeKindTask, def.Lanes[0].Nodes[1].Kind)
	assert.Equal(t, []schema.EdgeDefinition{{From: "start", To: "work"}}, def.Edges)
}

func TestParseDefinition_JSON(t *testing.T) {
	data := []byte(`{
		"title": "Minimal",
		"lanes": [{"name": "Only", "nodes": [
			{"id": "start", "label": "Start", "kind": "start_event"},
			{"id": "work", "label": "Work", "kind": "task"}
		]}],
		"edges": [{"from": "start", "to": "work", "label": "go"}]
	}`)
	def, err := ParseDefinition(data, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "go", def.Edges[0].Label)
}

func TestParseDefinition_UnknownFieldRejected(t *testing.T) {
	data := []byte(minimalYAML + "colour_theme: GREYWOOF\n")
	_, err := ParseDefinition(data, FormatYAML)
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
}

func TestParseDefinition_Malformed(t *testing.T) {
	_, err := ParseDefinition([]byte("title: [unclosed"), FormatYAML)
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))

	_, err = ParseDefinition([]byte("{"), FormatJSON)
	require.Error(t, err)

	_, err = ParseDefinition([]byte("{}"), Format("toml"))
	require.Error(t, err)
}

func TestLoadDefinition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0o644))

	def, err := LoadDefinition(path)
	require.NoError(t, err)
	assert.Equal(t, "Minimal", def.Title)
}

func TestLoadDefinition_MissingFile(t *testing.T) {
	_, err := LoadDefinition(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeValidation))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalDefinition_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON} {
		data, err := MarshalDefinition(sdcrs.Definition(), format)
		require.NoError(t, err, format)

		def, err := ParseDefinition(data, format)
		require.NoError(t, err, format)
		assert.Equal(t, sdcrs.Definition(), def, format)
	}

	_, err := MarshalDefinition(sdcrs.Definition(), Format("xml"))
	assert.Error(t, err)
}
