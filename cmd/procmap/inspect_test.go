package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"testing"

	"github.com/rendis/procmap/internal/query"
	"github.com/rendis/procmap/internal/sdcrs"
	"github.com/rendis/procmap/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPrintDefinition_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printDefinition(&out, sdcrs.Definition(), false))

	var got schema.ProcessDefinition
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, sdcrs.Definition(), &got)
	assert.Equal(t, byte('\n'), out.Bytes()[out.Len()-1])
}

func TestPrintDefinition_YAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printDefinition(&out, sdcrs.Definition(), true))

	var got schema.ProcessDefinition
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, sdcrs.Title, got.Title)
	assert.Len(t, got.Edges, 25)
}

func TestPrintResults(t *testing.T) {
	results, err := query.Run(context.Background(), sdcrs.Definition(), ".lanes[].name")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printResults(&out, results))
	assert.Equal(t, "\"Teacher\"\n\"System\"\n\"Verifier\"\n\"MC Officer\"\n", out.String())
}

func TestPrintResults_Object(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printResults(&out, []any{map[string]any{"lanes": 4}}))
	assert.Equal(t, "{\n  \"lanes\": 4\n}\n", out.String())
}

func TestPrintResults_Unencodable(t *testing.T) {
	err := printResults(&bytes.Buffer{}, []any{math.Inf(1)})
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeQuery))
}
