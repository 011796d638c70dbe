package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	os.Exit(m.Run())
}

// execute runs the root command with an isolated home directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"PROCMAP_OUTPUT_PATH", "PROCMAP_THEME", "PROCMAP_FORMAT", "PROCMAP_LOG_LEVEL", "PROCMAP_LOG_FORMAT"} {
		t.Setenv(k, "")
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "absent.env"), "--log-level", "error"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestRoot_Themes(t *testing.T) {
	out, err := execute(t, "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "GREYWOOF")
	assert.Contains(t, out, "DEFAULT (default)")
	assert.Contains(t, out, "Formats: ascii, dot, jpg, mermaid, png, svg")
}

func TestRoot_RenderMermaid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sdcrs.mmd")

	out, err := execute(t, "render", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Diagram written to "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "flowchart LR\n"))
}

func TestRoot_InspectQuery(t *testing.T) {
	out, err := execute(t, "inspect", "--query", ".pool")
	require.NoError(t, err)
	assert.Equal(t, "\"SDCRS Process\"\n", out)
}

func TestRoot_BadLogLevelFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	rootCmd.SetOut(io.Discard)
	rootCmd.SetArgs([]string{"version", "--log-level", "loud"})
	err := rootCmd.Execute()
	assert.Error(t, err)
}
