package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rendis/procmap/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sha256String(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

func TestParseChecksums(t *testing.T) {
	const sumA = "abc123def456abc123def456abc123def456abc123def456abc123def456abcd"
	const sumB = "fedcba98fedcba98fedcba98fedcba98fedcba98fedcba98fedcba98fedcba98"

	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name: "standard two-space format",
			input: sumA + "  mermaid-ascii_Darwin_arm64.tar.gz\n" +
				sumB + "  mermaid-ascii_Linux_x86_64.tar.gz\n",
			want: map[string]string{
				"mermaid-ascii_Darwin_arm64.tar.gz": sumA,
				"mermaid-ascii_Linux_x86_64.tar.gz": sumB,
			},
		},
		{name: "empty input", input: "", want: map[string]string{}},
		{name: "blank lines and whitespace", input: "\n  \n\n", want: map[string]string{}},
		{name: "malformed line (no filename)", input: "abc123\n", want: map[string]string{}},
		{name: "short hash skipped", input: "abc123  file.tar.gz\n", want: map[string]string{}},
		{
			name:  "binary-mode marker and upper case",
			input: strings.ToUpper(sumA) + " *file.tar.gz\n",
			want:  map[string]string{"file.tar.gz": sumA},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChecksums(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToolInstaller_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/asset" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()
	ti := testInstaller(srv, nil)

	dir := t.TempDir()
	path, err := ti.download(context.Background(), "asset", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = ti.download(context.Background(), "missing", dir)
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeConfig))
	assert.Contains(t, err.Error(), "returned 404")
}

func TestToolInstaller_DownloadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testInstaller(srv, nil).download(ctx, "asset", t.TempDir())
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeConfig))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToolInstaller_Verify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	data := []byte("procmap test data")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	ti := &toolInstaller{}

	require.NoError(t, ti.verify(path, "archive.tar.gz", sha256String(data)))

	err := ti.verify(path, "archive.tar.gz", strings.Repeat("0", 64))
	require.Error(t, err)
	assert.True(t, schema.IsCode(err, schema.ErrCodeConfig))
	assert.Contains(t, err.Error(), "checksum mismatch for archive.tar.gz")

	err = ti.verify(filepath.Join(t.TempDir(), "absent"), "absent", "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
