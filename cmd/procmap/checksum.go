package main

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rendis/procmap/pkg/schema"
)

// httpDoer is satisfied by *http.Client.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// download fetches name from the release into a temp file in dir and returns
// its path. The caller removes the file.
func (ti *toolInstaller) download(ctx context.Context, name, dir string) (string, error) {
	url := ti.baseURL + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", schema.NewErrorf(schema.ErrCodeConfig, "download %s", name).WithCause(err)
	}
	resp, err := ti.client.Do(req)
	if err != nil {
		return "", schema.NewErrorf(schema.ErrCodeConfig, "download %s", name).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", schema.NewErrorf(schema.ErrCodeConfig, "download %s returned %d", name, resp.StatusCode).
			WithDetails(map[string]any{"url": url})
	}

	f, err := os.CreateTemp(dir, "download-*")
	if err != nil {
		return "", schema.NewErrorf(schema.ErrCodeConfig, "download %s", name).WithCause(err)
	}
	path := f.Name()
	_, err = io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", schema.NewErrorf(schema.ErrCodeConfig, "download %s", name).WithCause(err)
	}
	return path, nil
}

// expectedChecksum returns the pinned SHA-256 of asset, or the one listed in
// the release's checksums.txt when the asset is not pinned.
func (ti *toolInstaller) expectedChecksum(ctx context.Context, dir, asset string) (string, error) {
	if sum, ok := ti.checksums[asset]; ok {
		return sum, nil
	}

	path, err := ti.download(ctx, "checksums.txt", dir)
	if err != nil {
		return "", schema.NewErrorf(schema.ErrCodeConfig, "no pinned checksum for %s and checksums.txt unavailable", asset).
			WithCause(err)
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return "", schema.NewError(schema.ErrCodeConfig, "open checksums.txt").WithCause(err)
	}
	defer f.Close()

	sums, err := parseChecksums(f)
	if err != nil {
		return "", err
	}
	sum, ok := sums[asset]
	if !ok {
		return "", schema.NewErrorf(schema.ErrCodeConfig, "no known checksum for %s", asset)
	}
	return sum, nil
}

// verify compares the SHA-256 of the downloaded archive at path with want.
func (ti *toolInstaller) verify(path, asset, want string) error {
	f, err := os.Open(path)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeConfig, "verify %s", asset).WithCause(err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return schema.NewErrorf(schema.ErrCodeConfig, "verify %s", asset).WithCause(err)
	}
	if got := hex.EncodeToString(h.Sum(nil)); got != want {
		return schema.NewErrorf(schema.ErrCodeConfig, "checksum mismatch for %s", asset).
			WithDetails(map[string]any{"expected": want, "actual": got})
	}
	return nil
}

// parseChecksums reads "<sha256>  <file>" lines as written by shasum and
// goreleaser. Lines without a 64-character digest are skipped.
func parseChecksums(r io.Reader) (map[string]string, error) {
	sums := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || len(fields[0]) != sha256.Size*2 {
			continue
		}
		sums[strings.TrimPrefix(fields[len(fields)-1], "*")] = strings.ToLower(fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, schema.NewError(schema.ErrCodeConfig, "read checksums.txt").WithCause(err)
	}
	return sums, nil
}
