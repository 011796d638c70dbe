package diagram

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/rendis/procmap/pkg/schema"
)

// WriteFile renders model into path. Output goes to a temporary file in the
// same directory, which is closed and removed on every failure path and
// renamed over path only once rendering succeeded, so a failed run never
// leaves a partial image behind.
func WriteFile(ctx context.Context, path string, r Renderer, model *DiagramModel) (err error) {
	if path == "" {
		return schema.NewError(schema.ErrCodeRender, "output path is empty")
	}
	if model == nil {
		return schema.NewError(schema.ErrCodeRender, "diagram model is nil")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeRender, "cannot write %s", path).WithCause(err)
	}
	tmpName := tmp.Name()
	closed := false
	defer func() {
		if !closed {
			_ = tmp.Close()
		}
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := r.Render(ctx, model, w); err != nil {
		if schema.IsCode(err, schema.ErrCodeRender) {
			return err
		}
		return schema.NewErrorf(schema.ErrCodeRender, "render %s", path).WithCause(err)
	}
	if err := w.Flush(); err != nil {
		return schema.NewErrorf(schema.ErrCodeRender, "write %s", path).WithCause(err)
	}

	closed = true
	if err := tmp.Close(); err != nil {
		return schema.NewErrorf(schema.ErrCodeRender, "close %s", path).WithCause(err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return schema.NewErrorf(schema.ErrCodeRender, "chmod %s", path).WithCause(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return schema.NewErrorf(schema.ErrCodeRender, "replace %s", path).WithCause(err)
	}
	return nil
}
