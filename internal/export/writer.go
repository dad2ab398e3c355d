package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ArtifactKind string

const (
	KindSnapshot ArtifactKind = "snapshot"
	KindManifest ArtifactKind = "manifest"
	KindSitemap  ArtifactKind = "sitemap"
)

// WriteRequest describes one artifact routed through the writer.
type WriteRequest struct {
	Path    string
	Content []byte
	Kind    ArtifactKind
}

// ArtifactWriter persists export outputs.
type ArtifactWriter interface {
	WriteFile(ctx context.Context, req WriteRequest) error
}

// FileWriter writes artifacts to the local filesystem. Each file is written
// to a temporary sibling and renamed into place so readers never observe a
// partial document.
type FileWriter struct {
	Perm os.FileMode
}

func (w FileWriter) WriteFile(ctx context.Context, req WriteRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("export: write requires path")
	}
	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}

	dir := filepath.Dir(req.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: ensure dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(req.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("export: create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(req.Content)
	if writeErr == nil {
		writeErr = tmp.Sync()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Chmod(tmpPath, perm)
	}
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("export: write %s %s: %w", req.Kind, req.Path, writeErr)
	}

	if err := os.Rename(tmpPath, req.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("export: replace %s: %w", req.Path, err)
	}
	return nil
}
