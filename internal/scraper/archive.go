package scraper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileArchive saves the raw body of each fetched page under a local
// directory, one file per page.
type FileArchive struct {
	dir string
}

// NewFileArchive creates the archive directory if needed and verifies
// it is writable.
func NewFileArchive(dir string) (*FileArchive, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", dir, err)
	}
	probe := filepath.Join(dir, ".writable_probe")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return nil, fmt.Errorf("archive dir %s is not writable: %w", dir, err)
	}
	if err := os.Remove(probe); err != nil {
		return nil, fmt.Errorf("clean up archive probe: %w", err)
	}
	return &FileArchive{dir: dir}, nil
}

// Save implements Archiver. The filename derives from the page URL so
// repeated runs overwrite rather than accumulate.
func (a *FileArchive) Save(ctx context.Context, page Page) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context canceled: %w", err)
	}
	if len(page.Body) == 0 {
		return "", fmt.Errorf("empty page body")
	}
	name := page.FinalURL
	if name == "" {
		name = page.URL
	}
	target := filepath.Join(a.dir, safeBasename(name)+".html")
	if err := os.WriteFile(target, page.Body, 0o600); err != nil {
		return "", fmt.Errorf("write archive %s: %w", target, err)
	}
	return target, nil
}
