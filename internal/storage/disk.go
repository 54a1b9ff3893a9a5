package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes blobs under a root directory and serves them as
// site-relative URLs ("/<key>"), which the static file server exposes.
type DiskStore struct {
	root    string
	urlBase string
}

func NewDiskStore(root, urlBase string) *DiskStore {
	return &DiskStore{root: root, urlBase: strings.TrimRight(urlBase, "/")}
}

func (d *DiskStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(d.root, clean), nil
}

func (d *DiskStore) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	p, err := d.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return d.PublicURL(key), nil
}

func (d *DiskStore) PublicURL(key string) string {
	return d.urlBase + "/" + strings.TrimLeft(key, "/")
}
