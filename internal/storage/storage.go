package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nbportfolio/site/pkg/logger"
	"github.com/nbportfolio/site/pkg/metrics"
)

// Object key prefixes used by the site.
const (
	PrefixProjectImages   = "projects/images"
	PrefixProjectGallery  = "projects/gallery"
	PrefixContentServices = "content/services"
	PrefixServiceIcons    = "services/icons"
	PrefixBrochures       = "brochures"
	PrefixContentBrochure = "content/brochures"
)

// BlobStore persists uploaded files and resolves their public URL.
// Upload has upsert semantics: an existing key is overwritten.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	PublicURL(key string) string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename replaces every character outside [A-Za-z0-9._-] with "_".
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return unsafeChars.ReplaceAllString(name, "_")
}

// ObjectKey builds "<prefix>/<unix-millis>_<sanitized filename>".
func ObjectKey(prefix, filename string, now time.Time) string {
	return strings.TrimRight(prefix, "/") + "/" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + SanitizeFilename(filename)
}

// ContentType guesses a MIME type from the file extension.
func ContentType(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Chain tries each store in order and returns the first successful URL.
type Chain struct {
	stores []namedStore
}

type namedStore struct {
	name  string
	store BlobStore
}

func NewChain() *Chain { return &Chain{} }

// With appends a store; nil stores are skipped.
func (c *Chain) With(name string, s BlobStore) *Chain {
	if s != nil {
		c.stores = append(c.stores, namedStore{name: name, store: s})
	}
	return c
}

func (c *Chain) Len() int { return len(c.stores) }

func (c *Chain) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if len(c.stores) == 0 {
		return "", errors.New("no blob store configured")
	}
	var errs []error
	for _, s := range c.stores {
		u, err := s.store.Upload(ctx, key, data, contentType)
		if err == nil {
			metrics.BlobUploads.WithLabelValues(s.name, "ok").Inc()
			return u, nil
		}
		metrics.BlobUploads.WithLabelValues(s.name, "error").Inc()
		logger.Warnf("blob upload to %s failed for %s: %v", s.name, key, err)
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	return "", errors.Join(errs...)
}

// PublicURL resolves against the first store.
func (c *Chain) PublicURL(key string) string {
	if len(c.stores) == 0 {
		return ""
	}
	return c.stores[0].store.PublicURL(key)
}
