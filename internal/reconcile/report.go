package reconcile

import (
	"context"
	"fmt"

	"github.com/nbportfolio/site/internal/storage"
	"github.com/nbportfolio/site/pkg/logger"
	"github.com/nbportfolio/site/pkg/metrics"
)

// Report describes a write: where it landed and what went partly wrong.
type Report struct {
	Target   string
	Warnings []string
	// Uploaded lists blob URLs written during the operation.
	Uploaded []string
	// Orphans lists uploaded URLs no stored record references because the
	// metadata write failed. They are not cleaned up.
	Orphans []string
}

func (rep *Report) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warnf("%s", msg)
	rep.Warnings = append(rep.Warnings, msg)
}

// orphan records every uploaded blob as unreferenced.
func (rep *Report) orphan() {
	if len(rep.Uploaded) == 0 {
		return
	}
	rep.Orphans = append(rep.Orphans, rep.Uploaded...)
	metrics.OrphanedBlobs.Add(float64(len(rep.Uploaded)))
	for _, u := range rep.Uploaded {
		logger.Errorf("orphaned blob after failed metadata write: %s", u)
	}
}

// upload stores one file in the blob store. ok is false when there is no
// blob store or the upload failed; failures are added as warnings.
func (r *Reconciler) upload(ctx context.Context, rep *Report, prefix, filename, contentType string, data []byte) (string, bool) {
	blobs := r.blobs()
	if blobs == nil {
		return "", false
	}
	if contentType == "" {
		contentType = storage.ContentType(filename)
	}
	key := storage.ObjectKey(prefix, filename, r.now())
	url, err := blobs.Upload(ctx, key, data, contentType)
	if err != nil {
		rep.warnf("upload of %s failed: %v", filename, err)
		return "", false
	}
	if url == "" {
		url = blobs.PublicURL(key)
	}
	rep.Uploaded = append(rep.Uploaded, url)
	return url, true
}
