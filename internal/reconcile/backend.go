// Package reconcile chooses among the remote stores, the HTTP API, the
// bundled snapshot and the local cache, and runs the two-phase
// upload-then-persist write flows on top of them.
package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/nbportfolio/site/internal/apiclient"
	"github.com/nbportfolio/site/internal/cache"
	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/projects"
	"github.com/nbportfolio/site/internal/repository"
	"github.com/nbportfolio/site/internal/storage"
)

var (
	ErrAllTargetsFailed = errors.New("all write targets failed")
	ErrInvalidSlot      = errors.New("brochure slot must be 1 or 2")
)

// Backend is resolved once at startup: Remote or LocalOnly.
type Backend interface {
	backendName() string
}

// Remote groups the remote capability providers. Blobs may be nil.
type Remote struct {
	Content  repository.ContentStore
	Projects repository.ProjectStore
	Blobs    storage.BlobStore
}

func (Remote) backendName() string { return "remote" }

// LocalOnly means no remote client is configured.
type LocalOnly struct{}

func (LocalOnly) backendName() string { return "local" }

// API is the thin HTTP fallback, satisfied by *apiclient.Client.
type API interface {
	repository.ContentStore
	repository.ProjectStore
	SaveProjectWithUploads(ctx context.Context, p projects.Project, cover *apiclient.InlineFile, gallery []apiclient.InlineFile) (projects.Project, error)
	SaveContentWithBrochures(ctx context.Context, doc content.Document, files map[int]apiclient.InlineFile) error
}

// Snapshot is the read-only bundled JSON.
type Snapshot interface {
	LoadContent(ctx context.Context) (content.Document, error)
	ListProjects(ctx context.Context) ([]projects.Project, error)
}

// EmptyPolicy decides what an empty successful remote project list means.
type EmptyPolicy string

const (
	// EmptyAuthoritative accepts an empty remote list as the real state.
	EmptyAuthoritative EmptyPolicy = "authoritative"
	// EmptyFallthrough treats it as a miss and keeps looking at local sources.
	EmptyFallthrough EmptyPolicy = "fallthrough"
)

// ParseEmptyPolicy maps a config value; unknown values are authoritative.
func ParseEmptyPolicy(s string) EmptyPolicy {
	if EmptyPolicy(s) == EmptyFallthrough {
		return EmptyFallthrough
	}
	return EmptyAuthoritative
}

type Options struct {
	Backend  Backend
	API      API
	Snapshot Snapshot
	Cache    *cache.Local
	State    *State

	EmptyProjects EmptyPolicy
	Gallery       projects.GalleryLimits
	// SourceTimeout bounds each read attempt; zero means no bound.
	SourceTimeout time.Duration
	Now           func() time.Time
}

// Reconciler runs the read waterfalls and write sagas.
type Reconciler struct {
	remote   *Remote
	api      API
	snapshot Snapshot
	cache    *cache.Local
	state    *State

	emptyPolicy   EmptyPolicy
	gallery       projects.GalleryLimits
	sourceTimeout time.Duration
	now           func() time.Time
}

func New(opts Options) *Reconciler {
	r := &Reconciler{
		api:           opts.API,
		snapshot:      opts.Snapshot,
		cache:         opts.Cache,
		state:         opts.State,
		emptyPolicy:   opts.EmptyProjects,
		gallery:       opts.Gallery,
		sourceTimeout: opts.SourceTimeout,
		now:           opts.Now,
	}
	if rb, ok := opts.Backend.(Remote); ok {
		r.remote = &rb
	}
	if rb, ok := opts.Backend.(*Remote); ok && rb != nil {
		r.remote = rb
	}
	if r.cache == nil {
		r.cache = cache.NewLocal(cache.NewMemoryKV())
	}
	if r.state == nil {
		r.state = NewState()
	}
	if r.emptyPolicy == "" {
		r.emptyPolicy = EmptyAuthoritative
	}
	if r.gallery.MaxFiles <= 0 || r.gallery.MaxBytes <= 0 {
		r.gallery = projects.DefaultGalleryLimits()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// State returns the working state shared with views.
func (r *Reconciler) State() *State { return r.state }

// Mode reports "remote" or "local".
func (r *Reconciler) Mode() string {
	if r.remote != nil {
		return Remote{}.backendName()
	}
	return LocalOnly{}.backendName()
}

func (r *Reconciler) blobs() storage.BlobStore {
	if r.remote == nil {
		return nil
	}
	return r.remote.Blobs
}
