package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/projects"
	"github.com/nbportfolio/site/internal/repository"
)

// Namespaced keys shared with the browser admin's local storage.
const (
	KeyProjects = "nb_projects_data"
	KeyContent  = "nb_content_data"
	ImagePrefix = "img_"
)

// Local is the typed view over a KV. It also satisfies
// repository.ContentStore and repository.ProjectStore so it can act as the
// last write target.
type Local struct {
	kv  KV
	now func() time.Time
}

func NewLocal(kv KV) *Local {
	return &Local{kv: kv, now: time.Now}
}

// WithClock overrides the id clock used by local inserts.
func (l *Local) WithClock(now func() time.Time) *Local {
	l.now = now
	return l
}

func (l *Local) LoadContent(ctx context.Context) (content.Document, error) {
	v, ok, err := l.kv.Get(ctx, KeyContent)
	if err != nil {
		return nil, err
	}
	if !ok {
		return content.Document{}, nil
	}
	return content.Decode([]byte(v))
}

func (l *Local) SaveContent(ctx context.Context, doc content.Document) error {
	if doc == nil {
		doc = content.Document{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return l.kv.Set(ctx, KeyContent, string(b))
}

func (l *Local) ListProjects(ctx context.Context) ([]projects.Project, error) {
	v, ok, err := l.kv.Get(ctx, KeyProjects)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []projects.Project{}, nil
	}
	list, err := projects.DecodeList([]byte(v))
	if err != nil {
		return nil, fmt.Errorf("cached projects: %w", err)
	}
	return list, nil
}

// SaveProjects replaces the cached list; order is kept as given.
func (l *Local) SaveProjects(ctx context.Context, list []projects.Project) error {
	if list == nil {
		list = []projects.Project{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return l.kv.Set(ctx, KeyProjects, string(b))
}

// Mirror replaces p by id or appends it.
func (l *Local) Mirror(ctx context.Context, p projects.Project) error {
	list, err := l.ListProjects(ctx)
	if err != nil {
		list = []projects.Project{}
	}
	return l.SaveProjects(ctx, projects.Upsert(list, p))
}

// Forget removes id from the cached list; a missing id is not an error.
func (l *Local) Forget(ctx context.Context, id int64) error {
	list, err := l.ListProjects(ctx)
	if err != nil {
		return err
	}
	out, _ := projects.Remove(list, id)
	return l.SaveProjects(ctx, out)
}

func (l *Local) GetProject(ctx context.Context, id int64) (projects.Project, error) {
	list, err := l.ListProjects(ctx)
	if err != nil {
		return projects.Project{}, err
	}
	if p, ok := projects.Find(list, id); ok {
		return p, nil
	}
	return projects.Project{}, repository.ErrNotFound
}

// InsertProject assigns the current unix-millis timestamp as id.
func (l *Local) InsertProject(ctx context.Context, p projects.Project) (projects.Project, error) {
	list, err := l.ListProjects(ctx)
	if err != nil {
		return projects.Project{}, err
	}
	p.ID = l.now().UnixMilli()
	for {
		if _, taken := projects.Find(list, p.ID); !taken {
			break
		}
		p.ID++
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if err := l.SaveProjects(ctx, append(list, p)); err != nil {
		return projects.Project{}, err
	}
	return p, nil
}

func (l *Local) UpdateProject(ctx context.Context, p projects.Project) (projects.Project, error) {
	list, err := l.ListProjects(ctx)
	if err != nil {
		return projects.Project{}, err
	}
	if _, ok := projects.Find(list, p.ID); !ok {
		return projects.Project{}, repository.ErrNotFound
	}
	if err := l.SaveProjects(ctx, projects.Upsert(list, p)); err != nil {
		return projects.Project{}, err
	}
	return p, nil
}

func (l *Local) DeleteProject(ctx context.Context, id int64) error {
	list, err := l.ListProjects(ctx)
	if err != nil {
		return err
	}
	out, ok := projects.Remove(list, id)
	if !ok {
		return repository.ErrNotFound
	}
	return l.SaveProjects(ctx, out)
}

// PutImage stores a data-URL fallback under "img_<filename>".
func (l *Local) PutImage(ctx context.Context, filename, dataURL string) error {
	return l.kv.Set(ctx, ImagePrefix+filename, dataURL)
}

// Image returns the cached data URL for filename.
func (l *Local) Image(ctx context.Context, filename string) (string, bool, error) {
	return l.kv.Get(ctx, ImagePrefix+filename)
}
