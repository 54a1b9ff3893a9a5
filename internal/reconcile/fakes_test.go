package reconcile

import (
	"context"
	"errors"
	"sync"

	"github.com/nbportfolio/site/internal/apiclient"
	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/projects"
	"github.com/nbportfolio/site/internal/repository"
)

var errDown = errors.New("connection refused")

// downStore fails every call.
type downStore struct{}

func (downStore) LoadContent(context.Context) (content.Document, error) { return nil, errDown }
func (downStore) SaveContent(context.Context, content.Document) error      { return errDown }
func (downStore) ListProjects(context.Context) ([]projects.Project, error) { return nil, errDown }
func (downStore) GetProject(context.Context, int64) (projects.Project, error) {
	return projects.Project{}, errDown
}
func (downStore) InsertProject(context.Context, projects.Project) (projects.Project, error) {
	return projects.Project{}, errDown
}
func (downStore) UpdateProject(context.Context, projects.Project) (projects.Project, error) {
	return projects.Project{}, errDown
}
func (downStore) DeleteProject(context.Context, int64) error { return errDown }

// hangingStore blocks until the context ends.
type hangingStore struct{ downStore }

func (hangingStore) LoadContent(ctx context.Context) (content.Document, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (hangingStore) ListProjects(ctx context.Context) ([]projects.Project, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// fakeAPI is a MemoryRepo that also records inline uploads.
type fakeAPI struct {
	*repository.MemoryRepo
	mu        sync.Mutex
	covers    []apiclient.InlineFile
	gallery   []apiclient.InlineFile
	brochures map[int]apiclient.InlineFile
	err       error
}

func newFakeAPI() *fakeAPI { return &fakeAPI{MemoryRepo: repository.NewMemoryRepo()} }

func (f *fakeAPI) SaveContent(ctx context.Context, doc content.Document) error {
	if f.err != nil {
		return f.err
	}
	return f.MemoryRepo.SaveContent(ctx, doc)
}

func (f *fakeAPI) SaveProjectWithUploads(ctx context.Context, p projects.Project, cover *apiclient.InlineFile, gallery []apiclient.InlineFile) (projects.Project, error) {
	if f.err != nil {
		return projects.Project{}, f.err
	}
	f.mu.Lock()
	if cover != nil {
		f.covers = append(f.covers, *cover)
		p.Image = "/server/" + cover.Filename
	}
	for _, g := range gallery {
		f.gallery = append(f.gallery, g)
		p.Gallery = append(p.Gallery, "/server/"+g.Filename)
	}
	f.mu.Unlock()
	if p.ID != 0 {
		return f.UpdateProject(ctx, p)
	}
	return f.InsertProject(ctx, p)
}

func (f *fakeAPI) SaveContentWithBrochures(ctx context.Context, doc content.Document, files map[int]apiclient.InlineFile) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.brochures = files
	f.mu.Unlock()
	doc = doc.Clone()
	for slot, file := range files {
		doc.SetString(content.BrochureKey(slot, "pdf_path"), "/server/brochures/"+file.Filename)
	}
	return f.MemoryRepo.SaveContent(ctx, doc)
}

// staticSnapshot serves fixed data.
type staticSnapshot struct {
	doc  content.Document
	list []projects.Project
}

func (s staticSnapshot) LoadContent(context.Context) (content.Document, error) {
	return s.doc.Clone(), nil
}

func (s staticSnapshot) ListProjects(context.Context) ([]projects.Project, error) {
	return s.list, nil
}
