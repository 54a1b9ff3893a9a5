package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/projects"
)

// FileRepo keeps content and projects in two JSON files, the layout the
// static site bundles. A missing file reads as empty. Inserted projects get
// a unix-millis id.
type FileRepo struct {
	mu           sync.Mutex
	contentPath  string
	projectsPath string
	now          func() time.Time
}

func NewFileRepo(contentPath, projectsPath string) *FileRepo {
	return &FileRepo{contentPath: contentPath, projectsPath: projectsPath, now: time.Now}
}

func readFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return b, err
}

// writeFile replaces path atomically through a temp file in the same directory.
func writeFile(path string, v any) error {
	if path == "" {
		return errors.New("no file path configured")
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *FileRepo) LoadContent(_ context.Context) (content.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := readFile(f.contentPath)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return content.Decode(b)
}

func (f *FileRepo) SaveContent(_ context.Context, doc content.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doc == nil {
		doc = content.Document{}
	}
	if err := writeFile(f.contentPath, doc); err != nil {
		return fmt.Errorf("write content: %w", err)
	}
	return nil
}

func (f *FileRepo) readProjects() ([]projects.Project, error) {
	b, err := readFile(f.projectsPath)
	if err != nil {
		return nil, fmt.Errorf("read projects: %w", err)
	}
	return projects.DecodeList(b)
}

func (f *FileRepo) writeProjects(list []projects.Project) error {
	if err := writeFile(f.projectsPath, list); err != nil {
		return fmt.Errorf("write projects: %w", err)
	}
	return nil
}

func (f *FileRepo) ListProjects(_ context.Context) ([]projects.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readProjects()
}

func (f *FileRepo) GetProject(_ context.Context, id int64) (projects.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, err := f.readProjects()
	if err != nil {
		return projects.Project{}, err
	}
	if p, ok := projects.Find(list, id); ok {
		return p, nil
	}
	return projects.Project{}, ErrNotFound
}

func (f *FileRepo) InsertProject(_ context.Context, p projects.Project) (projects.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, err := f.readProjects()
	if err != nil {
		return projects.Project{}, err
	}
	p.ID = f.now().UnixMilli()
	for {
		if _, taken := projects.Find(list, p.ID); !taken {
			break
		}
		p.ID++
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if err := f.writeProjects(append(list, p)); err != nil {
		return projects.Project{}, err
	}
	return p, nil
}

func (f *FileRepo) UpdateProject(_ context.Context, p projects.Project) (projects.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, err := f.readProjects()
	if err != nil {
		return projects.Project{}, err
	}
	if _, ok := projects.Find(list, p.ID); !ok {
		return projects.Project{}, ErrNotFound
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if err := f.writeProjects(projects.Upsert(list, p)); err != nil {
		return projects.Project{}, err
	}
	return p, nil
}

func (f *FileRepo) DeleteProject(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, err := f.readProjects()
	if err != nil {
		return err
	}
	out, ok := projects.Remove(list, id)
	if !ok {
		return ErrNotFound
	}
	return f.writeProjects(out)
}
