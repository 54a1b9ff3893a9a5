package repository

import (
	"context"
	"sync"

	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/projects"
)

// MemoryRepo is an in-memory ContentStore and ProjectStore. Projects keep
// insertion order and get sequential ids.
type MemoryRepo struct {
	mu       sync.RWMutex
	doc      content.Document
	projects []projects.Project
	nextID   int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{doc: content.Document{}, nextID: 1}
}

func (m *MemoryRepo) LoadContent(_ context.Context) (content.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Clone(), nil
}

func (m *MemoryRepo) SaveContent(_ context.Context, doc content.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc.Clone()
	return nil
}

func (m *MemoryRepo) ListProjects(_ context.Context) ([]projects.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]projects.Project, 0, len(m.projects))
	for _, p := range m.projects {
		out = append(out, p.Clone())
	}
	return out, nil
}

func (m *MemoryRepo) GetProject(_ context.Context, id int64) (projects.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := projects.Find(m.projects, id); ok {
		return p.Clone(), nil
	}
	return projects.Project{}, ErrNotFound
}

func (m *MemoryRepo) InsertProject(_ context.Context, p projects.Project) (projects.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p = p.Clone()
	p.ID = m.nextID
	m.nextID++
	m.projects = append(m.projects, p)
	return p.Clone(), nil
}

func (m *MemoryRepo) UpdateProject(_ context.Context, p projects.Project) (projects.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := projects.Find(m.projects, p.ID); !ok {
		return projects.Project{}, ErrNotFound
	}
	p = p.Clone()
	m.projects = projects.Upsert(m.projects, p)
	return p.Clone(), nil
}

func (m *MemoryRepo) DeleteProject(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := projects.Remove(m.projects, id)
	if !ok {
		return ErrNotFound
	}
	m.projects = list
	return nil
}
