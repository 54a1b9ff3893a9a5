// Package repository holds the content and project stores: MongoDB for the
// remote backend, JSON files for the local fallback and an in-memory store.
package repository

import (
	"context"
	"errors"

	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/projects"
)

var (
	ErrNotFound = errors.New("not found")
)

// ContentStore persists the single content document. SaveContent is a total replacement.
type ContentStore interface {
	LoadContent(ctx context.Context) (content.Document, error)
	SaveContent(ctx context.Context, doc content.Document) error
}

// ProjectStore is row-per-project CRUD. InsertProject assigns the id.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]projects.Project, error)
	GetProject(ctx context.Context, id int64) (projects.Project, error)
	InsertProject(ctx context.Context, p projects.Project) (projects.Project, error)
	UpdateProject(ctx context.Context, p projects.Project) (projects.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}
