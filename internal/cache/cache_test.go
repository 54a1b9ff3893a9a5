package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/projects"
	"github.com/nbportfolio/site/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func kvs(t *testing.T) map[string]KV {
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return map[string]KV{
		"redis":  NewRedisKV(client, "test:"),
		"file":   NewFileKV(filepath.Join(t.TempDir(), "cache.json")),
		"memory": NewMemoryKV(),
	}
}

func TestKVGetSetDelete(t *testing.T) {
	for name, kv := range kvs(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, ok, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, kv.Set(ctx, "k", "v1"))
			require.NoError(t, kv.Set(ctx, "k", "v2"))
			v, ok, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, "v2", v)

			require.NoError(t, kv.Delete(ctx, "k"))
			_, ok, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestRedisKVUsesPrefix(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	kv := NewRedisKV(redis.NewClient(&redis.Options{Addr: m.Addr()}), "")
	require.NoError(t, NewLocal(kv).SaveContent(context.Background(), content.Document{"a": "b"}))
	require.True(t, m.Exists("portfolio:"+KeyContent))
}

func TestLocalContent(t *testing.T) {
	l := NewLocal(NewMemoryKV())
	ctx := context.Background()
	doc, err := l.LoadContent(ctx)
	require.NoError(t, err)
	require.True(t, doc.IsEmpty())

	want := content.Document{content.KeyHeroTitle: "Hi", content.KeyContactFeatures: []string{"a"}}
	require.NoError(t, l.SaveContent(ctx, want))
	got, err := l.LoadContent(ctx)
	require.NoError(t, err)
	require.True(t, content.Equal(want, got))
}

func TestLocalProjectsTimestampInsert(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	l := NewLocal(NewMemoryKV()).WithClock(func() time.Time { return now })
	ctx := context.Background()

	p, err := l.InsertProject(ctx, projects.Project{Title: "a"})
	require.NoError(t, err)
	require.Equal(t, int64(1700000000000), p.ID)
	q, err := l.InsertProject(ctx, projects.Project{Title: "b"})
	require.NoError(t, err)
	require.Equal(t, int64(1700000000001), q.ID)

	p.Title = "a2"
	_, err = l.UpdateProject(ctx, p)
	require.NoError(t, err)
	list, err := l.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a2", list[0].Title)

	require.NoError(t, l.DeleteProject(ctx, p.ID))
	_, err = l.GetProject(ctx, p.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, l.DeleteProject(ctx, p.ID), repository.ErrNotFound)
	_, err = l.UpdateProject(ctx, p)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLocalMirrorAndForget(t *testing.T) {
	l := NewLocal(NewMemoryKV())
	ctx := context.Background()
	require.NoError(t, l.Mirror(ctx, projects.Project{ID: 1, Title: "a"}))
	require.NoError(t, l.Mirror(ctx, projects.Project{ID: 2, Title: "b"}))
	require.NoError(t, l.Mirror(ctx, projects.Project{ID: 1, Title: "a2"}))
	list, err := l.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "a2", list[0].Title)

	require.NoError(t, l.Forget(ctx, 1))
	require.NoError(t, l.Forget(ctx, 99))
	list, _ = l.ListProjects(ctx)
	require.Len(t, list, 1)
}

func TestLocalImages(t *testing.T) {
	kv := NewMemoryKV()
	l := NewLocal(kv)
	ctx := context.Background()
	require.NoError(t, l.PutImage(ctx, "a.png", "data:image/png;base64,AA=="))
	v, ok, err := l.Image(ctx, "a.png")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "data:image/png;base64,AA==", v)

	raw, ok, _ := kv.Get(ctx, "img_a.png")
	require.True(t, ok)
	require.Equal(t, v, raw)
}

func TestLocalCorruptProjects(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), KeyProjects, "{oops"))
	_, err := NewLocal(kv).ListProjects(context.Background())
	require.Error(t, err)
}
