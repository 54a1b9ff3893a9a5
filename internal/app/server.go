package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nbportfolio/site/internal/config"
	"github.com/nbportfolio/site/internal/repository"
	"github.com/nbportfolio/site/internal/sessions"
	"github.com/nbportfolio/site/internal/storage"
	"github.com/nbportfolio/site/pkg/logger"
)

// Server is everything the HTTP API needs. Remote stores are used when
// MongoDB answers, otherwise the local JSON files.
type Server struct {
	Config   *config.Config
	Content  repository.ContentStore
	Projects repository.ProjectStore
	Blobs    *storage.Chain
	Sessions *sessions.Service

	Redis   *redis.Client
	MinIO   *storage.MinIOStorage
	Backend string

	started time.Time
	closers closers
}

// OpenServer never fails on an unreachable dependency: it logs and falls
// back to the local stores.
func OpenServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{Config: cfg, started: time.Now()}

	s.Redis = connectRedis(ctx, cfg.Redis)
	if s.Redis != nil {
		rdb := s.Redis
		s.closers.add(func(context.Context) error { return rdb.Close() })
	}

	if cfg.MongoDB.URI != "" {
		ms, err := connectMongo(ctx, cfg.MongoDB, mongoAttempts)
		if err != nil {
			logger.Warnf("falling back to local JSON stores: %v", err)
		} else {
			s.Content, s.Projects, s.Backend = ms.content, ms.projects, "mongo"
			s.closers.add(ms.client.Disconnect)
		}
	}
	if s.Content == nil {
		files := localFiles(cfg.Local)
		s.Content, s.Projects, s.Backend = files, files, "files"
		logger.Infof("using local JSON stores: %s, %s", resolve(cfg.Local.AssetsDir, cfg.Local.ContentFile), resolve(cfg.Local.AssetsDir, cfg.Local.ProjectsFile))
	}

	s.Blobs = storage.NewChain()
	if s.MinIO = openMinIO(ctx, cfg.Storage); s.MinIO != nil {
		s.Blobs.With("minio", s.MinIO)
	}
	s.Blobs.With("disk", storage.NewDiskStore(filepath.Join(cfg.Local.AssetsDir, "assets", "uploads"), UploadsURL))

	var bl sessions.Blacklist
	if s.Redis != nil {
		bl = sessions.NewRedisBlacklist(s.Redis, "")
	}
	s.Sessions = sessions.NewService(cfg.Admin.Password, cfg.Admin.TokenSecret, cfg.Admin.TokenTTL, bl)
	return s, nil
}

// Ready reports dependency health. Configured dependencies must answer.
func (s *Server) Ready(ctx context.Context) (bool, map[string]bool) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	deps := map[string]bool{}
	ready := true

	_, err := s.Content.LoadContent(ctx)
	deps["store"] = err == nil
	ready = ready && deps["store"]

	if s.Config.Redis.Addr() != "" {
		deps["redis"] = s.Redis != nil && s.Redis.Ping(ctx).Err() == nil
		ready = ready && deps["redis"]
	}
	if s.Config.Storage.Endpoint != "" {
		deps["minio"] = s.MinIO != nil && s.MinIO.Ping(ctx) == nil
	}
	if s.Config.MongoDB.URI != "" {
		deps["mongo"] = s.Backend == "mongo"
	}
	return ready, deps
}

// Uptime since OpenServer.
func (s *Server) Uptime() time.Duration { return time.Since(s.started) }

func (s *Server) Close(ctx context.Context) error { return s.closers.close(ctx) }
