package app

import (
	"context"
	"fmt"

	"github.com/nbportfolio/site/internal/apiclient"
	"github.com/nbportfolio/site/internal/cache"
	"github.com/nbportfolio/site/internal/config"
	"github.com/nbportfolio/site/internal/projects"
	"github.com/nbportfolio/site/internal/reconcile"
	"github.com/nbportfolio/site/pkg/logger"
)

// Sync modes.
const (
	ModeAuto   = "auto"
	ModeRemote = "remote"
	ModeLocal  = "local"
)

// Client is the admin side: a Reconciler over whatever backends the
// configuration makes reachable.
type Client struct {
	*reconcile.Reconciler
	API *apiclient.Client

	closers closers
}

// OpenClient resolves the backend once. In auto mode an unreachable MongoDB
// selects LocalOnly; in remote mode it is an error. The HTTP API, the
// bundled snapshot and the cache are attached in every mode.
func OpenClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	c := &Client{}
	var backend reconcile.Backend = reconcile.LocalOnly{}

	switch cfg.Sync.Mode {
	case ModeLocal:
	case ModeRemote, ModeAuto, "":
		if cfg.MongoDB.URI == "" {
			if cfg.Sync.Mode == ModeRemote {
				return nil, fmt.Errorf("remote mode needs MONGODB_URI")
			}
			break
		}
		attempts := 1
		if cfg.Sync.Mode == ModeRemote {
			attempts = mongoAttempts
		}
		ms, err := connectMongo(ctx, cfg.MongoDB, attempts)
		if err != nil {
			if cfg.Sync.Mode == ModeRemote {
				return nil, fmt.Errorf("remote backend: %w", err)
			}
			logger.Warnf("remote backend unavailable, working locally: %v", err)
			break
		}
		c.closers.add(ms.client.Disconnect)
		remote := reconcile.Remote{Content: ms.content, Projects: ms.projects}
		if s := openMinIO(ctx, cfg.Storage); s != nil {
			remote.Blobs = s
		}
		backend = remote
	default:
		return nil, fmt.Errorf("unknown sync mode %q", cfg.Sync.Mode)
	}

	opts := reconcile.Options{
		Backend:       backend,
		Snapshot:      localFiles(cfg.Local),
		EmptyProjects: reconcile.ParseEmptyPolicy(cfg.Sync.EmptyProjects),
		Gallery: projects.GalleryLimits{
			MaxFiles: cfg.Sync.GalleryMaxFiles,
			MaxBytes: int64(cfg.Sync.GalleryMaxFileMB) * 1024 * 1024,
		},
		SourceTimeout: cfg.API.Timeout,
	}
	if cfg.API.BaseURL != "" {
		c.API = apiclient.New(cfg.API.BaseURL, cfg.Admin.Password, cfg.API.Timeout)
		opts.API = c.API
	}

	if rdb := connectRedis(ctx, cfg.Redis); rdb != nil {
		c.closers.add(func(context.Context) error { return rdb.Close() })
		opts.Cache = cache.NewLocal(cache.NewRedisKV(rdb, ""))
	} else {
		opts.Cache = cache.NewLocal(cache.NewFileKV(resolve(cfg.Local.AssetsDir, cfg.Local.CacheFile)))
	}

	c.Reconciler = reconcile.New(opts)
	logger.Debugf("admin client: backend=%s api=%v", c.Mode(), c.API != nil)
	return c, nil
}

func (c *Client) Close(ctx context.Context) error { return c.closers.close(ctx) }
