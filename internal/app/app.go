// Package app assembles the stores, blob backends and services from
// configuration for the API server and the admin CLI.
package app

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nbportfolio/site/internal/config"
	"github.com/nbportfolio/site/internal/database"
	"github.com/nbportfolio/site/internal/repository"
	"github.com/nbportfolio/site/internal/storage"
	"github.com/nbportfolio/site/pkg/logger"
)

const (
	collectionContent  = "site_content"
	collectionProjects = "projects"
	collectionCounters = "counters"

	mongoAttempts = 5
)

// UploadsURL is where disk-stored uploads are served from.
const UploadsURL = "/assets/uploads"

// closers releases connections in reverse order of opening.
type closers []func(context.Context) error

func (c *closers) add(fn func(context.Context) error) { *c = append(*c, fn) }

func (c closers) close(ctx context.Context) error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// connectRedis returns nil when Redis is not configured or does not answer.
func connectRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	addr := cfg.Addr()
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warnf("redis ping failed (%s): %v", addr, err)
		_ = client.Close()
		return nil
	}
	logger.Infof("connected to Redis at %s", addr)
	return client
}

// mongoStores are the Mongo-backed stores plus their client.
type mongoStores struct {
	client   *mongo.Client
	content  *repository.MongoContentRepo
	projects *repository.MongoProjectRepo
}

func connectMongo(ctx context.Context, cfg config.MongoDBConfig, attempts int) (*mongoStores, error) {
	if cfg.URI == "" {
		return nil, errors.New("MONGODB_URI not set")
	}
	client, err := database.ConnectMongoWithRetry(ctx, cfg.URI, cfg.Timeout, attempts)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Database)
	logger.Infof("connected to MongoDB database %s", cfg.Database)
	return &mongoStores{
		client:   client,
		content:  repository.NewMongoContentRepo(ctx, db.Collection(collectionContent)),
		projects: repository.NewMongoProjectRepo(ctx, db.Collection(collectionProjects), db.Collection(collectionCounters)),
	}, nil
}

// openMinIO returns nil when object storage is not configured or unreachable.
func openMinIO(ctx context.Context, cfg config.StorageConfig) *storage.MinIOStorage {
	if cfg.Endpoint == "" {
		return nil
	}
	s, err := storage.NewMinIOStorage(ctx, &storage.MinIOConfig{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		PublicURL: cfg.PublicURL,
	})
	if err != nil {
		logger.Warnf("object storage unavailable (%s): %v", cfg.Endpoint, err)
		return nil
	}
	logger.Infof("using object storage bucket %s at %s", cfg.Bucket, cfg.Endpoint)
	return s
}

// localFiles returns the JSON file store rooted at the assets directory.
func localFiles(cfg config.LocalConfig) *repository.FileRepo {
	return repository.NewFileRepo(resolve(cfg.AssetsDir, cfg.ContentFile), resolve(cfg.AssetsDir, cfg.ProjectsFile))
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
