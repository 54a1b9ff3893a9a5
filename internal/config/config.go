package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Admin     AdminConfig
	Local     LocalConfig
	API       APIConfig
	RateLimit RateLimitConfig
	Sync      SyncConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AllowedOrigins feeds CORS; "*" allows any origin.
	AllowedOrigins []string
}

// MongoDBConfig is optional: an empty URI selects the local JSON stores.
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicURL overrides the base used to build object URLs.
	PublicURL string
}

type AdminConfig struct {
	Password    string
	TokenSecret string
	TokenTTL    time.Duration
}

type LocalConfig struct {
	ContentFile  string
	ProjectsFile string
	AssetsDir    string
	CacheFile    string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

// SyncConfig drives the admin client's reconciliation behaviour.
type SyncConfig struct {
	Mode             string // auto | remote | local
	EmptyProjects    string // authoritative | fallthrough
	GalleryMaxFiles  int
	GalleryMaxFileMB int
}

type LogConfig struct {
	Level string
	File  string
}

const DefaultAdminPassword = "admin"

// LoadConfig loads configuration from environment variables and .env files.
// Files are read in order; values already in the environment win.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("MONGODB_DATABASE", "portfolio")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("MINIO_BUCKET", "site-assets")
	viper.SetDefault("ADMIN_TOKEN_TTL", 720)
	viper.SetDefault("LOCAL_CONTENT_FILE", "assets/misc/content.json")
	viper.SetDefault("LOCAL_PROJECTS_FILE", "js/projects-data.json")
	viper.SetDefault("LOCAL_ASSETS_DIR", ".")
	viper.SetDefault("LOCAL_CACHE_FILE", ".siteadmin-cache.json")
	viper.SetDefault("API_TIMEOUT", 15)
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_RPS", 5.0)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_USE_REDIS", false)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	viper.SetDefault("SYNC_MODE", "auto")
	viper.SetDefault("SYNC_EMPTY_PROJECTS", "authoritative")
	viper.SetDefault("GALLERY_MAX_FILES", 10)
	viper.SetDefault("GALLERY_MAX_FILE_MB", 5)
	viper.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,

			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		MongoDB: MongoDBConfig{
			URI:      os.Getenv("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Storage: StorageConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
			PublicURL: strings.TrimRight(viper.GetString("MINIO_PUBLIC_URL"), "/"),
		},
		Admin: AdminConfig{
			Password:    os.Getenv("ADMIN_PASSWORD"),
			TokenSecret: os.Getenv("ADMIN_TOKEN_SECRET"),
			TokenTTL:    time.Duration(viper.GetInt("ADMIN_TOKEN_TTL")) * time.Minute,
		},
		Local: LocalConfig{
			ContentFile:  viper.GetString("LOCAL_CONTENT_FILE"),
			ProjectsFile: viper.GetString("LOCAL_PROJECTS_FILE"),
			AssetsDir:    viper.GetString("LOCAL_ASSETS_DIR"),
			CacheFile:    viper.GetString("LOCAL_CACHE_FILE"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(viper.GetString("API_BASE_URL"), "/"),
			Timeout: time.Duration(viper.GetInt("API_TIMEOUT")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Sync: SyncConfig{
			Mode:             strings.ToLower(viper.GetString("SYNC_MODE")),
			EmptyProjects:    strings.ToLower(viper.GetString("SYNC_EMPTY_PROJECTS")),
			GalleryMaxFiles:  viper.GetInt("GALLERY_MAX_FILES"),
			GalleryMaxFileMB: viper.GetInt("GALLERY_MAX_FILE_MB"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
			File:  viper.GetString("LOG_FILE"),
		},
	}

	if cfg.Admin.Password == "" {
		cfg.Admin.Password = DefaultAdminPassword
		log.Println("WARNING: ADMIN_PASSWORD is not set; using the default, set a secure value in production")
	}
	if cfg.Admin.TokenSecret == "" {
		cfg.Admin.TokenSecret = cfg.Admin.Password
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
