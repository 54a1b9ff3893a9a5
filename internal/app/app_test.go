package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbportfolio/site/internal/config"
	"github.com/nbportfolio/site/internal/content"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Admin: config.AdminConfig{Password: "pw", TokenSecret: "secret", TokenTTL: time.Hour},
		Local: config.LocalConfig{
			ContentFile:  "assets/misc/content.json",
			ProjectsFile: "js/projects-data.json",
			AssetsDir:    t.TempDir(),
			CacheFile:    ".cache.json",
		},
		API:       config.APIConfig{Timeout: time.Second},
		RateLimit: config.RateLimitConfig{Enabled: true, RPS: 100, Burst: 100},
		Sync:      config.SyncConfig{Mode: ModeAuto, GalleryMaxFiles: 10, GalleryMaxFileMB: 5},
	}
}

func serve(h http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServerFallsBackToFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	cfg := testConfig(t)
	s, err := OpenServer(ctx, cfg)
	require.NoError(t, err)
	defer s.Close(ctx)
	assert.Equal(t, "files", s.Backend)
	assert.Equal(t, 1, s.Blobs.Len())

	h := NewRouter(s, prometheus.NewRegistry(), prometheus.NewRegistry())

	w := serve(h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(h, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ready map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	assert.Equal(t, "ready", ready["status"])

	w = serve(h, http.MethodPost, "/api/content", `{"homepage.hero.title":"Hi"}`, map[string]string{"X-Admin-Pass": "pw", "Content-Type": "application/json"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	raw, err := os.ReadFile(filepath.Join(cfg.Local.AssetsDir, "assets", "misc", "content.json"))
	require.NoError(t, err)
	doc, err := content.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Hi", doc.String(content.KeyHeroTitle))

	w = serve(h, http.MethodGet, "/swagger/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouterInlineUploadLandsOnDisk(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	cfg := testConfig(t)
	s, err := OpenServer(ctx, cfg)
	require.NoError(t, err)
	defer s.Close(ctx)
	h := NewRouter(s, nil, prometheus.NewRegistry())

	w := serve(h, http.MethodPost, "/api/projects", `{"title":"P","imageBase64":"cG5n","imageFilename":"c.png"}`, map[string]string{"X-Admin-Pass": "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var p map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	image, _ := p["image"].(string)
	require.True(t, strings.HasPrefix(image, UploadsURL+"/projects/images/"), image)

	onDisk := filepath.Join(cfg.Local.AssetsDir, "assets", "uploads", filepath.FromSlash(strings.TrimPrefix(image, UploadsURL+"/")))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	w = serve(h, http.MethodGet, image, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}

func TestRouterCORSAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	s, err := OpenServer(ctx, testConfig(t))
	require.NoError(t, err)
	defer s.Close(ctx)
	reg := prometheus.NewRegistry()
	h := NewRouter(s, reg, reg)

	w := serve(h, http.MethodOptions, "/api/content", "", map[string]string{
		"Origin":                         "http://localhost:5500",
		"Access-Control-Request-Method":  "POST",
		"Access-Control-Request-Headers": "content-type,x-admin-pass",
	})
	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	_ = serve(h, http.MethodPost, "/api/content", `{}`, map[string]string{"X-Admin-Pass": "pw"})
	w = serve(h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_rate_limit_allowed_total")
}

func TestOpenClientModes(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t)
	cfg.Sync.Mode = ModeLocal
	c, err := OpenClient(ctx, cfg)
	require.NoError(t, err)
	defer c.Close(ctx)
	assert.Equal(t, "local", c.Mode())
	assert.Nil(t, c.API)

	_, rep, err := c.SaveContent(ctx, content.NewEdit().SetString(content.KeyHeroTitle, "Offline"))
	require.NoError(t, err)
	assert.Equal(t, "cache", rep.Target)
	_, err = os.Stat(filepath.Join(cfg.Local.AssetsDir, ".cache.json"))
	assert.NoError(t, err)

	cfg = testConfig(t)
	c2, err := OpenClient(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "local", c2.Mode())

	cfg.Sync.Mode = ModeRemote
	_, err = OpenClient(ctx, cfg)
	assert.Error(t, err)

	cfg.Sync.Mode = "sideways"
	_, err = OpenClient(ctx, cfg)
	assert.Error(t, err)
}

func TestOpenClientUsesAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	s, err := OpenServer(ctx, testConfig(t))
	require.NoError(t, err)
	defer s.Close(ctx)
	srv := httptest.NewServer(NewRouter(s, nil, prometheus.NewRegistry()))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.API.BaseURL = srv.URL
	c, err := OpenClient(ctx, cfg)
	require.NoError(t, err)
	defer c.Close(ctx)

	_, rep, err := c.SaveContent(ctx, content.NewEdit().SetString(content.KeyAboutTitle, "Via API"))
	require.NoError(t, err)
	assert.Equal(t, "api", rep.Target)

	doc, origin := c.LoadContent(ctx)
	assert.Equal(t, "api", origin)
	assert.Equal(t, "Via API", doc.String(content.KeyAboutTitle))
}
