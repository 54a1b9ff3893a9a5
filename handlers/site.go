package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/projects"
	"github.com/nbportfolio/site/internal/repository"
	"github.com/nbportfolio/site/internal/storage"
	"github.com/nbportfolio/site/pkg/logger"
)

// maxBodyBytes bounds JSON bodies, which may carry base64 images.
const maxBodyBytes = 64 << 20

// SiteHandler serves the content and project API.
type SiteHandler struct {
	content  repository.ContentStore
	projects repository.ProjectStore
	blobs    storage.BlobStore
	now      func() time.Time
}

// NewSiteHandler wires the stores. blobs receives inline uploads and may be nil,
// in which case requests carrying files are rejected.
func NewSiteHandler(c repository.ContentStore, p repository.ProjectStore, blobs storage.BlobStore) *SiteHandler {
	return &SiteHandler{content: c, projects: p, blobs: blobs, now: time.Now}
}

// Register mounts the API. Write routes run behind guard (admin check, rate limiting).
func (h *SiteHandler) Register(r gin.IRouter, guard ...gin.HandlerFunc) {
	api := r.Group("/api")
	api.GET("/ping", h.Ping)
	api.GET("/content", h.GetContent)
	api.GET("/projects", h.ListProjects)
	api.GET("/projects/:id", h.GetProject)

	w := api.Group("", guard...)
	w.POST("/content", h.SaveContent)
	w.POST("/projects", h.SaveProject)
	w.PUT("/projects/:id", h.UpdateProject)
	w.DELETE("/projects/:id", h.DeleteProject)
}

func (h *SiteHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetContent returns the content document, {} when none is stored.
func (h *SiteHandler) GetContent(c *gin.Context) {
	doc, err := h.content.LoadContent(c.Request.Context())
	if err != nil {
		logger.Errorf("load content: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load content"})
		return
	}
	if doc == nil {
		doc = content.Document{}
	}
	c.JSON(http.StatusOK, doc)
}

// SaveContent replaces the document. brochureN_file (base64 or data URL)
// with brochureN_file_name is uploaded under brochures/ and its URL is
// written to brochureN.pdf_path; the file fields are never stored.
func (h *SiteHandler) SaveContent(c *gin.Context) {
	raw, err := readBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := content.Decode(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content document"})
		return
	}
	ctx := c.Request.Context()
	for _, slot := range []int{1, 2} {
		fileKey := fmt.Sprintf("brochure%d_file", slot)
		nameKey := fmt.Sprintf("brochure%d_file_name", slot)
		data, name := doc.String(fileKey), doc.String(nameKey)
		delete(doc, fileKey)
		delete(doc, nameKey)
		if data == "" {
			continue
		}
		if name == "" {
			name = fmt.Sprintf("brochure%d.pdf", slot)
		}
		url, err := h.uploadInline(c, storage.PrefixBrochures, name, data)
		if err != nil {
			writeUploadError(c, err)
			return
		}
		doc.SetString(content.BrochureKey(slot, "pdf_path"), url)
	}
	if err := h.content.SaveContent(ctx, doc); err != nil {
		logger.Errorf("save content: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save content"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *SiteHandler) ListProjects(c *gin.Context) {
	list, err := h.projects.ListProjects(c.Request.Context())
	if err != nil {
		logger.Errorf("list projects: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	if list == nil {
		list = []projects.Project{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *SiteHandler) GetProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.projects.GetProject(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, "get project", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// projectRequest is a project plus the inline upload fields.
type projectRequest struct {
	Project       projects.Project
	ImageBase64   string
	ImageFilename string
	Gallery       []inlineFile
}

type inlineFile struct {
	Filename string `json:"filename"`
	DataURL  string `json:"dataUrl"`
}

func decodeProjectRequest(raw []byte) (projectRequest, error) {
	var req projectRequest
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return req, errors.New("invalid project")
	}
	if v, ok := fields["imageBase64"]; ok {
		if err := json.Unmarshal(v, &req.ImageBase64); err != nil {
			return req, errors.New("imageBase64 must be a string")
		}
	}
	if v, ok := fields["imageFilename"]; ok {
		if err := json.Unmarshal(v, &req.ImageFilename); err != nil {
			return req, errors.New("imageFilename must be a string")
		}
	}
	if v, ok := fields["galleryBase64"]; ok {
		if err := json.Unmarshal(v, &req.Gallery); err != nil {
			return req, errors.New("galleryBase64 must be a list of {filename, dataUrl}")
		}
	}
	for _, k := range []string{"imageBase64", "imageFilename", "galleryBase64"} {
		delete(fields, k)
	}
	rest, err := json.Marshal(fields)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(rest, &req.Project); err != nil {
		return req, fmt.Errorf("invalid project: %w", err)
	}
	return req, nil
}

// SaveProject inserts a project, or updates it when the body carries an
// existing id.
func (h *SiteHandler) SaveProject(c *gin.Context) {
	h.saveProject(c, 0)
}

// UpdateProject forces the id from the path.
func (h *SiteHandler) UpdateProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	h.saveProject(c, id)
}

func (h *SiteHandler) saveProject(c *gin.Context, forcedID int64) {
	raw, err := readBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req, err := decodeProjectRequest(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := req.Project
	if forcedID != 0 {
		p.ID = forcedID
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	if req.ImageBase64 != "" {
		name := req.ImageFilename
		if name == "" {
			name = "image"
		}
		url, err := h.uploadInline(c, storage.PrefixProjectImages, name, req.ImageBase64)
		if err != nil {
			writeUploadError(c, err)
			return
		}
		p.Image = url
	}
	for i, g := range req.Gallery {
		if g.DataURL == "" {
			continue
		}
		name := g.Filename
		if name == "" {
			name = "gallery-" + strconv.Itoa(i+1)
		}
		url, err := h.uploadInline(c, storage.PrefixProjectGallery, name, g.DataURL)
		if err != nil {
			writeUploadError(c, err)
			return
		}
		p.Gallery = append(p.Gallery, url)
	}

	ctx := c.Request.Context()
	var saved projects.Project
	switch {
	case forcedID != 0:
		saved, err = h.projects.UpdateProject(ctx, p)
	case p.ID != 0:
		saved, err = h.projects.UpdateProject(ctx, p)
		if errors.Is(err, repository.ErrNotFound) {
			saved, err = h.projects.InsertProject(ctx, p)
		}
	default:
		saved, err = h.projects.InsertProject(ctx, p)
	}
	if err != nil {
		writeStoreError(c, "save project", err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *SiteHandler) DeleteProject(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.projects.DeleteProject(c.Request.Context(), id); err != nil {
		writeStoreError(c, "delete project", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

var errNoBlobStore = errors.New("no blob store configured")

// uploadInline decodes a base64 payload and stores it under prefix.
func (h *SiteHandler) uploadInline(c *gin.Context, prefix, filename, payload string) (string, error) {
	if h.blobs == nil {
		return "", errNoBlobStore
	}
	data, ct, err := storage.DecodeDataURL(payload)
	if err != nil {
		return "", err
	}
	if ct == "" {
		ct = storage.ContentType(filename)
	}
	key := storage.ObjectKey(prefix, filename, h.now())
	url, err := h.blobs.Upload(c.Request.Context(), key, data, ct)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if url == "" {
		url = h.blobs.PublicURL(key)
	}
	return url, nil
}

func readBody(c *gin.Context) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(raw) > maxBodyBytes {
		return nil, errors.New("request body too large")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("empty body")
	}
	return raw, nil
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func writeStoreError(c *gin.Context, op string, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	logger.Errorf("%s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": op + " failed"})
}

func writeUploadError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrBadDataURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Errorf("inline upload: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
}

// RegisterStatic serves the asset directory (disk uploads included) and
// redirects /favicon.ico to the bundled icon.
func RegisterStatic(r *gin.Engine, assetsDir string) {
	if assetsDir != "" {
		r.Static("/assets", strings.TrimRight(assetsDir, "/")+"/assets")
	}
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/assets/favicon_io/favicon.ico")
	})
}
