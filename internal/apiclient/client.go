// Package apiclient talks to the thin HTTP API exposed by the site server.
// It implements repository.ContentStore and repository.ProjectStore.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/projects"
	"github.com/nbportfolio/site/internal/repository"
)

var ErrUnauthorized = errors.New("api: unauthorized")

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// InlineFile carries a file as a data URL for the server-side upload path.
type InlineFile struct {
	Filename string `json:"filename"`
	DataURL  string `json:"dataUrl"`
}

type Client struct {
	baseURL  string
	password string
	http     *http.Client
}

func New(baseURL, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		password: password,
		http:     &http.Client{Timeout: timeout},
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body any, admin bool, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("X-Admin-Pass", c.password)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		if e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrUnauthorized, e.Error)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, e.Error)
		}
		return &Error{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api %s %s: decode: %w", method, path, err)
	}
	return nil
}

// Ping checks that the API answers.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/ping", nil, false, &out); err != nil {
		return err
	}
	if !out.OK {
		return errors.New("api: ping not ok")
	}
	return nil
}

func (c *Client) LoadContent(ctx context.Context) (content.Document, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/content", nil, false, &raw); err != nil {
		return nil, err
	}
	return content.Decode(raw)
}

func (c *Client) SaveContent(ctx context.Context, doc content.Document) error {
	if doc == nil {
		doc = content.Document{}
	}
	return c.do(ctx, http.MethodPost, "/api/content", doc, true, nil)
}

// SaveContentWithBrochures embeds brochure PDFs as brochureN_file and
// brochureN_file_name; the server uploads them and fills brochureN.pdf_path.
func (c *Client) SaveContentWithBrochures(ctx context.Context, doc content.Document, files map[int]InlineFile) error {
	body := map[string]any{}
	for k, v := range doc {
		body[k] = v
	}
	for slot, f := range files {
		if !content.ValidSlot(slot) {
			continue
		}
		body[fmt.Sprintf("brochure%d_file", slot)] = f.DataURL
		body[fmt.Sprintf("brochure%d_file_name", slot)] = f.Filename
	}
	return c.do(ctx, http.MethodPost, "/api/content", body, true, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]projects.Project, error) {
	var list []projects.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, false, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []projects.Project{}
	}
	return list, nil
}

func (c *Client) GetProject(ctx context.Context, id int64) (projects.Project, error) {
	var p *projects.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects/"+strconv.FormatInt(id, 10), nil, false, &p); err != nil {
		return projects.Project{}, err
	}
	if p == nil {
		return projects.Project{}, repository.ErrNotFound
	}
	return *p, nil
}

func (c *Client) InsertProject(ctx context.Context, p projects.Project) (projects.Project, error) {
	p.ID = 0
	return c.SaveProjectWithUploads(ctx, p, nil, nil)
}

func (c *Client) UpdateProject(ctx context.Context, p projects.Project) (projects.Project, error) {
	if p.ID == 0 {
		return projects.Project{}, repository.ErrNotFound
	}
	return c.SaveProjectWithUploads(ctx, p, nil, nil)
}

// SaveProjectWithUploads posts p with an optional inline cover image and
// gallery files. ID 0 inserts, any other id updates via PUT.
func (c *Client) SaveProjectWithUploads(ctx context.Context, p projects.Project, cover *InlineFile, gallery []InlineFile) (projects.Project, error) {
	body, err := projectBody(p)
	if err != nil {
		return projects.Project{}, err
	}
	if cover != nil {
		body["imageBase64"] = cover.DataURL
		body["imageFilename"] = cover.Filename
	}
	if len(gallery) > 0 {
		body["galleryBase64"] = gallery
	}
	method, path := http.MethodPost, "/api/projects"
	if p.ID != 0 {
		method, path = http.MethodPut, "/api/projects/"+strconv.FormatInt(p.ID, 10)
	}
	var saved projects.Project
	if err := c.do(ctx, method, path, body, true, &saved); err != nil {
		return projects.Project{}, err
	}
	return saved, nil
}

func projectBody(p projects.Project) (map[string]any, error) {
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	body := map[string]any{}
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if p.ID == 0 {
		body["id"] = nil
	}
	return body, nil
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+strconv.FormatInt(id, 10), nil, true, nil)
}
