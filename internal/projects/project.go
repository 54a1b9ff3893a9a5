// Package projects holds the portfolio project record and the pure list
// and gallery rules applied before any store is touched.
package projects

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Project is one portfolio entry. ID 0 means "not yet stored".
type Project struct {
	ID               int64    `json:"id" bson:"id"`
	Title            string   `json:"title" bson:"title"`
	Category         string   `json:"category" bson:"category"`
	Description      string   `json:"description" bson:"description"`
	PlainDescription string   `json:"plain_description" bson:"plain_description"`
	Image            string   `json:"image" bson:"image"`
	Gallery          []string `json:"gallery" bson:"gallery"`
	Video            string   `json:"video" bson:"video"`
}

// UnmarshalJSON accepts the legacy aliases written by older admin builds.
func (p *Project) UnmarshalJSON(b []byte) error {
	var r struct {
		ID                     json.RawMessage `json:"id"`
		Title                  string          `json:"title"`
		Category               string          `json:"category"`
		Description            string          `json:"description"`
		PlainDescription       *string         `json:"plain_description"`
		PlainDescriptionLegacy string          `json:"plainDescription"`
		Image                  string          `json:"image"`
		ImageURL               string          `json:"image_url"`
		ImagePath              string          `json:"image_path"`
		Gallery                []string        `json:"gallery"`
		Video                  string          `json:"video"`
		VideoURL               string          `json:"video_url"`
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	id, err := parseID(r.ID)
	if err != nil {
		return err
	}
	*p = Project{
		ID:          id,
		Title:       r.Title,
		Category:    r.Category,
		Description: r.Description,
		Image:       firstNonEmpty(r.Image, r.ImageURL, r.ImagePath),
		Gallery:     r.Gallery,
		Video:       firstNonEmpty(r.Video, r.VideoURL),
	}
	if r.PlainDescription != nil {
		p.PlainDescription = *r.PlainDescription
	} else {
		p.PlainDescription = r.PlainDescriptionLegacy
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	return nil
}

// parseID accepts numbers, numeric strings and null.
func parseID(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
		if s == "" {
			return 0, nil
		}
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid project id %s", s)
	}
	return int64(f), nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

// DecodeList parses a JSON array of projects; empty input is an empty list.
func DecodeList(b []byte) ([]Project, error) {
	if len(strings.TrimSpace(string(b))) == 0 {
		return []Project{}, nil
	}
	var list []Project
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Project{}
	}
	return list, nil
}

// Clone returns a copy with its own gallery slice.
func (p Project) Clone() Project {
	p.Gallery = append([]string{}, p.Gallery...)
	return p
}
