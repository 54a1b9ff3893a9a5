package storage

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrBadDataURL = errors.New("malformed base64 payload")

// EncodeDataURL renders data as "data:<type>;base64,<payload>".
func EncodeDataURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL accepts a data URL or bare base64 and returns the bytes and
// declared content type ("" for bare base64).
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	contentType := ""
	if strings.HasPrefix(s, "data:") {
		comma := strings.Index(s, ",")
		if comma < 0 {
			return nil, "", ErrBadDataURL
		}
		meta := s[len("data:"):comma]
		if !strings.HasSuffix(meta, ";base64") {
			return nil, "", ErrBadDataURL
		}
		contentType = strings.TrimSuffix(meta, ";base64")
		s = s[comma+1:]
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if b, err = base64.RawStdEncoding.DecodeString(s); err != nil {
			return nil, "", ErrBadDataURL
		}
	}
	return b, contentType, nil
}
