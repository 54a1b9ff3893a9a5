// Package content models the single site content document: a flat map of
// dotted keys to strings, string lists and service cards.
package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Key is the fixed identifier of the content row in every store.
const Key = "site_content"

// Well-known document keys edited by the admin client.
const (
	KeyProjectsSectionTitle = "projects.section.title"
	KeyContactSectionTitle  = "contact.section.title"
	KeyHeroTitle            = "homepage.hero.title"
	KeyHeroDesc             = "homepage.hero.desc"
	KeyAboutTitle           = "homepage.about.title"
	KeyAboutDesc            = "homepage.about.desc"
	KeyServicesHeroTitle    = "services.hero.title"
	KeyServicesHeroDesc     = "services.hero.desc"
	KeyServicesHeroImage    = "services.hero.image"
	KeyServicesOutputs      = "services.outputs"
	KeyContactFeatures      = "contact.features"
	KeyServiceCards         = "services.cards"
)

// Document is the whole content document. Values are string, []string or
// []ServiceCard once normalized; freshly decoded JSON may hold []any.
type Document map[string]any

// Decode parses a JSON object into a Document. Null or empty input yields an empty document.
func Decode(b []byte) (Document, error) {
	d := Document{}
	if len(strings.TrimSpace(string(b))) == 0 || string(b) == "null" {
		return d, nil
	}
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if d == nil {
		d = Document{}
	}
	return d, nil
}

// Clone returns a deep copy through the JSON representation.
func (d Document) Clone() Document {
	if d == nil {
		return Document{}
	}
	b, err := json.Marshal(d)
	if err != nil {
		out := make(Document, len(d))
		for k, v := range d {
			out[k] = v
		}
		return out
	}
	out, _ := Decode(b)
	return out
}

// IsEmpty reports whether the document holds no keys.
func (d Document) IsEmpty() bool { return len(d) == 0 }

// String returns the string at key, or "" when absent or not a string.
func (d Document) String(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64, bool, int, int64:
		return fmt.Sprint(v)
	}
	return ""
}

// StringOr returns String(key) or def when that is empty.
func (d Document) StringOr(key, def string) string {
	if s := d.String(key); s != "" {
		return s
	}
	return def
}

// Strings returns the string list at key. A plain string is split into lines.
func (d Document) Strings(key string) []string {
	switch v := d[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return SplitLines(v)
	}
	return []string{}
}

// SetString stores a plain string value.
func (d Document) SetString(key, value string) { d[key] = value }

// SetStrings stores a list value.
func (d Document) SetStrings(key string, values []string) {
	if values == nil {
		values = []string{}
	}
	d[key] = values
}

// SplitLines trims every line of a textbox value and drops empty ones.
func SplitLines(s string) []string {
	out := []string{}
	for _, l := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Equal compares two documents key by key on their JSON form.
func Equal(a, b Document) bool {
	if len(a) != len(b) {
		return false
	}
	return Contains(a, b)
}

// Contains reports whether every key of want is present in got with an equal value.
func Contains(got, want Document) bool {
	for k, v := range want {
		gv, ok := got[k]
		if !ok {
			return false
		}
		if !sameJSON(gv, v) {
			return false
		}
	}
	return true
}

func sameJSON(a, b any) bool {
	ab, err1 := json.Marshal(a)
	bb, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	var av, bv any
	if json.Unmarshal(ab, &av) != nil || json.Unmarshal(bb, &bv) != nil {
		return false
	}
	an, _ := json.Marshal(av)
	bn, _ := json.Marshal(bv)
	return string(an) == string(bn)
}
