package projects

import "strings"

// Canonical categories offered by the editor, in display order.
var Canonical = []string{
	"Water Supply & Hydraulics",
	"Transport & Railways",
	"BIM & Engineering Support",
	"Roads & Structures",
	"Buildings & Special Projects",
}

// IsCanonical reports whether c is one of the fixed categories.
func IsCanonical(c string) bool {
	for _, v := range Canonical {
		if v == c {
			return true
		}
	}
	return false
}

// Categories returns the canonical list followed by any legacy values found in list.
func Categories(list []Project) []string {
	out := append([]string{}, Canonical...)
	seen := map[string]bool{}
	for _, c := range Canonical {
		seen[c] = true
	}
	for _, p := range list {
		c := strings.TrimSpace(p.Category)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// Upsert replaces the entry with p.ID or appends p. The input slice is not modified.
func Upsert(list []Project, p Project) []Project {
	out := make([]Project, 0, len(list)+1)
	replaced := false
	for _, q := range list {
		if !replaced && q.ID == p.ID {
			out = append(out, p)
			replaced = true
			continue
		}
		out = append(out, q)
	}
	if !replaced {
		out = append(out, p)
	}
	return out
}

// Remove drops every entry with id and reports whether one was found.
func Remove(list []Project, id int64) ([]Project, bool) {
	out := make([]Project, 0, len(list))
	found := false
	for _, p := range list {
		if p.ID == id {
			found = true
			continue
		}
		out = append(out, p)
	}
	return out, found
}

// Find returns the entry with id.
func Find(list []Project, id int64) (Project, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// Filter keeps projects whose category equals category (when set) and whose
// title contains query case-insensitively (when set). Order is preserved.
func Filter(list []Project, query, category string) []Project {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []Project{}
	for _, p := range list {
		if category != "" && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Title), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}
