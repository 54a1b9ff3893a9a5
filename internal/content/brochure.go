package content

import "fmt"

// Brochure is one of the two fixed download slots.
type Brochure struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PDFPath     string `json:"pdf_path"`
	ImagePath   string `json:"image_path"`
}

var defaultBrochureTitles = map[int]string{1: "Company Brochure", 2: "Personal Profile"}

// ValidSlot reports whether slot names a brochure.
func ValidSlot(slot int) bool { return slot == 1 || slot == 2 }

// BrochureKey returns "brochure<slot>.<field>".
func BrochureKey(slot int, field string) string {
	return fmt.Sprintf("brochure%d.%s", slot, field)
}

// Brochure reads slot 1 or 2, substituting the default title.
func (d Document) Brochure(slot int) Brochure {
	return Brochure{
		Title:       d.StringOr(BrochureKey(slot, "title"), defaultBrochureTitles[slot]),
		Description: d.String(BrochureKey(slot, "description")),
		PDFPath:     d.String(BrochureKey(slot, "pdf_path")),
		ImagePath:   d.String(BrochureKey(slot, "image_path")),
	}
}

// SetBrochure writes every field of a slot.
func (d Document) SetBrochure(slot int, b Brochure) {
	d.SetString(BrochureKey(slot, "title"), b.Title)
	d.SetString(BrochureKey(slot, "description"), b.Description)
	d.SetString(BrochureKey(slot, "pdf_path"), b.PDFPath)
	d.SetString(BrochureKey(slot, "image_path"), b.ImagePath)
}
