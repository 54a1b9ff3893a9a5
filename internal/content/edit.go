package content

// PendingFile is a file chosen in the editor that must be uploaded before
// its URL can be written into Field (or into the icon of card CardID).
type PendingFile struct {
	Field       string
	CardID      string
	Prefix      string
	Filename    string
	ContentType string
	Data        []byte
}

// Edit collects form values to be copied into a working document.
type Edit struct {
	strings map[string]string
	lines   map[string][]string
	cards   []ServiceCard
	files   []PendingFile
	setCard bool
}

func NewEdit() *Edit {
	return &Edit{strings: map[string]string{}, lines: map[string][]string{}}
}

// SetString copies a plain input value.
func (e *Edit) SetString(key, value string) *Edit {
	e.strings[key] = value
	return e
}

// SetHTML copies the serialized HTML of a rich-text surface.
func (e *Edit) SetHTML(key, html string) *Edit { return e.SetString(key, html) }

// SetLines copies a newline textbox as a trimmed list without empty lines.
func (e *Edit) SetLines(key, text string) *Edit {
	e.lines[key] = SplitLines(text)
	return e
}

// SetCards replaces the card list.
func (e *Edit) SetCards(cards []ServiceCard) *Edit {
	e.cards = cards
	e.setCard = true
	return e
}

// Attach queues a file upload whose URL lands in field.
func (e *Edit) Attach(field, prefix, filename, contentType string, data []byte) *Edit {
	e.files = append(e.files, PendingFile{Field: field, Prefix: prefix, Filename: filename, ContentType: contentType, Data: data})
	return e
}

// AttachCardIcon queues an icon upload for the card with cardID.
func (e *Edit) AttachCardIcon(cardID, prefix, filename, contentType string, data []byte) *Edit {
	e.files = append(e.files, PendingFile{Field: KeyServiceCards, CardID: cardID, Prefix: prefix, Filename: filename, ContentType: contentType, Data: data})
	return e
}

// Files returns the queued uploads.
func (e *Edit) Files() []PendingFile {
	if e == nil {
		return nil
	}
	return e.files
}

// Apply returns a copy of base with the edit's field values applied.
// Uploads are not performed here.
func (e *Edit) Apply(base Document) Document {
	d := base.Clone()
	if e == nil {
		return d
	}
	for k, v := range e.strings {
		d.SetString(k, v)
	}
	for k, v := range e.lines {
		d.SetStrings(k, v)
	}
	if e.setCard {
		d.SetCards(e.cards)
	}
	return d
}

// SetFileURL writes an uploaded URL to the target of f.
func (d Document) SetFileURL(f PendingFile, url string) error {
	if f.CardID == "" {
		d.SetString(f.Field, url)
		return nil
	}
	c, ok := d.Card(f.CardID)
	if !ok {
		return ErrCardNotFound
	}
	c.Icon = url
	return d.UpdateCard(c)
}
