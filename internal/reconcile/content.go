package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/nbportfolio/site/internal/apiclient"
	"github.com/nbportfolio/site/internal/content"
	"github.com/nbportfolio/site/internal/storage"
	"github.com/nbportfolio/site/pkg/logger"
)

// LoadContent runs remote, API, snapshot, cache and keeps the first
// non-empty document. When every source fails the working copy is an empty
// document. Remote and API hits are mirrored into the cache best-effort.
func (r *Reconciler) LoadContent(ctx context.Context) (content.Document, string) {
	var steps []readStep[content.Document]
	if r.remote != nil && r.remote.Content != nil {
		steps = append(steps, readStep[content.Document]{name: sourceRemote, run: r.remote.Content.LoadContent})
	}
	if r.api != nil {
		steps = append(steps, readStep[content.Document]{name: sourceAPI, run: r.api.LoadContent})
	}
	if r.snapshot != nil {
		steps = append(steps, readStep[content.Document]{name: sourceSnapshot, run: r.snapshot.LoadContent})
	}
	steps = append(steps, readStep[content.Document]{name: sourceCache, run: r.cache.LoadContent})

	doc, origin, ok := readFirst(ctx, r, "load_content", steps, func(d content.Document) bool { return d.IsEmpty() })
	if !ok {
		logger.Warnf("load_content: no source returned content, using an empty document")
		doc, origin = content.Document{}, ""
	}
	doc.EnsureCardIDs()
	if origin == sourceRemote || origin == sourceAPI {
		if err := r.cache.SaveContent(ctx, doc); err != nil {
			logger.Warnf("load_content: cache mirror failed: %v", err)
		}
	}
	r.state.replace(doc, origin)
	return doc.Clone(), origin
}

// SaveContent applies e to the working copy, uploads pending files, then
// persists the whole document to remote, API or cache (first that accepts
// it), re-reads it from that target and replaces the working copy.
// Upload-then-persist is not atomic: if every target fails, uploaded blobs
// are reported as orphans and the working copy is left untouched.
func (r *Reconciler) SaveContent(ctx context.Context, e *content.Edit) (content.Document, Report, error) {
	var rep Report
	base := r.state.Working()
	doc := e.Apply(base)
	doc.EnsureCardIDs()

	inline := map[int]apiclient.InlineFile{}
	var notUploaded []string
	for _, f := range e.Files() {
		if url, ok := r.upload(ctx, &rep, f.Prefix, f.Filename, f.ContentType, f.Data); ok {
			if err := doc.SetFileURL(f, url); err != nil {
				rep.warnf("%s: %v", f.Filename, err)
			}
			continue
		}
		if slot := brochurePDFSlot(f.Field); slot != 0 {
			inline[slot] = apiclient.InlineFile{Filename: f.Filename, DataURL: storage.EncodeDataURL(f.ContentType, f.Data)}
		}
		notUploaded = append(notUploaded, f.Filename)
	}

	var steps []writeStep[content.Document]
	if r.remote != nil && r.remote.Content != nil {
		store := r.remote.Content
		steps = append(steps, writeStep[content.Document]{name: sourceRemote, run: func(ctx context.Context) (content.Document, error) {
			if err := store.SaveContent(ctx, doc); err != nil {
				return nil, err
			}
			return reread(ctx, sourceRemote, store.LoadContent, doc), nil
		}})
	}
	if r.api != nil {
		api := r.api
		steps = append(steps, writeStep[content.Document]{name: sourceAPI, run: func(ctx context.Context) (content.Document, error) {
			var err error
			if len(inline) > 0 {
				err = api.SaveContentWithBrochures(ctx, doc, inline)
			} else {
				err = api.SaveContent(ctx, doc)
			}
			if err != nil {
				return nil, err
			}
			return reread(ctx, sourceAPI, api.LoadContent, doc), nil
		}})
	}
	steps = append(steps, writeStep[content.Document]{name: sourceCache, run: func(ctx context.Context) (content.Document, error) {
		if err := r.cache.SaveContent(ctx, doc); err != nil {
			return nil, err
		}
		return reread(ctx, sourceCache, r.cache.LoadContent, doc), nil
	}})

	fresh, target, err := writeFirst(ctx, "save_content", false, steps)
	if err != nil {
		rep.orphan()
		return base, rep, err
	}
	rep.Target = target
	for _, name := range notUploaded {
		if target == sourceAPI && len(inline) > 0 && isInline(inline, name) {
			continue
		}
		rep.warnf("%s was not uploaded; the previous value was kept", name)
	}
	fresh.EnsureCardIDs()
	if target != sourceCache {
		if err := r.cache.SaveContent(ctx, fresh); err != nil {
			logger.Warnf("save_content: cache mirror failed: %v", err)
		}
	}
	r.state.replace(fresh, target)
	return fresh.Clone(), rep, nil
}

// reread loads the document back from the target that accepted the write.
// A failed or empty read falls back to what was written.
func reread(ctx context.Context, name string, load func(context.Context) (content.Document, error), written content.Document) content.Document {
	fresh, err := load(ctx)
	if err != nil {
		logger.Warnf("save_content: re-read from %s failed: %v", name, err)
		return written.Clone()
	}
	if fresh.IsEmpty() {
		return written.Clone()
	}
	return fresh
}

func brochurePDFSlot(field string) int {
	for _, slot := range []int{1, 2} {
		if field == content.BrochureKey(slot, "pdf_path") {
			return slot
		}
	}
	return 0
}

func isInline(files map[int]apiclient.InlineFile, name string) bool {
	for _, f := range files {
		if f.Filename == name {
			return true
		}
	}
	return false
}

// File is a file selected in an editor form.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// SaveServiceCard creates (empty ID) or updates a card by id, optionally
// uploading a new icon, and saves the document.
func (r *Reconciler) SaveServiceCard(ctx context.Context, card content.ServiceCard, icon *File) (content.ServiceCard, Report, error) {
	work := r.state.Working()
	work.EnsureCardIDs()
	if card.ID == "" {
		card = work.AddCard(card)
	} else if err := work.UpdateCard(card); err != nil {
		return card, Report{}, err
	}
	e := content.NewEdit().SetCards(work.Cards())
	if icon != nil {
		e.AttachCardIcon(card.ID, storage.PrefixServiceIcons, icon.Name, icon.ContentType, icon.Data)
	}
	doc, rep, err := r.SaveContent(ctx, e)
	if err != nil {
		return card, rep, err
	}
	saved, ok := doc.Card(card.ID)
	if !ok {
		return card, rep, content.ErrCardNotFound
	}
	return saved, rep, nil
}

// DeleteServiceCard removes the card with id and saves the document.
func (r *Reconciler) DeleteServiceCard(ctx context.Context, id string) (Report, error) {
	work := r.state.Working()
	if err := work.RemoveCard(id); err != nil {
		return Report{}, err
	}
	_, rep, err := r.SaveContent(ctx, content.NewEdit().SetCards(work.Cards()))
	return rep, err
}

// BrochureForm edits one brochure slot. Nil files keep the current paths.
type BrochureForm struct {
	Title       string
	Description string
	PDF         *File
	Image       *File
}

// SaveBrochure updates a slot: PDFs go under "brochures/", cover images
// under "content/brochures/".
func (r *Reconciler) SaveBrochure(ctx context.Context, slot int, f BrochureForm) (content.Brochure, Report, error) {
	if !content.ValidSlot(slot) {
		return content.Brochure{}, Report{}, ErrInvalidSlot
	}
	e := content.NewEdit().
		SetString(content.BrochureKey(slot, "title"), strings.TrimSpace(f.Title)).
		SetString(content.BrochureKey(slot, "description"), f.Description)
	if f.PDF != nil {
		ct := f.PDF.ContentType
		if ct == "" {
			ct = "application/pdf"
		}
		e.Attach(content.BrochureKey(slot, "pdf_path"), storage.PrefixBrochures, f.PDF.Name, ct, f.PDF.Data)
	}
	if f.Image != nil {
		e.Attach(content.BrochureKey(slot, "image_path"), storage.PrefixContentBrochure, f.Image.Name, f.Image.ContentType, f.Image.Data)
	}
	doc, rep, err := r.SaveContent(ctx, e)
	if err != nil {
		return content.Brochure{}, rep, fmt.Errorf("save brochure %d: %w", slot, err)
	}
	return doc.Brochure(slot), rep, nil
}
