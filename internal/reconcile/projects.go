package reconcile

import (
	"context"
	"path"
	"strconv"
	"strings"

	"github.com/nbportfolio/site/internal/apiclient"
	"github.com/nbportfolio/site/internal/projects"
	"github.com/nbportfolio/site/internal/render"
	"github.com/nbportfolio/site/internal/storage"
	"github.com/nbportfolio/site/pkg/logger"
)

// LocalImageDir is the site path recorded for images kept only as cached data URLs.
const LocalImageDir = "assets/images/different categories/projects"

// LoadProjects runs remote, API, cache, snapshot. With EmptyAuthoritative an
// empty list from remote or API is final; otherwise it falls through to the
// local sources. Order is whatever the winning source returned.
func (r *Reconciler) LoadProjects(ctx context.Context) ([]projects.Project, string) {
	authoritative := r.emptyPolicy == EmptyAuthoritative
	var steps []readStep[[]projects.Project]
	if r.remote != nil && r.remote.Projects != nil {
		steps = append(steps, readStep[[]projects.Project]{name: sourceRemote, run: r.remote.Projects.ListProjects, acceptEmpty: authoritative})
	}
	if r.api != nil {
		steps = append(steps, readStep[[]projects.Project]{name: sourceAPI, run: r.api.ListProjects, acceptEmpty: authoritative})
	}
	steps = append(steps, readStep[[]projects.Project]{name: sourceCache, run: r.cache.ListProjects})
	if r.snapshot != nil {
		steps = append(steps, readStep[[]projects.Project]{name: sourceSnapshot, run: r.snapshot.ListProjects})
	}

	list, origin, ok := readFirst(ctx, r, "load_projects", steps, func(l []projects.Project) bool { return len(l) == 0 })
	if !ok {
		return []projects.Project{}, ""
	}
	if list == nil {
		list = []projects.Project{}
	}
	if origin == sourceRemote || origin == sourceAPI {
		if err := r.cache.SaveProjects(ctx, list); err != nil {
			logger.Warnf("load_projects: cache mirror failed: %v", err)
		}
	}
	return list, origin
}

// GetProject looks id up in remote, API, cache, snapshot.
func (r *Reconciler) GetProject(ctx context.Context, id int64) (projects.Project, string, bool) {
	var steps []readStep[projects.Project]
	if r.remote != nil && r.remote.Projects != nil {
		store := r.remote.Projects
		steps = append(steps, readStep[projects.Project]{name: sourceRemote, run: func(ctx context.Context) (projects.Project, error) { return store.GetProject(ctx, id) }})
	}
	if r.api != nil {
		steps = append(steps, readStep[projects.Project]{name: sourceAPI, run: func(ctx context.Context) (projects.Project, error) { return r.api.GetProject(ctx, id) }})
	}
	steps = append(steps, readStep[projects.Project]{name: sourceCache, run: func(ctx context.Context) (projects.Project, error) { return r.cache.GetProject(ctx, id) }})
	if r.snapshot != nil {
		steps = append(steps, readStep[projects.Project]{name: sourceSnapshot, run: func(ctx context.Context) (projects.Project, error) {
			list, err := r.snapshot.ListProjects(ctx)
			if err != nil {
				return projects.Project{}, err
			}
			p, _ := projects.Find(list, id)
			return p, nil
		}})
	}
	return readFirst(ctx, r, "get_project", steps, func(p projects.Project) bool { return p.ID == 0 })
}

// ProjectForm is the editor state for one project. ID 0 inserts.
type ProjectForm struct {
	ID       int64
	Title    string
	Category string
	Video    string

	// Rich selects the rich-text surface: RichHTML is stored as is and the
	// plain text is derived from it. Otherwise PlainText is formatted.
	Rich      bool
	RichHTML  string
	PlainText string
	// KeepDescription stores RichHTML and PlainText unchanged, for edits
	// that leave the description alone.
	KeepDescription bool

	Image string
	Cover *File

	ExistingGallery []string
	RemovedGallery  []string
	NewGallery      []File
}

func describe(f ProjectForm) (html, plain string) {
	if f.KeepDescription {
		return f.RichHTML, f.PlainText
	}
	if f.Rich {
		html = strings.TrimSpace(f.RichHTML)
		return html, strings.TrimSpace(render.PlainText(html))
	}
	return render.FormatDescription(f.PlainText), f.PlainText
}

// SaveProject validates the gallery, uploads the cover and gallery files,
// then inserts or updates through remote, API or cache and mirrors the
// stored record into the cache list. Files that could not be uploaded are
// sent inline to the API or kept as cached data URLs in local mode.
func (r *Reconciler) SaveProject(ctx context.Context, f ProjectForm) (projects.Project, Report, error) {
	var rep Report
	p := projects.Project{
		ID:       f.ID,
		Title:    strings.TrimSpace(f.Title),
		Category: strings.TrimSpace(f.Category),
		Image:    f.Image,
		Video:    strings.TrimSpace(f.Video),
	}
	p.Description, p.PlainDescription = describe(f)

	newFiles := make([]projects.NewFile, 0, len(f.NewGallery))
	for _, g := range f.NewGallery {
		ct := g.ContentType
		if ct == "" {
			ct = storage.ContentType(g.Name)
		}
		newFiles = append(newFiles, projects.NewFile{Name: g.Name, ContentType: ct, Data: g.Data})
	}
	plan := projects.PlanGallery(f.ExistingGallery, f.RemovedGallery, 0, newFiles, r.gallery)
	for _, w := range plan.Warnings {
		rep.warnf("%s", w)
	}

	var pendingCover *File
	if f.Cover != nil {
		cover := *f.Cover
		if cover.ContentType == "" {
			cover.ContentType = storage.ContentType(cover.Name)
		}
		f.Cover = &cover
		if url, ok := r.upload(ctx, &rep, storage.PrefixProjectImages, f.Cover.Name, f.Cover.ContentType, f.Cover.Data); ok {
			p.Image = url
		} else {
			pendingCover = f.Cover
		}
	}
	gallery := append([]string{}, plan.Keep...)
	var pendingGallery []projects.NewFile
	for _, g := range plan.Accepted {
		if url, ok := r.upload(ctx, &rep, storage.PrefixProjectGallery, g.Name, g.ContentType, g.Data); ok {
			gallery = append(gallery, url)
		} else {
			pendingGallery = append(pendingGallery, g)
		}
	}
	p.Gallery = gallery

	var steps []writeStep[projects.Project]
	if r.remote != nil && r.remote.Projects != nil {
		store := r.remote.Projects
		steps = append(steps, writeStep[projects.Project]{name: sourceRemote, run: func(ctx context.Context) (projects.Project, error) {
			if p.ID != 0 {
				return store.UpdateProject(ctx, p)
			}
			return store.InsertProject(ctx, p)
		}})
	}
	if r.api != nil {
		api := r.api
		steps = append(steps, writeStep[projects.Project]{name: sourceAPI, run: func(ctx context.Context) (projects.Project, error) {
			var cover *apiclient.InlineFile
			if pendingCover != nil {
				cover = &apiclient.InlineFile{Filename: pendingCover.Name, DataURL: storage.EncodeDataURL(pendingCover.ContentType, pendingCover.Data)}
			}
			inline := make([]apiclient.InlineFile, 0, len(pendingGallery))
			for _, g := range pendingGallery {
				inline = append(inline, apiclient.InlineFile{Filename: g.Name, DataURL: storage.EncodeDataURL(g.ContentType, g.Data)})
			}
			return api.SaveProjectWithUploads(ctx, p, cover, inline)
		}})
	}
	steps = append(steps, writeStep[projects.Project]{name: sourceCache, run: func(ctx context.Context) (projects.Project, error) {
		local := p.Clone()
		if pendingCover != nil {
			local.Image = r.cacheImage(ctx, &rep, pendingCover.Name, pendingCover.ContentType, pendingCover.Data)
		}
		for _, g := range pendingGallery {
			local.Gallery = append(local.Gallery, r.cacheImage(ctx, &rep, g.Name, g.ContentType, g.Data))
		}
		if local.ID != 0 {
			return r.cache.UpdateProject(ctx, local)
		}
		return r.cache.InsertProject(ctx, local)
	}})

	saved, target, err := writeFirst(ctx, "save_project", f.ID != 0, steps)
	if err != nil {
		rep.orphan()
		return projects.Project{}, rep, err
	}
	rep.Target = target
	if target == sourceRemote {
		if pendingCover != nil {
			rep.warnf("cover image %s was not uploaded; the previous image was kept", pendingCover.Name)
		}
		for _, g := range pendingGallery {
			rep.warnf("Failed to upload gallery image: %s", g.Name)
		}
	}
	if saved.Gallery == nil {
		saved.Gallery = []string{}
	}
	if target != sourceCache {
		if err := r.cache.Mirror(ctx, saved); err != nil {
			logger.Warnf("save_project: cache mirror failed: %v", err)
		}
	}
	return saved, rep, nil
}

// cacheImage keeps a file as a data URL under img_<name> and returns the
// site path that ResolveImage maps back to it.
func (r *Reconciler) cacheImage(ctx context.Context, rep *Report, name, contentType string, data []byte) string {
	filename := strconv.FormatInt(r.now().UnixMilli(), 10) + "_" + storage.SanitizeFilename(name)
	if err := r.cache.PutImage(ctx, filename, storage.EncodeDataURL(contentType, data)); err != nil {
		rep.warnf("Could not store image locally: %s: %v", name, err)
	}
	return LocalImageDir + "/" + filename
}

// DeleteProject removes id through remote, API or cache and drops it from
// the cached list.
func (r *Reconciler) DeleteProject(ctx context.Context, id int64) (Report, error) {
	var rep Report
	var steps []writeStep[struct{}]
	if r.remote != nil && r.remote.Projects != nil {
		store := r.remote.Projects
		steps = append(steps, writeStep[struct{}]{name: sourceRemote, run: func(ctx context.Context) (struct{}, error) { return struct{}{}, store.DeleteProject(ctx, id) }})
	}
	if r.api != nil {
		steps = append(steps, writeStep[struct{}]{name: sourceAPI, run: func(ctx context.Context) (struct{}, error) { return struct{}{}, r.api.DeleteProject(ctx, id) }})
	}
	steps = append(steps, writeStep[struct{}]{name: sourceCache, run: func(ctx context.Context) (struct{}, error) { return struct{}{}, r.cache.DeleteProject(ctx, id) }})

	_, target, err := writeFirst(ctx, "delete_project", true, steps)
	if err != nil {
		return rep, err
	}
	rep.Target = target
	if target != sourceCache {
		if err := r.cache.Forget(ctx, id); err != nil {
			logger.Warnf("delete_project: cache forget failed: %v", err)
		}
	}
	return rep, nil
}

// ResolveImage returns the cached data URL for an image path when the
// browser-side fallback stored one, else the path itself.
func (r *Reconciler) ResolveImage(ctx context.Context, imagePath string) string {
	if imagePath == "" {
		return ""
	}
	name := path.Base(imagePath)
	if v, ok, err := r.cache.Image(ctx, name); err == nil && ok && v != "" {
		return v
	}
	return imagePath
}
