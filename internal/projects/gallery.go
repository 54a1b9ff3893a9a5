package projects

import "fmt"

const (
	DefaultGalleryMaxFiles = 10
	DefaultGalleryMaxBytes = 5 * 1024 * 1024
)

// GalleryLimits bounds a project gallery.
type GalleryLimits struct {
	MaxFiles int
	MaxBytes int64
}

// DefaultGalleryLimits returns 10 files of at most 5MB each.
func DefaultGalleryLimits() GalleryLimits {
	return GalleryLimits{MaxFiles: DefaultGalleryMaxFiles, MaxBytes: DefaultGalleryMaxBytes}
}

// NewFile is a gallery image picked for upload.
type NewFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f NewFile) Size() int64 { return int64(len(f.Data)) }

// GalleryPlan is the outcome of validating a gallery edit.
type GalleryPlan struct {
	Keep     []string
	Accepted []NewFile
	Warnings []string
}

// PlanGallery merges existing URLs not marked removed with the new files,
// enforcing the count cap and the per-file size cap before any upload.
// pending counts files already queued by an earlier selection.
func PlanGallery(existing, removed []string, pending int, files []NewFile, lim GalleryLimits) GalleryPlan {
	if lim.MaxFiles <= 0 {
		lim.MaxFiles = DefaultGalleryMaxFiles
	}
	if lim.MaxBytes <= 0 {
		lim.MaxBytes = DefaultGalleryMaxBytes
	}
	drop := map[string]bool{}
	for _, u := range removed {
		drop[u] = true
	}
	plan := GalleryPlan{Keep: []string{}, Accepted: []NewFile{}}
	for _, u := range existing {
		if u != "" && !drop[u] {
			plan.Keep = append(plan.Keep, u)
		}
	}

	allowable := lim.MaxFiles - len(plan.Keep) - pending
	if allowable < 0 {
		allowable = 0
	}
	if len(files) > allowable {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf("You can only add %d more image(s) (max %d in total).", allowable, lim.MaxFiles))
		files = files[:allowable]
	}
	for _, f := range files {
		if f.Size() > lim.MaxBytes {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf("%s is larger than %dMB and was skipped.", f.Name, lim.MaxBytes/(1024*1024)))
			continue
		}
		plan.Accepted = append(plan.Accepted, f)
	}
	return plan
}
