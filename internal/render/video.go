package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// DefaultVideoHeight is the embed height used by project cards.
const DefaultVideoHeight = 210

var (
	youtubeID = regexp.MustCompile(`(?:youtube\.com/(?:watch\?v=|embed/)|youtu\.be/)([A-Za-z0-9_-]{6,})`)
	mp4Link   = regexp.MustCompile(`(?i)\.mp4(\?|$)`)
	vimeoID   = regexp.MustCompile(`vimeo\.com/(\d+)`)
)

// VideoEmbed renders url at the default height.
func VideoEmbed(url string) string { return VideoEmbedHeight(url, DefaultVideoHeight) }

// VideoEmbedHeight recognizes YouTube, direct .mp4 and Vimeo links in that
// order and falls back to a plain outbound link. Empty input yields "".
func VideoEmbedHeight(url string, height int) string {
	u := strings.TrimSpace(url)
	if u == "" {
		return ""
	}
	if height <= 0 {
		height = DefaultVideoHeight
	}
	if m := youtubeID.FindStringSubmatch(u); m != nil {
		return fmt.Sprintf(`<div class="video-embed" style="width:100%%;"><iframe width="100%%" height="%d" src="https://www.youtube.com/embed/%s" frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen></iframe></div>`, height, m[1])
	}
	if mp4Link.MatchString(u) {
		return fmt.Sprintf(`<div class="video-embed" style="width:100%%;"><video controls style="width:100%%; max-height:%dpx;"><source src="%s" type="video/mp4">Your browser does not support the video tag.</video></div>`, height, html.EscapeString(u))
	}
	if m := vimeoID.FindStringSubmatch(u); m != nil {
		return fmt.Sprintf(`<div class="video-embed" style="width:100%%;"><iframe width="100%%" height="%d" src="https://player.vimeo.com/video/%s" frameborder="0" allow="autoplay; fullscreen; picture-in-picture" allowfullscreen></iframe></div>`, height, m[1])
	}
	return fmt.Sprintf(`<div class="video-embed"><a href="%s" target="_blank" rel="noopener">Open video</a></div>`, html.EscapeString(u))
}
