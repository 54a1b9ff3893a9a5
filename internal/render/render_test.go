package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDescription(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"single line", "hello", "<p>hello</p>"},
		{"two lines", "a\nb", "<p>a<br>b</p>"},
		{"paragraphs", "a\n\nb", "<p>a</p><p>b</p>"},
		{"bullets", "- a\n- b", "<ul><li>a</li><li>b</li></ul>"},
		{"numbered", "1. one\n2. two", "<ol><li>one</li><li>two</li></ol>"},
		{"switch list", "- a\n1. b\n- c", "<ul><li>a</li></ul><ol><li>b</li></ol><ul><li>c</li></ul>"},
		{"text then list", "Intro\n- a", "<p>Intro</p><ul><li>a</li></ul>"},
		{"list then text", "- a\nafter", "<ul><li>a</li></ul><p>after</p>"},
		{"list blank text", "- a\n\nafter", "<ul><li>a</li></ul><p>after</p>"},
		{"trailing newline", "a\n", "<p>a</p>"},
		{"trimmed", "  a  \r\n  - b ", "<p>a</p><ul><li>b</li></ul>"},
		{"no space after dash", "-a", "<p>-a</p>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDescription(tc.in))
		})
	}
}

func TestFormatDescriptionBulletsOnly(t *testing.T) {
	out := FormatDescription("- a\n- b\n- c")
	assert.Equal(t, 1, strings.Count(out, "<ul>"))
	assert.Equal(t, 3, strings.Count(out, "<li>"))
	assert.Less(t, strings.Index(out, "<li>a"), strings.Index(out, "<li>b"))
	assert.Less(t, strings.Index(out, "<li>b"), strings.Index(out, "<li>c"))
}

func TestFormatDescriptionClosesBeforeSwitch(t *testing.T) {
	out := FormatDescription("1. x\n- y")
	assert.Less(t, strings.Index(out, "</ol>"), strings.Index(out, "<ul>"))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "a\nb", PlainText("<p>a</p><p>b</p>"))
	assert.Equal(t, "x\ny", PlainText("<ul><li>x</li><li>y</li></ul>"))
	assert.Equal(t, "Tom & Jerry\nnext", PlainText("<p>Tom &amp;   Jerry<br>next</p>"))
	assert.Equal(t, "visible", PlainText("<script>var x=1</script><b>visible</b>"))
	assert.Equal(t, "", PlainText(""))
}

func TestVideoEmbed(t *testing.T) {
	yt := VideoEmbed("https://youtu.be/dQw4w9WgXcQ")
	assert.Contains(t, yt, "<iframe")
	assert.Contains(t, yt, "embed/dQw4w9WgXcQ")
	assert.Contains(t, yt, `height="210"`)

	assert.Contains(t, VideoEmbed("https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=3"), "embed/dQw4w9WgXcQ")
	assert.Contains(t, VideoEmbed("https://www.youtube.com/embed/abcdef"), "embed/abcdef")

	mp4 := VideoEmbed("https://example.com/video.mp4")
	assert.Contains(t, mp4, "<video")
	assert.Contains(t, mp4, `src="https://example.com/video.mp4"`)
	assert.Contains(t, VideoEmbed("https://example.com/V.MP4?x=1"), "<video")

	vimeo := VideoEmbed("https://vimeo.com/12345")
	assert.Contains(t, vimeo, "<iframe")
	assert.Contains(t, vimeo, "video/12345")

	link := VideoEmbed("not a url")
	assert.Contains(t, link, "<a href=\"not a url\"")
	assert.Contains(t, link, "Open video")

	assert.Equal(t, "", VideoEmbed(""))
	assert.Equal(t, "", VideoEmbed("   "))
	assert.Contains(t, VideoEmbedHeight("https://youtu.be/dQw4w9WgXcQ", 400), `height="400"`)
	assert.Contains(t, VideoEmbed(`https://x/"><script>`), "&#34;&gt;&lt;script&gt;")
}
