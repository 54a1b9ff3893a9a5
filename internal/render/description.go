// Package render turns editor input into the HTML fragments stored with
// projects: the description formatter, its plain-text inverse and video embeds.
package render

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var numbered = regexp.MustCompile(`^\d+\.\s`)

// FormatDescription converts plain text to HTML line by line:
// "- " lines become <ul> items, "1. " lines <ol> items, blank lines split
// paragraphs and other lines are joined with <br>. Input is not escaped.
func FormatDescription(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var b strings.Builder
	b.WriteString("<p>")
	paraOpen := true
	list := ""

	closeList := func() {
		if list != "" {
			b.WriteString("</" + list + ">")
			list = ""
		}
	}
	openList := func(kind string) {
		switch {
		case list == kind:
			return
		case list != "":
			closeList()
		case paraOpen:
			b.WriteString("</p>")
			paraOpen = false
		}
		b.WriteString("<" + kind + ">")
		list = kind
	}

	for i, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			closeList()
			if i < len(lines)-1 {
				if paraOpen {
					b.WriteString("</p>")
				}
				b.WriteString("<p>")
				paraOpen = true
			}
		case strings.HasPrefix(line, "- "):
			openList("ul")
			b.WriteString("<li>" + line[2:] + "</li>")
		case numbered.MatchString(line):
			openList("ol")
			b.WriteString("<li>" + numbered.ReplaceAllString(line, "") + "</li>")
		default:
			if list != "" {
				closeList()
				b.WriteString("<p>")
				paraOpen = true
			}
			if !paraOpen {
				b.WriteString("<p>")
				paraOpen = true
			}
			b.WriteString(line + "<br>")
		}
	}
	closeList()
	if paraOpen {
		b.WriteString("</p>")
	}

	out := strings.ReplaceAll(b.String(), "<p></p>", "")
	out = strings.ReplaceAll(out, "<p><br>", "<p>")
	return strings.ReplaceAll(out, "<br></p>", "</p>")
}

// PlainText returns the visible text of an HTML fragment, one line per
// block element or <br>, with whitespace collapsed inside each line.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return tidyLines(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch a {
			case atom.Script, atom.Style:
				if tt == html.StartTagToken {
					skip++
				} else if tt == html.EndTagToken && skip > 0 {
					skip--
				}
			case atom.Br:
				b.WriteByte('\n')
			case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Tr, atom.Blockquote:
				b.WriteByte('\n')
			}
		}
	}
}

func tidyLines(s string) string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
