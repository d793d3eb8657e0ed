package source

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	reBlank = regexp.MustCompile(`[ \t\r\f\v]+`)
	reLines = regexp.MustCompile(`\s*\n\s*`)
)

// hidden elements never contribute text, nor does anything inside them.
var hidden = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Head:     true,
}

// lineEnd elements end a line of text when they close.
var lineEnd = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Tr: true, atom.Title: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// HTMLText returns the visible text of an HTML document: scripts, styles and
// the head are dropped, tags are removed and entities decoded.
func HTMLText(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case hidden[a] && tt == html.StartTagToken:
				skip++
			case a == atom.Br:
				b.WriteByte('\n')
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case hidden[a]:
				if skip > 0 {
					skip--
				}
			case lineEnd[a]:
				b.WriteByte('\n')
			}
			b.WriteByte(' ')
		case html.CommentToken:
			b.WriteByte(' ')
		}
	}

	s := reBlank.ReplaceAllString(b.String(), " ")
	s = reLines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
