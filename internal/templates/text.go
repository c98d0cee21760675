package templates

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WrapWidth is the column limit of the plain-text alternative.
const WrapWidth = 130

// elements rendered as separate paragraphs
var paragraphElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Blockquote: true, atom.Table: true,
	atom.Ul: true, atom.Ol: true, atom.Hr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// elements rendered on a line of their own
var lineElements = map[atom.Atom]bool{
	atom.Tr: true, atom.Li: true,
}

// elements whose content never shows up in the text body
var skippedElements = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Title: true,
}

type textWriter struct {
	lines []string
	line  strings.Builder
}

// endLine closes the current line. keepEmpty records an empty line too.
func (w *textWriter) endLine(keepEmpty bool) {
	text := strings.Join(strings.Fields(w.line.String()), " ")
	w.line.Reset()
	if text != "" || (keepEmpty && len(w.lines) > 0) {
		w.lines = append(w.lines, text)
	}
}

func (w *textWriter) endParagraph() {
	w.endLine(false)
	if n := len(w.lines); n > 0 && w.lines[n-1] != "" {
		w.lines = append(w.lines, "")
	}
}

func (w *textWriter) String() string {
	w.endLine(false)
	lines := w.lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = wordwrap.WrapString(l, WrapWidth)
	}
	return strings.Join(lines, "\n")
}

// HTMLToText converts an HTML document to plain text wrapped at WrapWidth.
func HTMLToText(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))
	w := &textWriter{}
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return w.String()

		case html.TextToken:
			if skip == 0 {
				w.line.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case skippedElements[a]:
				if tt == html.StartTagToken {
					skip++
				}
			case a == atom.Br:
				w.endLine(true)
			case a == atom.Td || a == atom.Th:
				w.line.WriteString(" ")
			case a == atom.Li:
				w.endLine(false)
				w.line.WriteString("- ")
			case lineElements[a]:
				w.endLine(false)
			case paragraphElements[a]:
				w.endParagraph()
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case skippedElements[a]:
				if skip > 0 {
					skip--
				}
			case lineElements[a]:
				w.endLine(false)
			case paragraphElements[a]:
				w.endParagraph()
			}
		}
	}
}
