package htmltext

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// bodyContext is the context element for fragment parsing.
var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// parseFragment parses s as body content. Malformed markup never fails in
// the HTML5 algorithm, so an error only comes from the reader and s is then
// treated as a single text node.
func parseFragment(s string) []*html.Node {
	nodes, err := html.ParseFragment(strings.NewReader(s), bodyContext)
	if err != nil {
		return []*html.Node{{Type: html.TextNode, Data: s}}
	}
	return nodes
}

// PlainText returns the text content of an HTML fragment with <br> turned
// into newlines. Entities are decoded and the result is NFC normalized.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return norm.NFC.String(fragment)
	}
	var b strings.Builder
	for _, n := range parseFragment(fragment) {
		writeText(&b, n, false)
	}
	return norm.NFC.String(b.String())
}

// InlineText flattens a fragment to a single line. Superscripts become
// ^(...) and subscripts _(...); whitespace runs collapse to one space.
func InlineText(fragment string) string {
	var b strings.Builder
	for _, n := range parseFragment(fragment) {
		writeText(&b, n, true)
	}
	text := whitespaceRun.ReplaceAllString(b.String(), " ")
	return norm.NFC.String(strings.TrimSpace(text))
}

func writeText(b *strings.Builder, n *html.Node, scripts bool) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Br:
			b.WriteByte('\n')
			return
		case atom.Script, atom.Style, atom.Template:
			return
		case atom.Sup, atom.Sub:
			if scripts {
				mark := "^("
				if n.DataAtom == atom.Sub {
					mark = "_("
				}
				b.WriteString(mark)
				writeChildren(b, n, scripts)
				b.WriteByte(')')
				return
			}
		}
	}
	writeChildren(b, n, scripts)
}

func writeChildren(b *strings.Builder, n *html.Node, scripts bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c, scripts)
	}
}
