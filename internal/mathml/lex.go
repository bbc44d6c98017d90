package mathml

import (
	"strings"
	"unicode"

	"github.com/alnah/go-docexport/internal/latex"
)

type lexemeKind int

const (
	charLexeme lexemeKind = iota
	macroLexeme
	groupLexeme
)

// lexeme is one unit of parser input. Character runs are split into single
// characters; a group keeps both its source text and its nested lexemes.
type lexeme struct {
	kind  lexemeKind
	text  string
	inner []lexeme
}

func (l lexeme) isSpace() bool {
	return l.kind == charLexeme && strings.TrimSpace(l.text) == ""
}

func (l lexeme) isDigit() bool {
	return l.kind == charLexeme && len(l.text) == 1 && unicode.IsDigit(rune(l.text[0]))
}

func (l lexeme) String() string {
	switch l.kind {
	case macroLexeme:
		return `\` + l.text
	case groupLexeme:
		return "{" + l.text + "}"
	}
	return l.text
}

// lex flattens a parsed tree into parser input. Math spans contribute their
// contents and comments are dropped.
func lex(nodes []*latex.Node) []lexeme {
	var out []lexeme
	for _, n := range nodes {
		switch n.Kind {
		case latex.CharsNode:
			for _, r := range n.Text {
				out = append(out, lexeme{kind: charLexeme, text: string(r)})
			}
		case latex.GroupNode:
			out = append(out, groupOf(n))
		case latex.MacroNode:
			out = append(out, lexeme{kind: macroLexeme, text: n.Name()})
			for _, arg := range n.Args {
				out = append(out, groupOf(arg))
			}
		case latex.MathNode:
			out = append(out, lex(n.Children)...)
		}
	}
	return out
}

func groupOf(n *latex.Node) lexeme {
	return lexeme{kind: groupLexeme, text: latex.Source(n.Children), inner: lex(n.Children)}
}
