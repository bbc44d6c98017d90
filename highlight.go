package docexport

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-docexport/internal/docx"
)

// codeFont is the monospace font of code runs in documents.
const codeFont = "Courier New"

// highlighter colours code blocks with a chroma style.
// It holds no mutable state and is safe for concurrent use.
type highlighter struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// newHighlighter creates a highlighter. Unknown style names fall back to
// chroma's default style.
func newHighlighter(styleName string) *highlighter {
	return &highlighter{
		style: styles.Get(styleName),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// lexerFor picks a lexer by language name, then by content analysis.
func lexerFor(lang, code string) chroma.Lexer {
	l := lexers.Get(strings.TrimSpace(lang))
	if l == nil {
		l = lexers.Analyse(code)
	}
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

// HTML returns the escaped, class-annotated markup of code without the
// surrounding <pre>.
func (h *highlighter) HTML(lang, code string) (string, error) {
	it, err := lexerFor(lang, code).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising %s: %w", lang, err)
	}
	var b strings.Builder
	if err := h.formatter.Format(&b, h.style, it); err != nil {
		return "", fmt.Errorf("formatting %s: %w", lang, err)
	}
	return b.String(), nil
}

// CSS returns the stylesheet for the classes emitted by HTML.
// Rules are scoped under pre so they apply to code blocks only.
func (h *highlighter) CSS() (string, error) {
	var b strings.Builder
	if err := h.formatter.WriteCSS(&b, h.style); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return strings.ReplaceAll(b.String(), ".chroma", "pre"), nil
}

// Runs splits code into coloured document runs. Adjacent tokens sharing
// the same formatting are merged.
func (h *highlighter) Runs(lang, code string) ([]docx.Run, error) {
	it, err := lexerFor(lang, code).Tokenise(nil, code)
	if err != nil {
		return nil, fmt.Errorf("tokenising %s: %w", lang, err)
	}

	var runs []docx.Run
	for _, tok := range it.Tokens() {
		entry := h.style.Get(tok.Type)
		run := docx.Run{
			Text:   tok.Value,
			Font:   codeFont,
			Bold:   entry.Bold == chroma.Yes,
			Italic: entry.Italic == chroma.Yes,
		}
		if entry.Colour.IsSet() {
			run.Color = strings.TrimPrefix(entry.Colour.String(), "#")
		}
		if n := len(runs); n > 0 && sameFormat(runs[n-1], run) {
			runs[n-1].Text += run.Text
			continue
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func sameFormat(a, b docx.Run) bool {
	return a.Font == b.Font && a.Color == b.Color && a.Bold == b.Bold && a.Italic == b.Italic
}
