package latex

import (
	"regexp"
	"strings"
)

// Segment is a slice of running text, either prose or a delimited math span.
type Segment struct {
	Math bool
	Text string
}

var mathSpan = regexp.MustCompile(`(?s)\$\$.*?\$\$|\$.*?\$`)

// SplitMathSegments splits text on $...$ and $$...$$ spans.
// Math segments keep their delimiters.
func SplitMathSegments(text string) []Segment {
	var parts []Segment
	last := 0
	for _, loc := range mathSpan.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			parts = append(parts, Segment{Text: text[last:loc[0]]})
		}
		parts = append(parts, Segment{Math: true, Text: text[loc[0]:loc[1]]})
		last = loc[1]
	}
	if last < len(text) {
		parts = append(parts, Segment{Text: text[last:]})
	}
	return parts
}

var textEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
	"{", `\{`,
	"}", `\}`,
	"~", `\textasciitilde{}`,
	"^", `\^{}`,
)

// EscapeText escapes LaTeX special characters in prose.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeOutsideMath escapes prose while passing math spans through verbatim.
func EscapeOutsideMath(text string) string {
	var b strings.Builder
	for _, seg := range SplitMathSegments(text) {
		if seg.Math {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString(EscapeText(seg.Text))
	}
	return b.String()
}
