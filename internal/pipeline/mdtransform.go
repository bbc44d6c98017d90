package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Display math written as \[ ... \] on its own lines
	bracketDisplay = regexp.MustCompile(`(?ms)^[ \t]*\\\[(.*?)\\\][ \t]*$`)

	// A $$ fence line glued to surrounding text
	displayFence = regexp.MustCompile(`(?m)^[ \t]*\$\$[ \t]*$`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor prepares Markdown exported by the extraction
// pipeline for block parsing.
type CommonMarkPreprocessor struct{}

// Compile-time interface check.
var _ MarkdownPreprocessor = (*CommonMarkPreprocessor)(nil)

// PreprocessMarkdown normalizes line endings, rewrites \[...\] display math
// to $$ fences and isolates each $$ fence line so display math always forms
// its own paragraph.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = bracketDisplay.ReplaceAllStringFunc(content, func(m string) string {
		inner := bracketDisplay.FindStringSubmatch(m)[1]
		return "$$\n" + strings.TrimSpace(inner) + "\n$$"
	})
	content = isolateDisplayMath(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// isolateDisplayMath surrounds fenced display math with blank lines.
// Opening fences get a blank line before, closing fences one after.
func isolateDisplayMath(content string) string {
	locs := displayFence.FindAllStringIndex(content, -1)
	if len(locs) < 2 {
		return content
	}

	out := make([]byte, 0, len(content)+2*len(locs))
	last := 0
	for i, loc := range locs {
		if i%2 == 0 {
			out = append(out, content[last:loc[0]]...)
			out = append(out, '\n')
			out = append(out, "$$"...)
		} else {
			out = append(out, content[last:loc[0]]...)
			out = append(out, "$$"...)
			out = append(out, '\n')
		}
		last = loc[1]
	}
	out = append(out, content[last:]...)
	return string(out)
}
