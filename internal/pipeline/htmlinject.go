package pipeline

import (
	"context"
	"strings"
)

// HeadInjector defines the contract for adding style and script elements to
// an HTML document.
type HeadInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
	InjectScript(ctx context.Context, htmlContent, script, src string) string
}

// HeadInjection inserts <style> and <script> blocks into HTML content.
type HeadInjection struct{}

// Compile-time interface check.
var _ HeadInjector = (*HeadInjection)(nil)

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style element.
func (s *HeadInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}
	if ctx.Err() != nil {
		return htmlContent
	}
	return insertInHead(htmlContent, "<style>"+sanitizeCSS(cssContent)+"</style>")
}

// InjectScript inserts an inline script followed by an external script
// reference. Either may be empty.
func (s *HeadInjection) InjectScript(ctx context.Context, htmlContent, script, src string) string {
	if script == "" && src == "" {
		return htmlContent
	}
	if ctx.Err() != nil {
		return htmlContent
	}

	var block strings.Builder
	if script != "" {
		block.WriteString("<script>")
		block.WriteString(sanitizeScript(script))
		block.WriteString("</script>")
	}
	if src != "" {
		block.WriteString(`<script id="MathJax-script" async src="`)
		block.WriteString(strings.ReplaceAll(src, `"`, "%22"))
		block.WriteString(`"></script>`)
	}
	return insertInHead(htmlContent, block.String())
}

// insertInHead places block before </head>, after <body ...>, or in front.
func insertInHead(htmlContent, block string) string {
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + block + htmlContent[insertPos:]
		}
	}

	return block + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// sanitizeScript escapes sequences that could break out of a <script> block.
func sanitizeScript(script string) string {
	return strings.ReplaceAll(script, "</", `<\/`)
}
