package docexport

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/alnah/go-docexport/internal/latex"
)

// htmlEscaper escapes text for element content. Quotes are left alone.
var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// RenderHTML renders blocks as a standalone HTML document. Math is left as
// escaped $...$ or $$...$$ for MathJax to typeset in the browser.
// Images are embedded as data URIs; unresolvable images are omitted.
func (e *Exporter) RenderHTML(blocks []Block, images ImageLoader) string {
	var b strings.Builder
	b.WriteString(e.shellHead)
	b.WriteString(strings.Join(e.htmlBody(blocks, images), "\n"))
	b.WriteString(e.shellTail)
	return b.String()
}

func (e *Exporter) htmlBody(blocks []Block, images ImageLoader) []string {
	var body []string
	for i, blk := range blocks {
		switch blk := blk.(type) {
		case TextBlock:
			text := strings.ReplaceAll(blk.Body, "\n", "<br/>")
			if blk.IsHeading() {
				tag := "h" + strconv.Itoa(blk.Level)
				body = append(body, "<"+tag+">"+text+"</"+tag+">")
			} else {
				body = append(body, "<p>"+text+"</p>")
			}

		case EquationBlock:
			expr, display := e.math.Extract(blk.Body)
			if expr == "" {
				e.logger.Debug("skipped empty equation", "block", i)
				continue
			}
			wrapped := "$" + expr + "$"
			if display || latex.HasTag(expr) {
				wrapped = "$$" + expr + "$$"
			}
			body = append(body, `<div class="equation">`, htmlEscaper.Replace(wrapped), "</div>")

		case ListBlock:
			if len(blk.Items) == 0 {
				continue
			}
			tag := "ul"
			if blk.IsOrdered() {
				tag = "ol"
			}
			body = append(body, "<"+tag+">")
			for _, item := range blk.Items {
				body = append(body, "<li>"+item+"</li>")
			}
			body = append(body, "</"+tag+">")

		case ImageBlock:
			asset, ok := images.load(blk.Path)
			if !ok {
				e.logger.Debug("skipped unresolved image", "block", i, "path", blk.Path)
				continue
			}
			body = append(body, `<figure class="image">`, `<img src="`+dataURI(asset)+`" alt="figure"/>`)
			if len(blk.Captions) > 0 {
				body = append(body, "<figcaption>"+strings.Join(blk.Captions, "<br/>")+"</figcaption>")
			}
			body = append(body, "</figure>")

		case TableBlock:
			if blk.HTMLBody != "" {
				body = append(body, blk.HTMLBody)
			} else if asset, ok := images.load(blk.Path); ok {
				body = append(body, `<img src="`+dataURI(asset)+`" alt="table"/>`)
			} else if blk.Path != "" {
				e.logger.Debug("skipped unresolved table image", "block", i, "path", blk.Path)
			}
			if len(blk.Captions) > 0 {
				body = append(body, `<p class="table-caption">`+strings.Join(blk.Captions, "<br/>")+"</p>")
			}

		case CodeBlock:
			if len(blk.Captions) > 0 {
				body = append(body, `<p class="code-caption">`+strings.Join(blk.Captions, "<br/>")+"</p>")
			}
			code := htmlEscaper.Replace(blk.Body)
			if e.highlighter != nil {
				if hl, err := e.highlighter.HTML(blk.Language, blk.Body); err == nil {
					code = hl
				} else {
					e.logger.Debug("highlighting failed", "block", i, "language", blk.Language, "err", err)
				}
			}
			class := htmlEscaper.Replace(strings.ReplaceAll(blk.Language, `"`, ""))
			body = append(body, `<pre><code class="language-`+class+`">`+code+"</code></pre>")

		default:
			e.logger.Debug("skipped block", "block", i, "type", blk.Type())
		}
	}
	return body
}

func dataURI(asset *RenderAsset) string {
	return "data:" + asset.MIME + ";base64," + base64.StdEncoding.EncodeToString(asset.Data)
}
