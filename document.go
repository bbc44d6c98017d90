package docexport

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-docexport/internal/docx"
	"github.com/alnah/go-docexport/internal/htmltext"
	"github.com/alnah/go-docexport/internal/latex"
	"github.com/alnah/go-docexport/internal/pipeline"
)

// RenderDocument renders blocks as a DOCX document. Math is embedded as
// native Office Math; expressions that cannot be converted degrade to
// plain text. Only a failure to write the container is returned, as
// ErrDocumentWrite.
func (e *Exporter) RenderDocument(blocks []Block, images ImageLoader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := e.WriteDocument(&buf, blocks, images); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteDocument renders blocks as a DOCX document written to w.
func (e *Exporter) WriteDocument(w io.Writer, blocks []Block, images ImageLoader) (int64, error) {
	doc := docx.New(docx.Properties{
		Title:   e.cfg.title,
		Creator: e.cfg.author,
		Created: e.cfg.created,
	})
	maxWidth := int64(e.cfg.imageWidth * docx.EMUPerInch)

	for i, blk := range blocks {
		switch blk := blk.(type) {
		case TextBlock:
			e.docText(doc, i, blk)

		case EquationBlock:
			e.docEquation(doc, i, blk)

		case ListBlock:
			list := doc.NewList(blk.IsOrdered())
			for _, item := range blk.Items {
				list.AddItem(htmltext.PlainText(item))
			}

		case ImageBlock:
			if !e.docPicture(doc, i, images, blk.Path, maxWidth) {
				continue
			}
			doc.Append(captionParagraph(blk.Captions))

		case TableBlock:
			e.docTable(doc, i, images, blk, maxWidth)
			doc.Append(captionParagraph(blk.Captions))

		case CodeBlock:
			if len(blk.Captions) > 0 {
				doc.Append(docx.NewParagraph(docx.StyleCaption).AddText(strings.Join(blk.Captions, " ")))
			}
			doc.Append(e.docCode(i, blk))

		default:
			e.logger.Debug("skipped block", "block", i, "type", blk.Type())
		}
	}

	n, err := doc.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrDocumentWrite, err)
	}
	return n, nil
}

// docText writes a heading or a justified paragraph. Inline math becomes
// native math runs; a paragraph left with no text and no math is dropped.
func (e *Exporter) docText(doc *docx.Document, i int, blk TextBlock) {
	style := docx.StyleNormal
	align := docx.AlignJustify
	if blk.IsHeading() {
		style = docx.HeadingStyle(blk.Level)
		align = docx.AlignDefault
	}
	p := docx.NewParagraph(style).Align(align)

	segments := latex.SplitMathSegments(blk.Body)
	if len(segments) == 1 && !segments[0].Math {
		text := htmltext.PlainText(segments[0].Text)
		if strings.TrimSpace(text) == "" {
			return
		}
		doc.Append(p.AddText(text))
		return
	}

	var content bool
	for _, seg := range segments {
		if !seg.Math {
			text := htmltext.PlainText(seg.Text)
			content = content || strings.TrimSpace(text) != ""
			p.AddText(text)
			continue
		}
		expr, _ := e.math.Extract(unwrapDollar(seg.Text))
		if expr == "" {
			continue
		}
		frag, err := e.chain.Render(expr, true)
		if err != nil {
			e.logger.Debug("inline math fallback", "block", i, "expr", expr, "err", err)
			text := pipeline.PlainText(expr)
			content = content || text != ""
			p.AddText(text)
			continue
		}
		content = true
		p.AddMath(frag.XML)
		if frag.Tag != "" {
			p.AddText(latex.WithTag("", frag.Tag))
		}
	}
	if !content {
		e.logger.Debug("skipped empty paragraph", "block", i)
		return
	}
	doc.Append(p)
}

// unwrapDollar removes the delimiters of a $...$ span. $$ spans are left
// for Extract.
func unwrapDollar(span string) string {
	if len(span) >= 2 && span[0] == '$' && span[len(span)-1] == '$' && !strings.HasPrefix(span, "$$") {
		return span[1 : len(span)-1]
	}
	return span
}

// docEquation writes a centered math paragraph, or the plain-text fallback
// centered as ordinary text.
func (e *Exporter) docEquation(doc *docx.Document, i int, blk EquationBlock) {
	expr, _ := e.math.Extract(blk.Body)
	if expr == "" {
		e.logger.Debug("skipped empty equation", "block", i)
		return
	}

	p := docx.NewParagraph(docx.StyleNormal).Align(docx.AlignCenter)
	frag, err := e.chain.Render(expr, false)
	if err != nil {
		e.logger.Debug("equation fallback", "block", i, "expr", expr, "err", err)
		text := pipeline.PlainText(expr)
		if text == "" {
			text = expr
		}
		doc.Append(p.AddText(text))
		return
	}
	p.AddMath(frag.XML)
	if frag.Tag != "" {
		p.AddText(latex.WithTag("", frag.Tag))
	}
	doc.Append(p)
}

// docPicture embeds an image centered. It reports whether the image was
// added.
func (e *Exporter) docPicture(doc *docx.Document, i int, images ImageLoader, path string, maxWidth int64) bool {
	asset, ok := images.load(path)
	if !ok {
		e.logger.Debug("skipped unresolved image", "block", i, "path", path)
		return false
	}
	if err := doc.AddPicture(asset.Data, maxWidth, docx.AlignCenter); err != nil {
		e.logger.Debug("skipped undecodable image", "block", i, "path", path, "err", err)
		return false
	}
	return true
}

// docTable writes a native table when the HTML body has rows, otherwise the
// table image.
func (e *Exporter) docTable(doc *docx.Document, i int, images ImageLoader, blk TableBlock, maxWidth int64) {
	if blk.HTMLBody != "" {
		rows := htmltext.Grid(htmltext.ParseTable(blk.HTMLBody))
		if rows != nil && len(rows[0]) > 0 {
			for _, row := range rows {
				for c, cell := range row {
					row[c] = strings.TrimSpace(htmltext.PlainText(cell))
				}
			}
			doc.AddTable(rows, docx.TableStyleLightList)
			return
		}
		e.logger.Debug("table has no rows", "block", i)
	}
	if blk.Path != "" {
		e.docPicture(doc, i, images, blk.Path, maxWidth)
	}
}

// docCode writes code in a monospace paragraph, coloured when
// highlighting is enabled.
func (e *Exporter) docCode(i int, blk CodeBlock) *docx.Paragraph {
	p := docx.NewParagraph(docx.StyleCode)
	if e.highlighter != nil {
		runs, err := e.highlighter.Runs(blk.Language, blk.Body)
		if err == nil {
			for _, r := range runs {
				p.AddRun(r)
			}
			return p
		}
		e.logger.Debug("highlighting failed", "block", i, "language", blk.Language, "err", err)
	}
	return p.AddRun(docx.Run{Text: blk.Body, Font: codeFont})
}

// captionParagraph joins captions with spaces into a centered paragraph.
// It returns nil when there are no captions.
func captionParagraph(captions []string) *docx.Paragraph {
	if len(captions) == 0 {
		return nil
	}
	return docx.NewParagraph(docx.StyleCaption).
		Align(docx.AlignCenter).
		AddText(strings.Join(captions, " "))
}
