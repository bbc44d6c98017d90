package docexport

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-docexport/internal/pipeline"
	"github.com/alnah/go-docexport/internal/yamlutil"
)

// maxHeadingLevel is the deepest heading a TextBlock carries.
const maxHeadingLevel = 4

// MarkdownDocument is a Markdown source converted to a content list.
type MarkdownDocument struct {
	Meta   Metadata // from the YAML front matter
	Blocks []Block
}

// markdownParser converts Markdown into blocks using goldmark.
type markdownParser struct {
	md     goldmark.Markdown
	pre    pipeline.MarkdownPreprocessor
	source []byte
	blocks []Block
}

// ParseMarkdown converts a Markdown document into a content list.
//
// Headings become text blocks with a level, $$ paragraphs and ```math
// fences become equations, a paragraph holding a single image becomes an
// image block captioned by its alt text, and GFM tables keep their HTML.
// Nested lists follow their parent list as separate blocks.
func ParseMarkdown(ctx context.Context, source []byte) (*MarkdownDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var meta Metadata
	body, err := yamlutil.SplitFrontMatter(source, &meta)
	if err != nil {
		return nil, fmt.Errorf("%w: front matter: %v", ErrMarkdownParse, err)
	}

	p := &markdownParser{
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
		pre: &pipeline.CommonMarkPreprocessor{},
	}
	p.source = []byte(p.pre.PreprocessMarkdown(ctx, string(body)))

	root := p.md.Parser().Parse(text.NewReader(p.source))
	if err := p.walk(root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMarkdownParse, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &MarkdownDocument{Meta: meta, Blocks: p.blocks}, nil
}

// walk appends a block for each child of parent.
func (p *markdownParser) walk(parent ast.Node) error {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if err := p.node(n); err != nil {
			return err
		}
	}
	return nil
}

func (p *markdownParser) node(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Heading:
		p.blocks = append(p.blocks, TextBlock{
			Body:  p.lines(n, " "),
			Level: min(n.Level, maxHeadingLevel),
		})

	case *ast.Paragraph:
		p.paragraph(n)

	case *ast.List:
		p.list(n)

	case *ast.FencedCodeBlock:
		lang := string(n.Language(p.source))
		code := strings.TrimSuffix(p.lines(n, ""), "\n")
		if lang == "math" {
			p.blocks = append(p.blocks, EquationBlock{Body: "$$\n" + code + "\n$$"})
			return nil
		}
		p.blocks = append(p.blocks, CodeBlock{Body: code, Language: lang})

	case *ast.CodeBlock:
		p.blocks = append(p.blocks, CodeBlock{Body: strings.TrimSuffix(p.lines(n, ""), "\n")})

	case *east.Table:
		var buf bytes.Buffer
		if err := p.md.Renderer().Render(&buf, p.source, n); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
		p.blocks = append(p.blocks, TableBlock{HTMLBody: strings.TrimSpace(buf.String())})

	case *ast.HTMLBlock:
		raw := strings.TrimSpace(p.lines(n, ""))
		if strings.HasPrefix(strings.ToLower(raw), "<table") {
			p.blocks = append(p.blocks, TableBlock{HTMLBody: raw})
			return nil
		}
		p.blocks = append(p.blocks, IgnoredBlock{Kind: "html"})

	case *ast.Blockquote:
		return p.walk(n)

	case *ast.ThematicBreak:
		// No content.

	default:
		p.blocks = append(p.blocks, IgnoredBlock{Kind: n.Kind().String()})
	}
	return nil
}

// paragraph maps a paragraph to an equation, an image or a text block.
// Soft line breaks are joined with a space.
func (p *markdownParser) paragraph(n *ast.Paragraph) {
	if img, ok := soleImage(n); ok {
		var captions []string
		if alt := strings.TrimSpace(p.plain(img)); alt != "" {
			captions = append(captions, alt)
		}
		p.blocks = append(p.blocks, ImageBlock{Path: string(img.Destination), Captions: captions})
		return
	}

	body := p.lines(n, "\n")
	trimmed := strings.TrimSpace(body)
	if strings.HasPrefix(trimmed, "$$") && strings.HasSuffix(trimmed, "$$") && strings.Count(trimmed, "$$") == 2 {
		p.blocks = append(p.blocks, EquationBlock{Body: trimmed})
		return
	}
	p.blocks = append(p.blocks, TextBlock{Body: strings.ReplaceAll(trimmed, "\n", " ")})
}

// list emits one list block, then its nested lists in order.
func (p *markdownParser) list(n *ast.List) {
	var items []string
	var nested []*ast.List
	index := n.Start
	for it := n.FirstChild(); it != nil; it = it.NextSibling() {
		var parts []string
		for c := it.FirstChild(); c != nil; c = c.NextSibling() {
			switch c := c.(type) {
			case *ast.List:
				nested = append(nested, c)
			case *ast.TextBlock, *ast.Paragraph:
				parts = append(parts, strings.ReplaceAll(strings.TrimSpace(p.lines(c, "\n")), "\n", " "))
			}
		}
		item := strings.Join(parts, " ")
		if n.IsOrdered() {
			item = fmt.Sprintf("%d%c %s", index, n.Marker, item)
			index++
		}
		items = append(items, item)
	}

	p.blocks = append(p.blocks, ListBlock{Items: items})
	for _, l := range nested {
		p.list(l)
	}
}

// lines returns the raw source of n's lines joined with sep. Trailing line
// breaks of each segment are dropped unless sep is empty.
func (p *markdownParser) lines(n ast.Node, sep string) string {
	segs := n.Lines()
	parts := make([]string, 0, segs.Len())
	for i := range segs.Len() {
		seg := segs.At(i)
		line := string(seg.Value(p.source))
		if sep != "" {
			line = strings.TrimRight(line, "\r\n")
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, sep)
}

// plain concatenates the text of n's descendants.
func (p *markdownParser) plain(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(p.source))
		case *ast.String:
			b.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// soleImage reports whether the paragraph holds nothing but one image.
func soleImage(n *ast.Paragraph) (*ast.Image, bool) {
	if n.ChildCount() != 1 {
		return nil, false
	}
	img, ok := n.FirstChild().(*ast.Image)
	return img, ok
}
