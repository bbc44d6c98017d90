package docx

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Paragraph styles defined in styles.xml.
const (
	StyleNormal     = "Normal"
	StyleCaption    = "Caption"
	StyleListNumber = "ListNumber"
	StyleListBullet = "ListBullet"
	StyleCode       = "Code"
)

// HeadingStyle returns the style ID for heading level 1..4.
// Levels outside that range are clamped.
func HeadingStyle(level int) string {
	level = max(1, min(level, 4))
	return "Heading" + strconv.Itoa(level)
}

// Alignment is a paragraph justification value.
type Alignment string

// Paragraph alignments.
const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignJustify Alignment = "both"
)

// Run is a span of text sharing one set of character properties.
type Run struct {
	Text   string
	Font   string
	Color  string // RRGGBB, empty for automatic
	Bold   bool
	Italic bool
}

// Paragraph accumulates runs and math before being appended to a Document.
type Paragraph struct {
	style string
	align Alignment
	numID int
	body  strings.Builder
	empty bool
}

// NewParagraph creates an empty paragraph with the given style ID.
func NewParagraph(style string) *Paragraph {
	return &Paragraph{style: style, empty: true}
}

// Align sets the paragraph justification.
func (p *Paragraph) Align(a Alignment) *Paragraph {
	p.align = a
	return p
}

// AddText appends a plain run.
func (p *Paragraph) AddText(text string) *Paragraph {
	return p.AddRun(Run{Text: text})
}

// AddRun appends a formatted run. Newlines become line breaks and tabs
// become tab characters. A run with empty text is ignored.
func (p *Paragraph) AddRun(r Run) *Paragraph {
	if r.Text == "" {
		return p
	}
	p.empty = false
	b := &p.body
	b.WriteString("<w:r>")
	writeRunProperties(b, r)
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		for j, chunk := range strings.Split(line, "\t") {
			if j > 0 {
				b.WriteString("<w:tab/>")
			}
			if chunk == "" {
				continue
			}
			b.WriteString(`<w:t xml:space="preserve">`)
			escape(b, chunk)
			b.WriteString("</w:t>")
		}
	}
	b.WriteString("</w:r>")
	return p
}

// AddMath appends an Office Math fragment (<m:oMath> or <m:oMathPara>).
// The fragment must be well-formed and declare the m namespace.
func (p *Paragraph) AddMath(fragment string) *Paragraph {
	if fragment == "" {
		return p
	}
	p.empty = false
	p.body.WriteString(fragment)
	return p
}

// Empty reports whether nothing has been added to the paragraph.
func (p *Paragraph) Empty() bool {
	return p.empty
}

func (p *Paragraph) write(b *strings.Builder) {
	b.WriteString("<w:p>")
	if p.style != "" || p.align != AlignDefault || p.numID != 0 {
		b.WriteString("<w:pPr>")
		if p.style != "" {
			b.WriteString(`<w:pStyle w:val="`)
			escape(b, p.style)
			b.WriteString(`"/>`)
		}
		if p.numID != 0 {
			b.WriteString(`<w:numPr><w:ilvl w:val="0"/><w:numId w:val="`)
			b.WriteString(strconv.Itoa(p.numID))
			b.WriteString(`"/></w:numPr>`)
		}
		if p.align != AlignDefault {
			b.WriteString(`<w:jc w:val="`)
			b.WriteString(string(p.align))
			b.WriteString(`"/>`)
		}
		b.WriteString("</w:pPr>")
	}
	b.WriteString(p.body.String())
	b.WriteString("</w:p>")
}

func writeRunProperties(b *strings.Builder, r Run) {
	if r.Font == "" && r.Color == "" && !r.Bold && !r.Italic {
		return
	}
	b.WriteString("<w:rPr>")
	if r.Font != "" {
		b.WriteString(`<w:rFonts w:ascii="`)
		escape(b, r.Font)
		b.WriteString(`" w:hAnsi="`)
		escape(b, r.Font)
		b.WriteString(`" w:cs="`)
		escape(b, r.Font)
		b.WriteString(`"/>`)
	}
	if r.Bold {
		b.WriteString("<w:b/>")
	}
	if r.Italic {
		b.WriteString("<w:i/>")
	}
	if r.Color != "" {
		b.WriteString(`<w:color w:val="`)
		escape(b, r.Color)
		b.WriteString(`"/>`)
	}
	b.WriteString("</w:rPr>")
}

func escape(b *strings.Builder, s string) {
	// Writes to a strings.Builder cannot fail.
	_ = xml.EscapeText(b, []byte(s))
}
