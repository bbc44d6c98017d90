package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// XML namespaces used in DOCX parts.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsM   = "http://schemas.openxmlformats.org/officeDocument/2006/math"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// textWidth is the usable page width in twentieths of a point (6 inches).
const textWidth = 8640

// ErrWrite indicates the document container could not be written.
var ErrWrite = errors.New("writing document")

// Properties are the core document properties.
type Properties struct {
	Title   string
	Creator string
	Created time.Time
}

type part struct {
	name string
	data []byte
}

type media struct {
	name string
	data []byte
	ext  string
	mime string
}

// Document is an in-memory word-processing document.
// A Document is not safe for concurrent use.
type Document struct {
	props   Properties
	body    strings.Builder
	media   []media
	lists   int
	drawing int
}

// New creates an empty document.
func New(props Properties) *Document {
	return &Document{props: props}
}

// Append adds p to the body. Empty paragraphs are dropped.
func (d *Document) Append(p *Paragraph) {
	if p == nil || p.Empty() {
		return
	}
	p.write(&d.body)
}

// List groups paragraphs into one numbered or bulleted list.
type List struct {
	doc     *Document
	ordered bool
	numID   int
}

// bulletNumID is the shared numbering instance for bulleted lists.
const bulletNumID = 1

// NewList starts a list. Each ordered list restarts its numbering at 1.
func (d *Document) NewList(ordered bool) *List {
	l := &List{doc: d, ordered: ordered, numID: bulletNumID}
	if ordered {
		d.lists++
		l.numID = bulletNumID + d.lists
	}
	return l
}

// AddItem appends one list item paragraph.
func (l *List) AddItem(text string) {
	style := StyleListBullet
	if l.ordered {
		style = StyleListNumber
	}
	p := NewParagraph(style).AddText(text)
	p.numID = l.numID
	l.doc.Append(p)
}

// AddPicture embeds an image in its own paragraph, scaled down to at most
// maxWidth EMU. Undecodable data returns ErrInvalidImage and leaves the
// document unchanged.
func (d *Document) AddPicture(data []byte, maxWidth int64, align Alignment) error {
	pic, err := decodePicture(data)
	if err != nil {
		return err
	}

	d.drawing++
	id := strconv.Itoa(d.drawing)
	name := "image" + id + "." + pic.ext
	d.media = append(d.media, media{name: name, data: pic.data, ext: pic.ext, mime: pic.mime})
	rel := pictureRelID(len(d.media))
	cx, cy := pic.extent(maxWidth)
	ext := `cx="` + strconv.FormatInt(cx, 10) + `" cy="` + strconv.FormatInt(cy, 10) + `"`

	p := NewParagraph("").Align(align)
	p.empty = false
	b := &p.body
	b.WriteString(`<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`)
	b.WriteString(`<wp:extent ` + ext + `/>`)
	b.WriteString(`<wp:docPr id="` + id + `" name="Picture ` + id + `"/>`)
	b.WriteString(`<wp:cNvGraphicFramePr><a:graphicFrameLocks noChangeAspect="1"/></wp:cNvGraphicFramePr>`)
	b.WriteString(`<a:graphic><a:graphicData uri="` + nsPic + `"><pic:pic>`)
	b.WriteString(`<pic:nvPicPr><pic:cNvPr id="` + id + `" name="` + name + `"/><pic:cNvPicPr/></pic:nvPicPr>`)
	b.WriteString(`<pic:blipFill><a:blip r:embed="` + rel + `"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`)
	b.WriteString(`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext ` + ext + `/></a:xfrm>`)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`)
	b.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r>`)
	d.Append(p)
	return nil
}

// AddTable appends a table. Rows are padded or truncated to the column
// count of the first row. Cell text is written as plain runs.
func (d *Document) AddTable(rows [][]string, style string) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}
	cols := len(rows[0])
	colWidth := strconv.Itoa(textWidth / cols)

	b := &d.body
	b.WriteString("<w:tbl><w:tblPr>")
	if style != "" {
		b.WriteString(`<w:tblStyle w:val="`)
		escape(b, style)
		b.WriteString(`"/>`)
	}
	b.WriteString(`<w:tblW w:w="0" w:type="auto"/>`)
	b.WriteString(`<w:tblLook w:val="04A0" w:firstRow="1" w:lastRow="0" w:firstColumn="1" w:lastColumn="0" w:noHBand="0" w:noVBand="1"/>`)
	b.WriteString("</w:tblPr><w:tblGrid>")
	for range cols {
		b.WriteString(`<w:gridCol w:w="` + colWidth + `"/>`)
	}
	b.WriteString("</w:tblGrid>")
	for _, row := range rows {
		b.WriteString("<w:tr>")
		for c := range cols {
			var text string
			if c < len(row) {
				text = row[c]
			}
			b.WriteString(`<w:tc><w:tcPr><w:tcW w:w="` + colWidth + `" w:type="dxa"/></w:tcPr>`)
			// A cell must hold at least one paragraph, even an empty one.
			cell := NewParagraph("").AddText(text)
			cell.write(b)
			b.WriteString("</w:tc>")
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
}

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo serializes the document as a DOCX container.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	parts := []part{
		{"[Content_Types].xml", []byte(d.contentTypes())},
		{"_rels/.rels", []byte(packageRels)},
		{"docProps/core.xml", []byte(d.coreProperties())},
		{"docProps/app.xml", []byte(appProperties)},
		{"word/document.xml", []byte(d.document())},
		{"word/styles.xml", []byte(stylesXML)},
		{"word/numbering.xml", []byte(d.numbering())},
		{"word/_rels/document.xml.rels", []byte(d.documentRels())},
	}
	for _, m := range d.media {
		parts = append(parts, part{"word/media/" + m.name, m.data})
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return cw.n, fmt.Errorf("%w: %s: %v", ErrWrite, part.name, err)
		}
		if _, err := f.Write(part.data); err != nil {
			return cw.n, fmt.Errorf("%w: %s: %v", ErrWrite, part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return cw.n, nil
}

func (d *Document) document() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="` + nsW + `" xmlns:r="` + nsR + `" xmlns:m="` + nsM +
		`" xmlns:wp="` + nsWP + `" xmlns:a="` + nsA + `" xmlns:pic="` + nsPic + `"><w:body>`)
	b.WriteString(d.body.String())
	b.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>`)
	b.WriteString(`<w:pgMar w:top="1440" w:right="1800" w:bottom="1440" w:left="1800" w:header="720" w:footer="720" w:gutter="0"/>`)
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.String()
}

func (d *Document) contentTypes() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	seen := make(map[string]bool)
	for _, m := range d.media {
		if seen[m.ext] {
			continue
		}
		seen[m.ext] = true
		b.WriteString(`<Default Extension="` + m.ext + `" ContentType="` + m.mime + `"/>`)
	}
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	b.WriteString(`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

func (d *Document) documentRels() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="` + nsR + `/styles" Target="styles.xml"/>`)
	b.WriteString(`<Relationship Id="rId2" Type="` + nsR + `/numbering" Target="numbering.xml"/>`)
	for i, m := range d.media {
		b.WriteString(`<Relationship Id="` + pictureRelID(i+1) + `" Type="` + nsR + `/image" Target="media/` + m.name + `"/>`)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func (d *Document) coreProperties() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"`)
	b.WriteString(` xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"`)
	b.WriteString(` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	if d.props.Title != "" {
		b.WriteString("<dc:title>")
		escape(&b, d.props.Title)
		b.WriteString("</dc:title>")
	}
	if d.props.Creator != "" {
		b.WriteString("<dc:creator>")
		escape(&b, d.props.Creator)
		b.WriteString("</dc:creator>")
	}
	if !d.props.Created.IsZero() {
		stamp := d.props.Created.UTC().Format(time.RFC3339)
		b.WriteString(`<dcterms:created xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:created>`)
	}
	b.WriteString(`</cp:coreProperties>`)
	return b.String()
}

// numbering declares one bullet instance and one restarting decimal
// instance per ordered list.
func (d *Document) numbering() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:numbering xmlns:w="` + nsW + `">`)
	b.WriteString(abstractBullet)
	b.WriteString(abstractDecimal)
	b.WriteString(`<w:num w:numId="` + strconv.Itoa(bulletNumID) + `"><w:abstractNumId w:val="0"/></w:num>`)
	for i := 1; i <= d.lists; i++ {
		b.WriteString(`<w:num w:numId="` + strconv.Itoa(bulletNumID+i) + `"><w:abstractNumId w:val="1"/>`)
		b.WriteString(`<w:lvlOverride w:ilvl="0"><w:startOverride w:val="1"/></w:lvlOverride></w:num>`)
	}
	b.WriteString(`</w:numbering>`)
	return b.String()
}

// pictureRelID numbers picture relationships after styles and numbering.
func pictureRelID(n int) string {
	return "rId" + strconv.Itoa(n+2)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
