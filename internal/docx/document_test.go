package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

// readParts unzips a serialized document into part name -> content.
func readParts(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(content)
	}
	return parts
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// TestDocument - Container layout
// ---------------------------------------------------------------------------

func TestDocument_Parts(t *testing.T) {
	t.Parallel()

	doc := New(Properties{Title: "Report <1>", Created: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})
	doc.Append(NewParagraph(StyleNormal).AddText("hello"))

	data, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	parts := readParts(t, data)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"word/document.xml",
		"word/styles.xml",
		"word/numbering.xml",
		"word/_rels/document.xml.rels",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}

	core := parts["docProps/core.xml"]
	if !strings.Contains(core, "<dc:title>Report &lt;1&gt;</dc:title>") {
		t.Errorf("core.xml = %s, want escaped title", core)
	}
	if !strings.Contains(core, "2024-01-02T03:04:05Z") {
		t.Errorf("core.xml = %s, want created timestamp", core)
	}

	styles := parts["word/styles.xml"]
	for _, want := range []string{`w:styleId="Heading4"`, `w:val="List Number"`, `w:val="Light List Accent 1"`} {
		if !strings.Contains(styles, want) {
			t.Errorf("styles.xml missing %s", want)
		}
	}
}

func TestDocument_WriteToCountsBytes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := New(Properties{}).WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo() = %d, want %d", n, buf.Len())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestDocument_WriteError(t *testing.T) {
	t.Parallel()

	_, err := New(Properties{}).WriteTo(failingWriter{})
	if !errors.Is(err, ErrWrite) {
		t.Errorf("WriteTo() error = %v, want ErrWrite", err)
	}
}

// ---------------------------------------------------------------------------
// TestParagraph - Runs, math and properties
// ---------------------------------------------------------------------------

func TestParagraph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    *Paragraph
		want []string
	}{
		{
			name: "justified text",
			p:    NewParagraph(StyleNormal).Align(AlignJustify).AddText("a & b"),
			want: []string{`<w:pStyle w:val="Normal"/>`, `<w:jc w:val="both"/>`, `<w:t xml:space="preserve">a &amp; b</w:t>`},
		},
		{
			name: "newline becomes break",
			p:    NewParagraph("").AddText("a\nb"),
			want: []string{`a</w:t><w:br/><w:t xml:space="preserve">b`},
		},
		{
			name: "tab preserved",
			p:    NewParagraph("").AddText("a\tb"),
			want: []string{`a</w:t><w:tab/><w:t xml:space="preserve">b`},
		},
		{
			name: "formatted run",
			p:    NewParagraph(StyleCode).AddRun(Run{Text: "x", Font: "Courier New", Color: "FF0000", Bold: true, Italic: true}),
			want: []string{`<w:rFonts w:ascii="Courier New" w:hAnsi="Courier New" w:cs="Courier New"/>`, `<w:b/>`, `<w:i/>`, `<w:color w:val="FF0000"/>`},
		},
		{
			name: "math fragment verbatim",
			p:    NewParagraph("").AddMath(`<m:oMath><m:r><m:t>x</m:t></m:r></m:oMath>`),
			want: []string{`<w:p><m:oMath><m:r><m:t>x</m:t></m:r></m:oMath></w:p>`},
		},
		{
			name: "heading style",
			p:    NewParagraph(HeadingStyle(2)).AddText("T"),
			want: []string{`<w:pStyle w:val="Heading2"/>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var b strings.Builder
			tt.p.write(&b)
			got := b.String()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("paragraph = %s, want substring %s", got, want)
				}
			}
		})
	}
}

func TestParagraph_Empty(t *testing.T) {
	t.Parallel()

	doc := New(Properties{})
	doc.Append(NewParagraph(StyleNormal).AddText("").AddMath(""))
	if doc.body.Len() != 0 {
		t.Errorf("body = %s, want empty paragraph dropped", doc.body.String())
	}
}

func TestHeadingStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level int
		want  string
	}{
		{1, "Heading1"},
		{4, "Heading4"},
		{0, "Heading1"},
		{9, "Heading4"},
	}

	for _, tt := range tests {
		if got := HeadingStyle(tt.level); got != tt.want {
			t.Errorf("HeadingStyle(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestList - Numbering instances
// ---------------------------------------------------------------------------

func TestList_NumberingRestarts(t *testing.T) {
	t.Parallel()

	doc := New(Properties{})
	first := doc.NewList(true)
	first.AddItem("1. one")
	bullets := doc.NewList(false)
	bullets.AddItem("dot")
	second := doc.NewList(true)
	second.AddItem("1. again")

	body := doc.body.String()
	for _, want := range []string{
		`<w:pStyle w:val="ListNumber"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="2"/>`,
		`<w:pStyle w:val="ListBullet"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/>`,
		`<w:numId w:val="3"/>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s", want)
		}
	}

	numbering := doc.numbering()
	if got := strings.Count(numbering, "<w:startOverride"); got != 2 {
		t.Errorf("startOverride count = %d, want 2", got)
	}
}

// ---------------------------------------------------------------------------
// TestAddPicture - Image embedding
// ---------------------------------------------------------------------------

func TestAddPicture(t *testing.T) {
	t.Parallel()

	t.Run("wide picture scaled to max width", func(t *testing.T) {
		t.Parallel()

		doc := New(Properties{})
		if err := doc.AddPicture(encodePNG(t, 2000, 1000), 6*EMUPerInch, AlignCenter); err != nil {
			t.Fatalf("AddPicture() error = %v", err)
		}
		body := doc.body.String()
		if !strings.Contains(body, `<wp:extent cx="5486400" cy="2743200"/>`) {
			t.Errorf("body = %s, want scaled extent", body)
		}
		if !strings.Contains(body, `r:embed="rId3"`) {
			t.Errorf("body = %s, want first picture relationship rId3", body)
		}

		data, err := doc.Bytes()
		if err != nil {
			t.Fatalf("Bytes() error = %v", err)
		}
		parts := readParts(t, data)
		if _, ok := parts["word/media/image1.png"]; !ok {
			t.Error("missing word/media/image1.png")
		}
		if !strings.Contains(parts["[Content_Types].xml"], `Extension="png" ContentType="image/png"`) {
			t.Error("content types missing png default")
		}
		if !strings.Contains(parts["word/_rels/document.xml.rels"], `Target="media/image1.png"`) {
			t.Error("document rels missing picture target")
		}
	})

	t.Run("small picture keeps natural size", func(t *testing.T) {
		t.Parallel()

		doc := New(Properties{})
		if err := doc.AddPicture(encodePNG(t, 10, 20), 6*EMUPerInch, AlignDefault); err != nil {
			t.Fatalf("AddPicture() error = %v", err)
		}
		if !strings.Contains(doc.body.String(), `cx="95250" cy="190500"`) {
			t.Errorf("body = %s, want natural extent", doc.body.String())
		}
	})

	t.Run("bmp embedded natively", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
			t.Fatalf("bmp.Encode() error = %v", err)
		}
		doc := New(Properties{})
		if err := doc.AddPicture(buf.Bytes(), 0, AlignDefault); err != nil {
			t.Fatalf("AddPicture() error = %v", err)
		}
		if doc.media[0].ext != "bmp" {
			t.Errorf("media ext = %q, want bmp", doc.media[0].ext)
		}
	})

	t.Run("undecodable data rejected", func(t *testing.T) {
		t.Parallel()

		doc := New(Properties{})
		err := doc.AddPicture([]byte("not an image"), 6*EMUPerInch, AlignCenter)
		if !errors.Is(err, ErrInvalidImage) {
			t.Fatalf("AddPicture() error = %v, want ErrInvalidImage", err)
		}
		if doc.body.Len() != 0 || len(doc.media) != 0 {
			t.Error("document changed after rejected picture")
		}
	})
}

// ---------------------------------------------------------------------------
// TestAddTable - Grid tables
// ---------------------------------------------------------------------------

func TestAddTable(t *testing.T) {
	t.Parallel()

	doc := New(Properties{})
	doc.AddTable([][]string{{"a", "b"}, {"1"}, {"x", "y", "z"}}, TableStyleLightList)
	body := doc.body.String()

	if got := strings.Count(body, "<w:gridCol "); got != 2 {
		t.Errorf("gridCol count = %d, want 2", got)
	}
	if got := strings.Count(body, "<w:tc>"); got != 6 {
		t.Errorf("cell count = %d, want 6", got)
	}
	if strings.Contains(body, ">z<") {
		t.Error("extra cell not truncated")
	}
	if !strings.Contains(body, `<w:tblStyle w:val="LightList-Accent1"/>`) {
		t.Error("table style missing")
	}
	if got := strings.Count(body, "<w:p>"); got != 6 {
		t.Errorf("paragraph count = %d, want one per cell", got)
	}
}

func TestAddTable_Empty(t *testing.T) {
	t.Parallel()

	doc := New(Properties{})
	doc.AddTable(nil, "")
	doc.AddTable([][]string{{}}, "")
	if doc.body.Len() != 0 {
		t.Errorf("body = %s, want nothing for empty tables", doc.body.String())
	}
}
