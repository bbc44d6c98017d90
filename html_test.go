package docexport

import (
	"strings"
	"testing"
)

var testPNG = &RenderAsset{Name: "a.png", Data: []byte("\x89PNG\r\n\x1a\nfake"), MIME: "image/png"}

// ---------------------------------------------------------------------------
// TestRenderHTML - Block Rendering
// ---------------------------------------------------------------------------

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	e, _ := newTestExporter(t)
	images := staticImages(map[string]*RenderAsset{"images/a.png": testPNG})

	tests := []struct {
		name    string
		blocks  []Block
		want    []string
		notWant []string
	}{
		{
			name:   "heading keeps level and line breaks",
			blocks: []Block{TextBlock{Body: "Part\nOne", Level: 2}},
			want:   []string{"<h2>Part<br/>One</h2>"},
		},
		{
			name:   "paragraph passes inline HTML",
			blocks: []Block{TextBlock{Body: "a <b>bold</b> move"}},
			want:   []string{"<p>a <b>bold</b> move</p>"},
		},
		{
			name:   "display equation escaped for MathJax",
			blocks: []Block{EquationBlock{Body: "$$x^2 + y^2 = z^2$$"}},
			want:   []string{`<div class="equation">`, "$$x^2 + y^2 = z^2$$", "</div>"},
		},
		{
			name:   "comparison operators escaped",
			blocks: []Block{EquationBlock{Body: "$$a < b$$"}},
			want:   []string{"$$a &lt; b$$"},
		},
		{
			name:   "tagged inline equation promoted to display",
			blocks: []Block{EquationBlock{Body: `\(E = mc^2 \tag{3}\)`}},
			want:   []string{"$$E = mc^2", `\tag{3}$$`},
		},
		{
			name:    "empty equation skipped",
			blocks:  []Block{EquationBlock{Body: "$$ $$"}},
			notWant: []string{`class="equation"`},
		},
		{
			name:   "ordered list",
			blocks: []Block{ListBlock{Items: []string{"1. one", "2. two"}}},
			want:   []string{"<ol>", "<li>1. one</li>", "</ol>"},
		},
		{
			name:    "one bullet makes the list unordered",
			blocks:  []Block{ListBlock{Items: []string{"1. one", "two"}}},
			want:    []string{"<ul>", "<li>two</li>"},
			notWant: []string{"<ol>"},
		},
		{
			name:   "image embedded with caption",
			blocks: []Block{ImageBlock{Path: "images/a.png", Captions: []string{"Fig. 1", "Detail"}}},
			want: []string{
				`<figure class="image">`,
				`<img src="data:image/png;base64,`,
				`alt="figure"`,
				"<figcaption>Fig. 1<br/>Detail</figcaption>",
			},
		},
		{
			name:    "unresolved image omitted",
			blocks:  []Block{ImageBlock{Path: "images/missing.png", Captions: []string{"Lost"}}},
			notWant: []string{"<figure", "Lost"},
		},
		{
			name:   "table body kept verbatim",
			blocks: []Block{TableBlock{HTMLBody: "<table><tr><td>1</td></tr></table>", Captions: []string{"Table 1"}}},
			want:   []string{"<table><tr><td>1</td></tr></table>", `<p class="table-caption">Table 1</p>`},
		},
		{
			name:   "table without body falls back to image",
			blocks: []Block{TableBlock{Path: "images/a.png"}},
			want:   []string{`alt="table"`},
		},
		{
			name:   "code escaped with language class",
			blocks: []Block{CodeBlock{Body: "if a < b {}", Language: "go", Captions: []string{"Listing 1"}}},
			want: []string{
				`<p class="code-caption">Listing 1</p>`,
				`<pre><code class="language-go">if a &lt; b {}</code></pre>`,
			},
		},
		{
			name:    "ignored block skipped",
			blocks:  []Block{IgnoredBlock{Kind: "page_number"}},
			notWant: []string{"page_number"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := e.RenderHTML(tt.blocks, images)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("RenderHTML() missing %q in:\n%s", w, got)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("RenderHTML() contains %q in:\n%s", nw, got)
				}
			}
		})
	}
}

func TestRenderHTML_BlockOrder(t *testing.T) {
	t.Parallel()

	e, _ := newTestExporter(t)
	got := e.RenderHTML([]Block{
		TextBlock{Body: "first"},
		CodeBlock{Body: "second"},
		TextBlock{Body: "third", Level: 3},
	}, nil)

	i1 := strings.Index(got, "first")
	i2 := strings.Index(got, "second")
	i3 := strings.Index(got, "third")
	if i1 >= i2 || i2 >= i3 {
		t.Errorf("block order = %d, %d, %d; want increasing", i1, i2, i3)
	}
}

// ---------------------------------------------------------------------------
// TestRenderHTML_Shell - Document Shell
// ---------------------------------------------------------------------------

func TestRenderHTML_Shell(t *testing.T) {
	t.Parallel()

	e, _ := newTestExporter(t,
		WithTitle("Q3 <Report>"),
		WithLanguage("en"),
		WithMathJaxURL("https://example.com/mathjax.js"),
	)
	got := e.RenderHTML([]Block{TextBlock{Body: "body"}}, nil)

	want := []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Q3 &lt;Report&gt;</title>",
		"<style>",
		"window.__mathReady = true",
		`<script id="MathJax-script" async src="https://example.com/mathjax.js"></script>`,
		"<p>body</p>",
	}
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("RenderHTML() missing %q", w)
		}
	}
	if strings.Contains(got, bodyMarker) {
		t.Error("RenderHTML() leaked the body marker")
	}
	if head := strings.Index(got, "</head>"); head < strings.Index(got, "<style>") {
		t.Error("stylesheet not injected in head")
	}
}

func TestRenderHTML_Highlighting(t *testing.T) {
	t.Parallel()

	e, _ := newTestExporter(t, WithCodeHighlighting("github"))
	got := e.RenderHTML([]Block{CodeBlock{Body: "func main() {}", Language: "go"}}, nil)

	if !strings.Contains(got, `<span class="kd">func</span>`) {
		t.Errorf("RenderHTML() missing highlighted keyword:\n%s", got)
	}
	if !strings.Contains(got, "pre .kd") {
		t.Error("stylesheet missing highlight classes")
	}
}
