package docexport

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseMarkdown - Markdown to Blocks
// ---------------------------------------------------------------------------

func TestParseMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Block
	}{
		{
			name:  "headings clamp to four levels",
			input: "# One\n\n###### Six\n",
			want:  []Block{TextBlock{Body: "One", Level: 1}, TextBlock{Body: "Six", Level: 4}},
		},
		{
			name:  "soft breaks joined",
			input: "first line\nsecond line\n",
			want:  []Block{TextBlock{Body: "first line second line"}},
		},
		{
			name:  "inline math kept raw",
			input: "Energy $E = mc^2$ holds.\n",
			want:  []Block{TextBlock{Body: "Energy $E = mc^2$ holds."}},
		},
		{
			name:  "display math paragraph",
			input: "text\n$$\nx^2\n$$\nmore\n",
			want: []Block{
				TextBlock{Body: "text"},
				EquationBlock{Body: "$$\nx^2\n$$"},
				TextBlock{Body: "more"},
			},
		},
		{
			name:  "bracket display math",
			input: "\\[\na+b\n\\]\n",
			want:  []Block{EquationBlock{Body: "$$\na+b\n$$"}},
		},
		{
			name:  "math fence",
			input: "```math\n\\frac{1}{2}\n```\n",
			want:  []Block{EquationBlock{Body: "$$\n\\frac{1}{2}\n$$"}},
		},
		{
			name:  "image with alt caption",
			input: "![Figure 1](images/a.png)\n",
			want:  []Block{ImageBlock{Path: "images/a.png", Captions: []string{"Figure 1"}}},
		},
		{
			name:  "image without alt",
			input: "![](images/a.png)\n",
			want:  []Block{ImageBlock{Path: "images/a.png"}},
		},
		{
			name:  "ordered list keeps numbers",
			input: "3. three\n4. four\n",
			want:  []Block{ListBlock{Items: []string{"3. three", "4. four"}}},
		},
		{
			name:  "nested list follows parent",
			input: "- a\n  - a1\n- b\n",
			want: []Block{
				ListBlock{Items: []string{"a", "b"}},
				ListBlock{Items: []string{"a1"}},
			},
		},
		{
			name:  "fenced code with language",
			input: "```go\nfmt.Println(1)\n```\n",
			want:  []Block{CodeBlock{Body: "fmt.Println(1)", Language: "go"}},
		},
		{
			name:  "blockquote flattened",
			input: "> quoted\n",
			want:  []Block{TextBlock{Body: "quoted"}},
		},
		{
			name:  "raw HTML table kept",
			input: "<table><tr><td>1</td></tr></table>\n",
			want:  []Block{TableBlock{HTMLBody: "<table><tr><td>1</td></tr></table>"}},
		},
		{
			name:  "thematic break dropped",
			input: "a\n\n---\n\nb\n",
			want:  []Block{TextBlock{Body: "a"}, TextBlock{Body: "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := ParseMarkdown(context.Background(), []byte(tt.input))
			if err != nil {
				t.Fatalf("ParseMarkdown() error = %v", err)
			}
			if !reflect.DeepEqual(doc.Blocks, tt.want) {
				t.Errorf("ParseMarkdown() =\n%#v\nwant\n%#v", doc.Blocks, tt.want)
			}
		})
	}
}

func TestParseMarkdown_Table(t *testing.T) {
	t.Parallel()

	doc, err := ParseMarkdown(context.Background(), []byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("blocks = %#v, want one table", doc.Blocks)
	}
	table, ok := doc.Blocks[0].(TableBlock)
	if !ok {
		t.Fatalf("block type = %T, want TableBlock", doc.Blocks[0])
	}
	for _, want := range []string{"<table>", "<th>a</th>", "<td>2</td>", "</table>"} {
		if !strings.Contains(table.HTMLBody, want) {
			t.Errorf("table HTML missing %q:\n%s", want, table.HTMLBody)
		}
	}
}

func TestParseMarkdown_FrontMatter(t *testing.T) {
	t.Parallel()

	input := "---\ntitle: Field Notes\nauthor: Survey Team\nlanguage: en\n---\n# Start\n"
	doc, err := ParseMarkdown(context.Background(), []byte(input))
	if err != nil {
		t.Fatalf("ParseMarkdown() error = %v", err)
	}

	want := Metadata{Title: "Field Notes", Author: "Survey Team", Language: "en"}
	if doc.Meta != want {
		t.Errorf("Meta = %+v, want %+v", doc.Meta, want)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0] != (TextBlock{Body: "Start", Level: 1}) {
		t.Errorf("Blocks = %#v, want the heading only", doc.Blocks)
	}
}

func TestParseMarkdown_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid front matter", func(t *testing.T) {
		t.Parallel()

		_, err := ParseMarkdown(context.Background(), []byte("---\ntitle: [unclosed\n---\nbody\n"))
		if !errors.Is(err, ErrMarkdownParse) {
			t.Errorf("ParseMarkdown() error = %v, want ErrMarkdownParse", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := ParseMarkdown(ctx, []byte("# x"))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("ParseMarkdown() error = %v, want context.Canceled", err)
		}
	})
}
