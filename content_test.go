package docexport

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleContentList = `[
  {"type": "text", "text": "Introduction", "text_level": 1, "page_idx": 0},
  {"type": "text", "text": "Energy is $E = mc^2$.", "bbox": [1, 2, 3, 4]},
  {"type": "equation", "text": "$$\\frac{a}{b} \\tag{1}$$", "text_format": "latex"},
  {"type": "list", "list_items": ["1. one", "2. two"]},
  {"type": "image", "img_path": "images/a.png", "image_caption": ["Figure 1"], "image_footnote": []},
  {"type": "table", "img_path": "images/t.png", "table_body": "<table><tr><td>a</td></tr></table>", "table_caption": ["Table 1"]},
  {"type": "code", "code_body": "print(1)", "guess_lang": "python", "code_caption": []},
  {"type": "page_footnote", "text": "ignored"}
]`

// ---------------------------------------------------------------------------
// TestDecodeContentList - JSON Content Lists
// ---------------------------------------------------------------------------

func TestDecodeContentList(t *testing.T) {
	t.Parallel()

	blocks, err := DecodeContentList(strings.NewReader(sampleContentList))
	if err != nil {
		t.Fatalf("DecodeContentList() error = %v", err)
	}

	want := []Block{
		TextBlock{Body: "Introduction", Level: 1},
		TextBlock{Body: "Energy is $E = mc^2$."},
		EquationBlock{Body: `$$\frac{a}{b} \tag{1}$$`},
		ListBlock{Items: []string{"1. one", "2. two"}},
		ImageBlock{Path: "images/a.png", Captions: []string{"Figure 1"}},
		TableBlock{HTMLBody: "<table><tr><td>a</td></tr></table>", Path: "images/t.png", Captions: []string{"Table 1"}},
		CodeBlock{Body: "print(1)", Language: "python", Captions: []string{}},
		IgnoredBlock{Kind: "page_footnote"},
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("DecodeContentList() =\n%#v\nwant\n%#v", blocks, want)
	}
}

func TestDecodeContentList_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "not JSON", input: "# heading"},
		{name: "object instead of array", input: `{"type": "text"}`},
		{name: "wrong field type", input: `[{"type": "text", "text_level": "one"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeContentList(strings.NewReader(tt.input))
			if !errors.Is(err, ErrContentDecode) {
				t.Errorf("DecodeContentList() error = %v, want ErrContentDecode", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestEncodeContentList - Content List Output
// ---------------------------------------------------------------------------

func TestEncodeContentList(t *testing.T) {
	t.Parallel()

	blocks := []Block{
		TextBlock{Body: "Title & <b>more</b>", Level: 2},
		EquationBlock{Body: "$$x$$"},
		ImageBlock{Path: "a.png"},
		IgnoredBlock{Kind: "aside_text"},
	}

	var buf bytes.Buffer
	if err := EncodeContentList(&buf, blocks); err != nil {
		t.Fatalf("EncodeContentList() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"Title & <b>more</b>"`) {
		t.Errorf("output escapes HTML:\n%s", out)
	}
	if !strings.Contains(out, `"image_caption": []`) {
		t.Errorf("output missing empty caption list:\n%s", out)
	}

	var items []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &items); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if items[1]["text_format"] != "latex" {
		t.Errorf("equation text_format = %v, want latex", items[1]["text_format"])
	}
	if len(items[3]) != 1 || items[3]["type"] != "aside_text" {
		t.Errorf("ignored block = %v, want type only", items[3])
	}

	decoded, err := DecodeContentList(&buf)
	if err != nil {
		t.Fatalf("DecodeContentList() error = %v", err)
	}
	if got := decoded[0]; got != blocks[0] {
		t.Errorf("decoded heading = %#v, want %#v", got, blocks[0])
	}
}
