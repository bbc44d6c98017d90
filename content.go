package docexport

import (
	"encoding/json"
	"fmt"
	"io"
)

// contentItem is one entry of a content list as written by the extraction
// pipeline. Keys the renderers do not use (bbox, page_idx, footnotes) are
// ignored.
type contentItem struct {
	Type         string   `json:"type"`
	Text         string   `json:"text"`
	TextLevel    int      `json:"text_level"`
	ListItems    []string `json:"list_items"`
	ImgPath      string   `json:"img_path"`
	ImageCaption []string `json:"image_caption"`
	TableBody    string   `json:"table_body"`
	TableCaption []string `json:"table_caption"`
	CodeBody     string   `json:"code_body"`
	GuessLang    string   `json:"guess_lang"`
	CodeCaption  []string `json:"code_caption"`
}

// DecodeContentList reads a JSON content list. Unknown block types decode
// to IgnoredBlock so block order is preserved.
func DecodeContentList(r io.Reader) ([]Block, error) {
	var items []contentItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentDecode, err)
	}

	blocks := make([]Block, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, item.block())
	}
	return blocks, nil
}

func (it contentItem) block() Block {
	switch it.Type {
	case TypeText:
		return TextBlock{Body: it.Text, Level: it.TextLevel}
	case TypeEquation:
		return EquationBlock{Body: it.Text}
	case TypeList:
		return ListBlock{Items: it.ListItems}
	case TypeImage:
		return ImageBlock{Path: it.ImgPath, Captions: it.ImageCaption}
	case TypeTable:
		return TableBlock{HTMLBody: it.TableBody, Path: it.ImgPath, Captions: it.TableCaption}
	case TypeCode:
		return CodeBlock{Body: it.CodeBody, Language: it.GuessLang, Captions: it.CodeCaption}
	default:
		return IgnoredBlock{Kind: it.Type}
	}
}

// EncodeContentList writes blocks in the content list JSON format.
// IgnoredBlock entries keep only their type.
func EncodeContentList(w io.Writer, blocks []Block) error {
	items := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		item := map[string]any{"type": b.Type()}
		switch b := b.(type) {
		case TextBlock:
			item["text"] = b.Body
			if b.Level > 0 {
				item["text_level"] = b.Level
			}
		case EquationBlock:
			item["text"] = b.Body
			item["text_format"] = "latex"
		case ListBlock:
			item["list_items"] = b.Items
		case ImageBlock:
			item["img_path"] = b.Path
			item["image_caption"] = nonNil(b.Captions)
		case TableBlock:
			if b.HTMLBody != "" {
				item["table_body"] = b.HTMLBody
			}
			if b.Path != "" {
				item["img_path"] = b.Path
			}
			item["table_caption"] = nonNil(b.Captions)
		case CodeBlock:
			item["code_body"] = b.Body
			item["guess_lang"] = b.Language
			item["code_caption"] = nonNil(b.Captions)
		}
		items = append(items, item)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
