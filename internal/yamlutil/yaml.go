// Package yamlutil decodes the YAML used by docexport: config files and
// Markdown front matter.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps the bytes accepted by a single decode.
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// Unmarshal decodes data into v, ignoring keys v has no field for.
func Unmarshal(data []byte, v any) error {
	return decode(data, v)
}

// UnmarshalStrict decodes data into v and rejects unknown keys.
func UnmarshalStrict(data []byte, v any) error {
	return decode(data, v, yaml.Strict())
}

func decode(data []byte, v any, opts ...yaml.DecodeOption) error {
	switch {
	case len(data) == 0:
		return ErrNilData
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

var fence = []byte("---")

// SplitFrontMatter decodes a leading "---" delimited YAML block into v and
// returns what follows the closing fence. Content without a closed block is
// returned unchanged and v is left untouched. An empty block is skipped.
func SplitFrontMatter(content []byte, v any) ([]byte, error) {
	lines := bytes.SplitAfter(content, []byte("\n"))
	if len(lines) < 2 || !isFence(lines[0]) {
		return content, nil
	}

	offset := len(lines[0])
	for _, line := range lines[1:] {
		if isFence(line) {
			header := content[len(lines[0]):offset]
			body := content[offset+len(line):]
			if len(bytes.TrimSpace(header)) == 0 {
				return body, nil
			}
			if err := Unmarshal(header, v); err != nil {
				return nil, err
			}
			return body, nil
		}
		offset += len(line)
	}
	return content, nil
}

// isFence reports whether line is "---", ignoring trailing blanks and CRLF.
func isFence(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t\r\n"), fence)
}
