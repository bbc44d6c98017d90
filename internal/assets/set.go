package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidName      = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
)

// Kind is an asset family: a subdirectory plus a file extension.
type Kind struct {
	dir      string
	ext      string
	notFound error
}

// Asset families.
var (
	Style    = Kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	Template = Kind{dir: "templates", ext: ".tmpl", notFound: ErrTemplateNotFound}
)

// Built-in asset names.
const (
	DefaultStyleName = "default"
	PageTemplate     = "page"     // HTML document shell
	MathJaxTemplate  = "mathjax"  // MathJax configuration script
	PreambleTemplate = "preamble" // LaTeX preamble
)

// Set resolves assets by name. A custom directory, when configured, shadows
// the embedded files one by one; anything it lacks comes from the embedded
// defaults.
type Set struct {
	dir string // absolute, "" = embedded only
}

// NewSet returns a Set reading from dir before the embedded defaults.
// An empty dir yields an embedded-only Set.
func NewSet(dir string) (*Set, error) {
	if dir == "" {
		return &Set{}, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	return &Set{dir: abs}, nil
}

// LoadStyle returns the stylesheet called name (without .css).
func (s *Set) LoadStyle(name string) (string, error) {
	return s.Load(Style, name)
}

// LoadTemplate returns the template called name (without .tmpl).
func (s *Set) LoadTemplate(name string) (string, error) {
	return s.Load(Template, name)
}

// Load returns the asset of kind k called name. Names are bare identifiers:
// no separators, no dots.
func (s *Set) Load(k Kind, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if s.dir != "" {
		data, err := s.readCustom(k, name)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
	}

	data, err := readEmbedded(k, name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", k.notFound, name)
	}
	return string(data), nil
}

// readCustom opens the file through os.OpenInRoot, so symlinks cannot lead
// outside the custom directory.
func (s *Set) readCustom(k Kind, name string) ([]byte, error) {
	f, err := os.OpenInRoot(s.dir, filepath.Join(k.dir, name+k.ext))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
