package docexport

import (
	"fmt"
	"regexp"
	"strings"
)

// Block types as named in the content list.
const (
	TypeText     = "text"
	TypeEquation = "equation"
	TypeList     = "list"
	TypeImage    = "image"
	TypeTable    = "table"
	TypeCode     = "code"
)

// Block is one entry of a content list. The set of implementations is
// closed: TextBlock, EquationBlock, ListBlock, ImageBlock, TableBlock,
// CodeBlock and IgnoredBlock.
type Block interface {
	// Type returns the content list tag of the block.
	Type() string
	block()
}

// TextBlock is a paragraph or, when Level is 1..4, a heading.
// Body may embed inline math delimited by $...$ or $$...$$ and inline HTML.
type TextBlock struct {
	Body  string
	Level int
}

// EquationBlock is standalone LaTeX math, optionally delimited and tagged.
type EquationBlock struct {
	Body string
}

// ListBlock is a list whose numbering is derived from its items.
type ListBlock struct {
	Items []string
}

// ImageBlock references a picture by path.
type ImageBlock struct {
	Path     string
	Captions []string
}

// TableBlock is a pre-rendered HTML table. When HTMLBody is empty, Path
// names a raster image of the table.
type TableBlock struct {
	HTMLBody string
	Path     string
	Captions []string
}

// CodeBlock is a source listing.
type CodeBlock struct {
	Body     string
	Language string
	Captions []string
}

// IgnoredBlock stands for any block type no renderer handles, such as page
// headers and footers.
type IgnoredBlock struct {
	Kind string
}

func (TextBlock) Type() string      { return TypeText }
func (EquationBlock) Type() string  { return TypeEquation }
func (ListBlock) Type() string      { return TypeList }
func (ImageBlock) Type() string     { return TypeImage }
func (TableBlock) Type() string     { return TypeTable }
func (CodeBlock) Type() string      { return TypeCode }
func (b IgnoredBlock) Type() string { return b.Kind }

func (TextBlock) block()     {}
func (EquationBlock) block() {}
func (ListBlock) block()     {}
func (ImageBlock) block()    {}
func (TableBlock) block()    {}
func (CodeBlock) block()     {}
func (IgnoredBlock) block()  {}

// IsHeading reports whether the block renders as a heading.
func (b TextBlock) IsHeading() bool {
	return b.Level >= 1 && b.Level <= 4
}

var orderedItem = regexp.MustCompile(`^\s*\d+[.)]`)

// IsOrdered reports whether every item starts with a number followed by
// "." or ")". A single unnumbered item makes the whole list bulleted.
func (b ListBlock) IsOrdered() bool {
	for _, item := range b.Items {
		if !orderedItem.MatchString(item) {
			return false
		}
	}
	return true
}

// RenderAsset is raw image data returned by an ImageLoader.
type RenderAsset struct {
	Name string
	Data []byte
	MIME string
}

// ImageLoader resolves an image path. It returns false when the image is
// unavailable, in which case the referencing block is omitted.
// Loaders must be safe for concurrent use when renders run in parallel.
type ImageLoader func(path string) (*RenderAsset, bool)

// load calls l, treating a nil loader or a nil asset as unavailable.
func (l ImageLoader) load(path string) (*RenderAsset, bool) {
	if l == nil || path == "" {
		return nil, false
	}
	asset, ok := l(path)
	if !ok || asset == nil || len(asset.Data) == 0 {
		return nil, false
	}
	return asset, true
}

// Format is an output artifact kind.
type Format string

// Output formats.
const (
	FormatHTML  Format = "html"
	FormatDOCX  Format = "docx"
	FormatLaTeX Format = "latex"
	FormatPDF   Format = "pdf"
	FormatJSON  Format = "json" // content list, useful for markdown input
)

// Formats lists every supported output format.
func Formats() []Format {
	return []Format{FormatHTML, FormatDOCX, FormatLaTeX, FormatPDF, FormatJSON}
}

// ParseFormats parses format names, each of which may itself be a comma
// separated list. Names are case-insensitive and duplicates are dropped.
func ParseFormats(names ...string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, name := range names {
		for _, field := range strings.Split(name, ",") {
			f := Format(strings.ToLower(strings.TrimSpace(field)))
			if f == "" {
				continue
			}
			if f == "tex" {
				f = FormatLaTeX
			}
			switch f {
			case FormatHTML, FormatDOCX, FormatLaTeX, FormatPDF, FormatJSON:
			default:
				return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, field)
			}
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// dimensions returns the paper width and height in inches.
func (p *PageSettings) dimensions() (width, height float64) {
	switch strings.ToLower(p.Size) {
	case PageSizeA4:
		width, height = 8.27, 11.69
	case PageSizeLegal:
		width, height = 8.5, 14
	default:
		width, height = 8.5, 11
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		width, height = height, width
	}
	return width, height
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Metadata overrides the exporter's document properties for one export.
// Empty fields keep the exporter's values.
type Metadata struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Language string `yaml:"language"`
}

// IsZero reports whether m overrides nothing.
func (m *Metadata) IsZero() bool {
	return m == nil || *m == Metadata{}
}

// Input contains export parameters.
type Input struct {
	Blocks  []Block       // Content list (required)
	Images  ImageLoader   // Image resolution (optional, nil = no images)
	Formats []Format      // Artifacts to produce (empty = HTML only)
	Page    *PageSettings // PDF page settings (optional, nil = defaults)
	Meta    *Metadata     // Per-document title, author, language (optional)
}

// Result holds the artifacts produced by Export. Fields for formats that
// were not requested are nil.
type Result struct {
	HTML   []byte
	DOCX   []byte
	LaTeX  []byte
	Images []string // image paths referenced by LaTeX, in order
	PDF    []byte
	JSON   []byte // content list
}
