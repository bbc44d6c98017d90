package docexport

import (
	"time"

	"github.com/charmbracelet/log"
)

// Option configures an Exporter.
type Option func(*Exporter)

// Defaults applied by NewExporter.
const (
	DefaultTitle      = "Document Export"
	DefaultLanguage   = "zh-CN"
	DefaultMathJaxURL = "https://cdn.jsdelivr.net/npm/mathjax@3/es5/tex-mml-chtml.js"

	// DefaultImageWidth is the maximum picture width in documents, in inches.
	DefaultImageWidth = 6.0

	// MaxImageWidth bounds WithImageWidth, in inches.
	MaxImageWidth = 20.0
)

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// exporterConfig holds internal configuration for Exporter.
type exporterConfig struct {
	title          string
	author         string
	language       string
	created        time.Time
	styleInput     string
	css            string
	assetPath      string
	imageWidth     float64
	noSanitizer    bool
	highlightStyle string
	mathJaxURL     string
	timeout        time.Duration
}

// WithTitle sets the HTML <title> and the document title property.
func WithTitle(title string) Option {
	return func(e *Exporter) {
		e.cfg.title = title
	}
}

// WithAuthor sets the document creator property.
func WithAuthor(author string) Option {
	return func(e *Exporter) {
		e.cfg.author = author
	}
}

// WithCreated sets the document creation timestamp. Documents carry no
// timestamp by default, which keeps output reproducible.
func WithCreated(t time.Time) Option {
	return func(e *Exporter) {
		e.cfg.created = t
	}
}

// WithLanguage sets the HTML lang attribute.
func WithLanguage(lang string) Option {
	return func(e *Exporter) {
		e.cfg.language = lang
	}
}

// WithStyle sets the HTML stylesheet.
// Accepts a style name ("default", "academic"), a file path ("./custom.css"),
// or CSS content ("body { ... }").
func WithStyle(style string) Option {
	return func(e *Exporter) {
		e.cfg.styleInput = style
	}
}

// WithCSS appends CSS after the stylesheet so it can override it.
func WithCSS(css string) Option {
	return func(e *Exporter) {
		e.cfg.css = css
	}
}

// WithAssetPath sets a custom directory for styles and templates.
// Missing assets fall back to the embedded ones.
func WithAssetPath(path string) Option {
	return func(e *Exporter) {
		e.cfg.assetPath = path
	}
}

// WithImageWidth sets the maximum picture width in documents, in inches.
// Narrower pictures keep their natural size.
func WithImageWidth(inches float64) Option {
	return func(e *Exporter) {
		e.cfg.imageWidth = inches
	}
}

// WithoutSanitizer drops the structural LaTeX sanitizer; only the
// normalization rules clean math.
func WithoutSanitizer() Option {
	return func(e *Exporter) {
		e.cfg.noSanitizer = true
	}
}

// WithCodeHighlighting enables syntax highlighting of code blocks with the
// named chroma style ("github", "monokai", ...).
func WithCodeHighlighting(style string) Option {
	return func(e *Exporter) {
		e.cfg.highlightStyle = style
	}
}

// WithMathJaxURL replaces the MathJax script referenced by HTML output.
func WithMathJaxURL(url string) Option {
	return func(e *Exporter) {
		e.cfg.mathJaxURL = url
	}
}

// WithLogger sets the logger receiving degradation records. Output is
// discarded by default.
func WithLogger(logger *log.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTimeout sets the PDF printing timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("docexport: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}
