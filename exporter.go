package docexport

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-docexport/internal/fileutil"
	"github.com/alnah/go-docexport/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.HeadInjector   = (*pipeline.HeadInjection)(nil)
	_ pipeline.MathConverter  = (*pipeline.Chain)(nil)
	_ pipeline.LatexSanitizer = pipeline.StructuralSanitizer{}
	_ pdfConverter            = (*rodConverter)(nil)
	_ pdfRenderer             = (*rodRenderer)(nil)
)

// Exporter renders content lists to HTML, DOCX and LaTeX, and prints the
// HTML to PDF. Create with NewExporter and call Close when done.
//
// The Render methods are safe for concurrent use. Export with FormatPDF
// drives a single browser and must not be called concurrently; use an
// ExporterPool for parallel PDF output.
type Exporter struct {
	cfg         exporterConfig
	assetLoader AssetLoader
	logger      *log.Logger
	math        *pipeline.MathPipeline
	chain       pipeline.MathConverter
	injector    pipeline.HeadInjector
	highlighter *highlighter
	shellHead   string // HTML document up to the body content
	shellTail   string
	preamble    []string
	pdf         pdfConverter
}

// bodyMarker splits the executed page template around the body content.
const bodyMarker = "<!--docexport:body-->"

// NewExporter creates an Exporter with default configuration.
// Returns an error if an option is invalid or an asset cannot be loaded.
func NewExporter(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{
			title:      DefaultTitle,
			language:   DefaultLanguage,
			imageWidth: DefaultImageWidth,
			mathJaxURL: DefaultMathJaxURL,
			timeout:    defaultTimeout,
		},
		logger:   log.New(io.Discard),
		chain:    pipeline.NewChain(),
		injector: &pipeline.HeadInjection{},
	}

	for _, opt := range opts {
		opt(e)
	}

	if err := e.cfg.validate(); err != nil {
		return nil, err
	}

	if e.assetLoader == nil {
		loader, err := NewAssetLoader(e.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		e.assetLoader = loader
	}

	var mathOpts []pipeline.MathOption
	if e.cfg.noSanitizer {
		mathOpts = append(mathOpts, pipeline.WithoutSanitizer())
	}
	e.math = pipeline.NewMathPipeline(mathOpts...)

	if e.cfg.highlightStyle != "" {
		e.highlighter = newHighlighter(e.cfg.highlightStyle)
	}

	if err := e.buildShell(); err != nil {
		return nil, err
	}
	if err := e.loadPreamble(); err != nil {
		return nil, err
	}

	if e.pdf == nil {
		e.pdf = newRodConverter(e.cfg.timeout, e.logger)
	}

	return e, nil
}

func (c *exporterConfig) validate() error {
	if c.imageWidth <= 0 || c.imageWidth > MaxImageWidth {
		return fmt.Errorf("%w: %.2f (must be between 0 and %.0f inches)", ErrInvalidImageWidth, c.imageWidth, MaxImageWidth)
	}
	if c.mathJaxURL != "" && !fileutil.IsURL(c.mathJaxURL) {
		return fmt.Errorf("%w: %q", ErrInvalidMathJaxURL, c.mathJaxURL)
	}
	return nil
}

// Export renders every requested format. The context is used for
// cancellation between formats and bounds PDF printing.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (e *Exporter) Export(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	formats := input.Formats
	if len(formats) == 0 {
		formats = []Format{FormatHTML}
	}

	ex, err := e.withMetadata(input.Meta)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, f := range formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch f {
		case FormatHTML:
			res.HTML = []byte(ex.RenderHTML(input.Blocks, input.Images))
		case FormatDOCX:
			if res.DOCX, err = ex.RenderDocument(input.Blocks, input.Images); err != nil {
				return nil, err
			}
		case FormatLaTeX:
			var source string
			source, res.Images = ex.RenderLaTeX(input.Blocks, input.Images)
			res.LaTeX = []byte(source)
		case FormatJSON:
			var buf bytes.Buffer
			if err := EncodeContentList(&buf, input.Blocks); err != nil {
				return nil, fmt.Errorf("encoding content list: %w", err)
			}
			res.JSON = buf.Bytes()
		case FormatPDF:
			htmlContent := string(res.HTML)
			if res.HTML == nil {
				htmlContent = ex.RenderHTML(input.Blocks, input.Images)
			}
			res.PDF, err = ex.pdf.ToPDF(ctx, htmlContent, &pdfOptions{Page: input.Page})
			if err != nil {
				return nil, fmt.Errorf("converting to PDF: %w", err)
			}
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
		}
	}
	return res, nil
}

// validateInput checks that required fields are present and valid.
func validateInput(input Input) error {
	if len(input.Blocks) == 0 {
		return ErrEmptyContent
	}
	return input.Page.Validate()
}

// withMetadata returns e, or a copy of e carrying meta's non-empty fields
// with its page shell rebuilt. The copy shares e's browser.
func (e *Exporter) withMetadata(meta *Metadata) (*Exporter, error) {
	if meta.IsZero() {
		return e, nil
	}
	c := *e
	if meta.Title != "" {
		c.cfg.title = meta.Title
	}
	if meta.Author != "" {
		c.cfg.author = meta.Author
	}
	if meta.Language != "" {
		c.cfg.language = meta.Language
	}
	if err := c.buildShell(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Close releases resources (headless Chrome browser).
func (e *Exporter) Close() error {
	if e.pdf != nil {
		return e.pdf.Close()
	}
	return nil
}

// clone returns an Exporter sharing e's resolved configuration with its own
// browser.
func (e *Exporter) clone() *Exporter {
	c := *e
	c.pdf = newRodConverter(e.cfg.timeout, e.logger)
	return &c
}

// buildShell executes the page template once and injects the stylesheet
// and the MathJax scripts into its head.
func (e *Exporter) buildShell() error {
	src, err := e.assetLoader.LoadTemplate(TemplatePage)
	if err != nil {
		return fmt.Errorf("loading page template: %w", err)
	}
	page, err := template.New(TemplatePage).Parse(src)
	if err != nil {
		return fmt.Errorf("parsing page template: %w", err)
	}

	var buf bytes.Buffer
	data := struct {
		Language string
		Title    string
		Body     template.HTML
	}{e.cfg.language, e.cfg.title, template.HTML(bodyMarker)} // #nosec G203 -- fixed marker
	if err := page.Execute(&buf, data); err != nil {
		return fmt.Errorf("executing page template: %w", err)
	}

	css, err := e.stylesheet()
	if err != nil {
		return err
	}
	mathJax, err := e.assetLoader.LoadTemplate(TemplateMathJax)
	if err != nil {
		return fmt.Errorf("loading MathJax configuration: %w", err)
	}

	ctx := context.Background()
	shell := e.injector.InjectCSS(ctx, buf.String(), css)
	shell = e.injector.InjectScript(ctx, shell, strings.TrimSpace(mathJax), e.cfg.mathJaxURL)

	head, tail, ok := strings.Cut(shell, bodyMarker)
	if !ok {
		return fmt.Errorf("%w: page template does not render {{.Body}}", ErrTemplateNotFound)
	}
	e.shellHead, e.shellTail = head, tail
	return nil
}

// stylesheet combines the base style, highlighting classes and user CSS.
// Order matters: base first, user CSS last so it can override.
func (e *Exporter) stylesheet() (string, error) {
	base, err := e.resolveStyle()
	if err != nil {
		return "", err
	}
	parts := []string{base}
	if e.highlighter != nil {
		css, err := e.highlighter.CSS()
		if err != nil {
			return "", err
		}
		parts = append(parts, css)
	}
	if e.cfg.css != "" {
		parts = append(parts, e.cfg.css)
	}
	return strings.Join(parts, "\n"), nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
func (e *Exporter) resolveStyle() (string, error) {
	input := e.cfg.styleInput
	if input == "" {
		input = DefaultStyle
	}

	// CSS content? (contains {)
	if fileutil.IsCSS(input) {
		return input, nil
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading style file %q: %w", input, err)
		}
		return string(content), nil
	}

	// Style name -> use asset loader
	css, err := e.assetLoader.LoadStyle(input)
	if err != nil {
		return "", fmt.Errorf("loading style %q: %w", input, err)
	}
	return css, nil
}

func (e *Exporter) loadPreamble() error {
	src, err := e.assetLoader.LoadTemplate(TemplatePreamble)
	if err != nil {
		return fmt.Errorf("loading LaTeX preamble: %w", err)
	}
	e.preamble = strings.Split(strings.TrimRight(src, "\n"), "\n")
	return nil
}
