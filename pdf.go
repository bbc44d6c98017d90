package docexport

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-docexport/internal/fileutil"
	"github.com/alnah/go-docexport/internal/hints"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfOptions holds options for PDF generation.
type pdfOptions struct {
	Page *PageSettings
}

// mathReadyJS reports whether MathJax finished typesetting. The flag is
// set by the pageReady hook of the embedded MathJax configuration.
const mathReadyJS = `() => window.__mathReady === true`

// maxMathWait bounds the wait for MathJax so an unreachable CDN only costs
// typesetting, not the whole PDF.
const maxMathWait = 15 * time.Second

// rodRenderer prints pages with a Chrome instance it launches on first use.
// Without ROD_BROWSER_BIN, rod downloads a Chromium build when none is
// installed.
type rodRenderer struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	logger   *log.Logger
}

func newRodRenderer(timeout time.Duration, logger *log.Logger) *rodRenderer {
	return &rodRenderer{timeout: timeout, logger: logger}
}

// ensureBrowser launches and connects Chrome unless already connected.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	rt := hints.Detect()
	l := launcher.New()
	if rt.BrowserBin != "" {
		l = l.Bin(rt.BrowserBin)
	}
	l = l.NoSandbox(!rt.Sandboxed())

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.logger.Debug("browser launched", "pid", l.PID(), "sandbox", rt.Sandboxed())
	r.browser, r.launcher = browser, l
	return nil
}

// Close releases browser resources. A browser that refuses to close is
// killed along with its process group.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if err != nil && r.launcher != nil {
		r.launcher.Kill()
	}
	r.browser = nil
	r.launcher = nil
	return err
}

// RenderFromFile prints a local HTML file with headless Chrome once its
// MathJax typesetting has settled.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	budget, err := r.budget(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	if err := page.Timeout(budget).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	// Untypeset math still prints as its TeX source.
	if err := page.Timeout(min(budget, maxMathWait)).Wait(rod.Eval(mathReadyJS)); err != nil {
		r.logger.Warn("printing before math typesetting finished", "file", filePath, "err", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stream, err := page.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// budget is the time left for one page: the context deadline when set,
// the renderer timeout otherwise.
func (r *rodRenderer) budget(ctx context.Context) (time.Duration, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return left, nil
}

// buildPDFOptions maps page settings onto Chrome's print parameters, with
// the same margin on every side.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	page := DefaultPageSettings()
	if opts != nil && opts.Page != nil {
		page = opts.Page
	}
	width, height := page.dimensions()

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(page.Margin),
		MarginBottom:    floatPtr(page.Margin),
		MarginLeft:      floatPtr(page.Margin),
		MarginRight:     floatPtr(page.Margin),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter hands exported HTML to the renderer through a temp file, so
// relative MathJax and data URIs resolve the same as when opened by hand.
type rodConverter struct {
	renderer pdfRenderer
}

func newRodConverter(timeout time.Duration, logger *log.Logger) *rodConverter {
	return &rodConverter{
		renderer: newRodRenderer(timeout, logger),
	}
}

func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
