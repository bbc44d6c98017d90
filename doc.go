// Package docexport renders extracted document content to HTML, DOCX and
// LaTeX, and prints the HTML to PDF using headless Chrome.
//
// # Quick Start
//
// Decode a content list, export it, and close the exporter when done:
//
//	blocks, err := docexport.DecodeContentList(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exp, err := docexport.NewExporter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	result, err := exp.Export(ctx, docexport.Input{
//	    Blocks:  blocks,
//	    Images:  docexport.DirImageLoader("out/doc"),
//	    Formats: []docexport.Format{docexport.FormatHTML, docexport.FormatDOCX},
//	})
//
// Markdown sources are converted to the same blocks with ParseMarkdown.
//
// # Math
//
// Every formula goes through the same pipeline: delimiters are stripped,
// the LaTeX normalizer rewrites extraction artifacts and the structural
// sanitizer balances braces and environments. HTML keeps the cleaned TeX
// for MathJax. DOCX converts it to MathML and then to Office Math; when
// either step fails the formula is written as readable plain text. LaTeX
// output embeds it unchanged.
//
// # Configuration
//
// Use functional options to customize the exporter:
//
//	exp, err := docexport.NewExporter(
//	    docexport.WithTitle("Quarterly Report"),
//	    docexport.WithStyle("academic"),
//	    docexport.WithCodeHighlighting("github"),
//	    docexport.WithImageWidth(5),
//	)
//
// # LaTeX Bundles
//
// RenderLaTeX returns the image paths the source references. Given an
// ImageLoader it leaves out images the loader cannot resolve. BundleLaTeX
// writes the source and those images to a zip archive that compiles once
// extracted.
//
// # Parallel Processing
//
// For batch export, use ExporterPool to manage multiple browser instances:
//
//	pool, err := docexport.NewExporterPool(4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	exp := pool.Acquire()
//	defer pool.Release(exp)
//
// # Browser Requirements
//
// PDF output requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
//
// The Chrome sandbox is turned off automatically in CI and containers, and
// whenever ROD_NO_SANDBOX=1 or ROD_BROWSER_BIN is set. ROD_BROWSER_BIN names
// a custom Chrome binary.
package docexport
