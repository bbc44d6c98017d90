package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// contentFlags holds rendering options applied to every output format.
type contentFlags struct {
	formats     []string
	images      string
	title       string
	author      string
	language    string
	imageWidth  float64
	noSanitizer bool
}

// htmlFlags holds options for the HTML page and the PDF printed from it.
type htmlFlags struct {
	mathJaxURL string
	highlight  string
}

// pageFlags holds PDF page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// assetFlags holds asset-related flags (CSS and custom asset path).
type assetFlags struct {
	style     string // Name, path or CSS content
	css       string // Extra CSS file appended to the style
	assetPath string // Override asset directory
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
	content contentFlags
	html    htmlFlags
	page    pageFlags
	assets  assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addContentFlags adds rendering flags to a FlagSet.
func addContentFlags(fs *flag.FlagSet, f *contentFlags) {
	fs.StringSliceVarP(&f.formats, "format", "f", nil, "output formats: html, docx, latex, pdf, json")
	fs.StringVar(&f.images, "images", "", "image root directory (default: next to the input)")
	fs.StringVar(&f.title, "title", "", "document title")
	fs.StringVar(&f.author, "author", "", "document author")
	fs.StringVar(&f.language, "lang", "", "HTML language tag")
	fs.Float64Var(&f.imageWidth, "image-width", 0, "maximum picture width in inches for DOCX")
	fs.BoolVar(&f.noSanitizer, "no-sanitizer", false, "skip structural LaTeX sanitizing")
}

// addHTMLFlags adds HTML page flags to a FlagSet.
func addHTMLFlags(fs *flag.FlagSet, f *htmlFlags) {
	fs.StringVar(&f.mathJaxURL, "mathjax-url", "", "MathJax script URL")
	fs.StringVar(&f.highlight, "highlight", "", "chroma style for code blocks (e.g., github)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.css, "css", "", "extra CSS file appended to the style")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// newConvertFlagSet registers every convert flag into a fresh FlagSet.
// Shared by parsing and shell completion.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addContentFlags(fs, &f.content)
	addHTMLFlags(fs, &f.html)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
// Usage goes to usage when -h is given or parsing fails.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newConvertFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
