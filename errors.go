package docexport

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyContent   = errors.New("content list cannot be empty")
	ErrContentDecode  = errors.New("failed to decode content list")
	ErrMarkdownParse  = errors.New("failed to parse markdown")
	ErrDocumentWrite  = errors.New("failed to write document")
	ErrBundleWrite    = errors.New("failed to write LaTeX bundle")
	ErrUnknownFormat  = errors.New("unknown output format")
	ErrImageNotFound  = errors.New("image not found")
	ErrPathTraversal  = errors.New("image path escapes root directory")
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Option validation errors.
	ErrInvalidImageWidth = errors.New("invalid image width")
	ErrInvalidMathJaxURL = errors.New("invalid MathJax URL")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
