package main

import (
	"context"
	"errors"
	"os"

	docexport "github.com/alnah/go-docexport"
	"github.com/alnah/go-docexport/internal/config"
	"github.com/alnah/go-docexport/internal/hints"
)

// Exit codes for the docexport CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, docexport.ErrBrowserConnect) ||
		errors.Is(err, docexport.ErrPageCreate) ||
		errors.Is(err, docexport.ErrPageLoad) ||
		errors.Is(err, docexport.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoFiles) ||
		errors.Is(err, docexport.ErrBundleWrite) ||
		errors.Is(err, docexport.ErrDocumentWrite) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldInvalid) ||
		errors.Is(err, docexport.ErrEmptyContent) ||
		errors.Is(err, docexport.ErrContentDecode) ||
		errors.Is(err, docexport.ErrMarkdownParse) ||
		errors.Is(err, docexport.ErrUnknownFormat) ||
		errors.Is(err, docexport.ErrInvalidPageSize) ||
		errors.Is(err, docexport.ErrInvalidOrientation) ||
		errors.Is(err, docexport.ErrInvalidMargin) ||
		errors.Is(err, docexport.ErrInvalidImageWidth) ||
		errors.Is(err, docexport.ErrInvalidMathJaxURL) ||
		errors.Is(err, docexport.ErrStyleNotFound) ||
		errors.Is(err, docexport.ErrTemplateNotFound) ||
		errors.Is(err, docexport.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var h hints.Hint
	switch {
	case errors.Is(err, docexport.ErrBrowserConnect):
		h = hints.Browser(hints.Detect())
	case errors.Is(err, context.DeadlineExceeded):
		h = hints.Timeout()
	case errors.Is(err, config.ErrConfigNotFound):
		h = hints.ConfigNotFound(configSearchPaths(err))
	case errors.Is(err, docexport.ErrStyleNotFound):
		h = hints.Choices("available", docexport.StyleNames())
	case errors.Is(err, docexport.ErrUnknownFormat):
		formats := make([]string, 0, len(docexport.Formats()))
		for _, f := range docexport.Formats() {
			formats = append(formats, string(f))
		}
		h = hints.Choices("valid formats", formats)
	case errors.Is(err, ErrCreateOutputDir):
		h = hints.OutputDirectory()
	}
	return h.String()
}
