package pipeline

import (
	"strings"

	"github.com/alnah/go-docexport/internal/latex"
)

// LatexSanitizer defines the contract for the structural cleanup stage.
type LatexSanitizer interface {
	Sanitize(expr string) string
}

// StructuralSanitizer re-serializes LaTeX through the parsed node tree.
type StructuralSanitizer struct{}

// Sanitize implements LatexSanitizer.
func (StructuralSanitizer) Sanitize(expr string) string {
	return latex.Sanitize(expr)
}

// Compile-time interface check.
var _ LatexSanitizer = StructuralSanitizer{}

// MathPipeline cleans raw LaTeX: it strips delimiters, applies the
// normalization rules and, when configured, the structural sanitizer.
// A MathPipeline is immutable and safe for concurrent use.
type MathPipeline struct {
	rules     []latex.Rule
	sanitizer LatexSanitizer
}

// MathOption configures a MathPipeline.
type MathOption func(*MathPipeline)

// WithoutSanitizer builds a normalizer-only pipeline.
func WithoutSanitizer() MathOption {
	return func(p *MathPipeline) {
		p.sanitizer = nil
	}
}

// WithSanitizer replaces the structural sanitizer stage.
func WithSanitizer(s LatexSanitizer) MathOption {
	return func(p *MathPipeline) {
		p.sanitizer = s
	}
}

// WithRules replaces the normalization rules.
func WithRules(rules []latex.Rule) MathOption {
	return func(p *MathPipeline) {
		p.rules = rules
	}
}

// NewMathPipeline creates a pipeline with the default rules and the
// structural sanitizer enabled.
func NewMathPipeline(opts ...MathOption) *MathPipeline {
	p := &MathPipeline{
		rules:     latex.DefaultRules,
		sanitizer: StructuralSanitizer{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sanitizing reports whether the structural sanitizer stage is present.
func (p *MathPipeline) Sanitizing() bool {
	return p.sanitizer != nil
}

// Extract strips enclosing delimiters from raw and cleans the body.
// display reports whether the outermost delimiter was a display one.
// An empty body means there is nothing to render.
func (p *MathPipeline) Extract(raw string) (body string, display bool) {
	body, display = latex.StripDelimiters(raw)
	return p.Clean(body), display
}

// Clean normalizes an undelimited expression and runs the sanitizer, if any.
func (p *MathPipeline) Clean(expr string) string {
	expr = latex.ApplyRules(expr, p.rules)
	if p.sanitizer != nil && expr != "" {
		expr = p.sanitizer.Sanitize(expr)
	}
	return strings.TrimSpace(expr)
}
