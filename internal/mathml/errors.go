package mathml

import "errors"

// Sentinel errors for LaTeX to MathML conversion.
var (
	ErrUnknownMacro       = errors.New("unsupported macro")
	ErrUnknownEnvironment = errors.New("unsupported environment")
	ErrMissingArgument    = errors.New("missing argument")
	ErrUnbalancedFence    = errors.New("unbalanced \\left/\\right")
	ErrSyntax             = errors.New("invalid math syntax")
)
