// Package mathml translates LaTeX math expressions into MathML documents.
//
// The input is tokenized through the internal/latex tree and read by a small
// recursive-descent parser that understands scripts, fractions, radicals,
// fences, accents, font variants and the common matrix-like environments.
// Anything it does not recognize is reported as an error so callers can fall
// back to a plain-text rendering.
package mathml
