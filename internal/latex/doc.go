// Package latex cleans up LaTeX math fragments produced by OCR and layout
// extraction.
//
// Cleanup happens in two passes:
//
//  1. Normalize applies an ordered list of named regex rules (DefaultRules)
//     that strip delimiters, tighten spacing around commands and scripts,
//     and repair per-character splitting inside text-like macros.
//  2. Sanitize parses the result into a tree of character runs, groups,
//     macros, math spans and opaque nodes, then writes it back canonically.
//
// The package also holds the lexical helpers shared by the renderers: tag
// extraction, alias rewriting, the plain-text fallback, math segment
// splitting and LaTeX escaping.
package latex
