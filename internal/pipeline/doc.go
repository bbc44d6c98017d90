// Package pipeline implements the math and markup stages shared by the
// export backends.
//
// This package handles:
//   - LaTeX cleanup (delimiter extraction, normalization, optional structural
//     sanitization) via MathPipeline
//   - LaTeX to Office Math conversion with plain-text fallback via Chain
//   - Stylesheet and script injection into the HTML shell
//   - Markdown preprocessing before block extraction
//
// Rendering of the content list itself lives in the root docexport package;
// this package only transforms strings.
package pipeline
