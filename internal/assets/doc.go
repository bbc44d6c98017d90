// Package assets provides the stylesheets and templates used by the export
// backends: the HTML page shell, its MathJax configuration and the LaTeX
// preamble.
//
// Assets come in two kinds, each stored as {kind}/{name}{ext}:
//
//	styles/{name}.css      HTML stylesheets (default, academic)
//	templates/{name}.tmpl  page, mathjax, preamble
//
// A Set built with a custom directory looks there first and falls back to
// the embedded copies when a file is missing.
package assets
