package docexport

import (
	"strings"
	"unicode"

	"github.com/alnah/go-docexport/internal/htmltext"
	"github.com/alnah/go-docexport/internal/latex"
)

// latexSections maps heading levels to sectioning commands.
var latexSections = [...]string{1: `\section`, 2: `\subsection`, 3: `\subsubsection`, 4: `\paragraph`}

// RenderLaTeX renders blocks as a LaTeX document and returns the image
// paths it references, in order. The caller bundles those files next to
// the source, for example with BundleLaTeX.
//
// With a nil loader every image path is referenced as given. Otherwise
// images the loader cannot resolve are left out, like the other backends
// do. Paths holding %, # or braces are never referenced since TeX would
// misread them.
func (e *Exporter) RenderLaTeX(blocks []Block, images ImageLoader) (source string, refs []string) {
	lines := append([]string(nil), e.preamble...)
	lines = append(lines, `\begin{document}`)

	for i, blk := range blocks {
		switch blk := blk.(type) {
		case TextBlock:
			text := latexText(blk.Body)
			if blk.IsHeading() {
				lines = append(lines, latexSections[blk.Level]+"{"+text+"}")
			} else {
				lines = append(lines, text+"\n")
			}

		case EquationBlock:
			expr, _ := e.math.Extract(blk.Body)
			if expr == "" {
				e.logger.Debug("skipped empty equation", "block", i)
				continue
			}
			if latex.HasTag(expr) {
				lines = append(lines, `\begin{equation}`, "  "+expr, `\end{equation}`)
			} else {
				lines = append(lines, `\[`, "  "+expr, `\]`)
			}

		case ListBlock:
			if len(blk.Items) == 0 {
				continue
			}
			env := "itemize"
			if blk.IsOrdered() {
				env = "enumerate"
			}
			lines = append(lines, `\begin{`+env+`}`)
			for _, item := range blk.Items {
				lines = append(lines, `  \item `+latexText(item))
			}
			lines = append(lines, `\end{`+env+`}`)

		case ImageBlock:
			if name, ok := e.latexImage(i, blk.Path, images); ok {
				refs = append(refs, blk.Path)
				lines = append(lines, latexFigure(name, blk.Captions)...)
			}

		case TableBlock:
			if rows := htmltext.Grid(htmltext.ParseTable(blk.HTMLBody)); len(rows) > 0 && len(rows[0]) > 0 {
				lines = append(lines, latexTable(rows, blk.Captions)...)
			} else if name, ok := e.latexImage(i, blk.Path, images); ok {
				refs = append(refs, blk.Path)
				lines = append(lines, latexFigure(name, blk.Captions)...)
			} else if blk.HTMLBody != "" {
				e.logger.Debug("table has no rows", "block", i)
			}

		case CodeBlock:
			lines = append(lines, `\begin{verbatim}`, verbatimSafe(blk.Body), `\end{verbatim}`)

		default:
			e.logger.Debug("skipped block", "block", i, "type", blk.Type())
		}
	}

	lines = append(lines, `\end{document}`)
	return strings.Join(lines, "\n"), refs
}

// latexImage returns path as written in \includegraphics, slash-separated
// like its BundleLaTeX entry, and whether the figure should be emitted.
func (e *Exporter) latexImage(i int, path string, images ImageLoader) (string, bool) {
	if path == "" {
		return "", false
	}
	if strings.ContainsAny(path, "%#{}") || strings.ContainsFunc(path, unicode.IsControl) {
		e.logger.Debug("skipped image with TeX special characters in path", "block", i, "path", path)
		return "", false
	}
	if images != nil {
		if _, ok := images.load(path); !ok {
			e.logger.Debug("skipped unresolved image", "block", i, "path", path)
			return "", false
		}
	}
	return strings.ReplaceAll(path, `\`, "/"), true
}

// latexText flattens inline HTML and escapes everything outside math spans.
func latexText(s string) string {
	return latex.EscapeOutsideMath(htmltext.InlineText(s))
}

func latexCaption(captions []string) string {
	return latex.EscapeOutsideMath(strings.Join(captions, " "))
}

func latexFigure(path string, captions []string) []string {
	lines := []string{
		`\begin{figure}[htbp]`,
		`  \centering`,
		`  \includegraphics[width=0.8\linewidth]{` + path + `}`,
	}
	if len(captions) > 0 {
		lines = append(lines, `  \caption{`+latexCaption(captions)+`}`)
	}
	return append(lines, `\end{figure}`)
}

// latexTable writes a tabular with one left-aligned column per cell of the
// first row. Rows must already be padded to that width. Captioned tables
// are wrapped in a floating table environment.
func latexTable(rows [][]string, captions []string) []string {
	cols := make([]string, len(rows[0]))
	for i := range cols {
		cols[i] = "l"
	}

	var lines []string
	indent := ""
	if len(captions) > 0 {
		lines = append(lines, `\begin{table}[htbp]`, `  \centering`)
		indent = "  "
	}
	lines = append(lines, indent+`\begin{tabular}{`+strings.Join(cols, "|")+`}`, indent+`\hline`)
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = latexText(cell)
		}
		lines = append(lines, indent+strings.Join(cells, " & ")+` \\ \hline`)
	}
	lines = append(lines, indent+`\end{tabular}`)
	if len(captions) > 0 {
		lines = append(lines, `  \caption{`+latexCaption(captions)+`}`, `\end{table}`)
	}
	return lines
}

// verbatimSafe keeps code from closing the verbatim environment early.
func verbatimSafe(code string) string {
	return strings.ReplaceAll(code, `\end{verbatim}`, `\end {verbatim}`)
}
