package htmltext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseTable returns the rows of every <tr> in document order. Each row
// holds the inner HTML of its direct <td>/<th> children. A fragment without
// rows yields nil.
func ParseTable(fragment string) [][]string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	var rows [][]string
	collectRows(doc, &rows)
	return rows
}

func collectRows(n *html.Node, rows *[][]string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
		*rows = append(*rows, parseRow(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectRows(c, rows)
	}
}

func parseRow(tr *html.Node) []string {
	row := make([]string, 0)
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			row = append(row, innerHTML(c))
		}
	}
	return row
}

func innerHTML(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		// Rendering into a strings.Builder cannot fail.
		_ = html.Render(&b, c)
	}
	return b.String()
}

// Grid shapes rows into a rectangle whose width is the first row's cell
// count. Short rows are padded with empty cells and long rows truncated.
func Grid(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	cols := len(rows[0])
	grid := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, cols)
		copy(cells, row)
		grid[i] = cells
	}
	return grid
}
