package latex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// ErrParse indicates the expression could not be parsed into a tree.
var ErrParse = errors.New("latex parse failed")

// NodeKind classifies a parsed node.
type NodeKind int

const (
	CharsNode NodeKind = iota
	GroupNode
	MacroNode
	MathNode
	OpaqueNode
)

// Node is one element of a parsed LaTeX expression.
//
// Macro nodes carry the name without its backslash. Control symbols such as
// \, or \{ are macro nodes whose name is the single symbol character.
type Node struct {
	Kind      NodeKind
	Text      string
	PostSpace string
	Args      []*Node
	Children  []*Node
	Left      string
	Right     string
}

// Name returns the macro name, or "" for non-macro nodes.
func (n *Node) Name() string {
	if n.Kind != MacroNode {
		return ""
	}
	return n.Text
}

var texLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `%[^\n]*`},
	{Name: "DisplayMath", Pattern: `\$\$`},
	{Name: "InlineMath", Pattern: `\$`},
	{Name: "MathOpen", Pattern: `\\[(\[]`},
	{Name: "MathClose", Pattern: `\\[)\]]`},
	{Name: "Macro", Pattern: `\\[A-Za-z]+\*?`},
	{Name: "Symbol", Pattern: `\\[^A-Za-z]`},
	{Name: "Space", Pattern: `\s+`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Chars", Pattern: `[^\\{}$%\s]+`},
})

// texDocument is the participle grammar root.
type texDocument struct {
	Nodes []*texNode `parser:"@@*"`
}

type texNode struct {
	Math    *texMath  `parser:"  @@"`
	Macro   *texMacro `parser:"| @@"`
	Group   *texGroup `parser:"| @@"`
	Symbol  *string   `parser:"| @Symbol"`
	Chars   *string   `parser:"| @(Chars | Space)"`
	Comment *string   `parser:"| @Comment"`
}

// texAtom is a texNode that cannot open a nested math span.
type texAtom struct {
	Macro   *texMacro `parser:"  @@"`
	Group   *texGroup `parser:"| @@"`
	Symbol  *string   `parser:"| @Symbol"`
	Chars   *string   `parser:"| @(Chars | Space)"`
	Comment *string   `parser:"| @Comment"`
}

type texMath struct {
	Open  string     `parser:"@(DisplayMath | InlineMath | MathOpen)"`
	Body  []*texAtom `parser:"@@*"`
	Close string     `parser:"@(DisplayMath | InlineMath | MathClose)"`
}

type texMacro struct {
	Name  string      `parser:"@Macro"`
	Space *string     `parser:"@Space?"`
	Args  []*texGroup `parser:"@@*"`
}

type texGroup struct {
	Nodes []*texNode `parser:"'{' @@* '}'"`
}

var texParser = participle.MustBuild[texDocument](
	participle.Lexer(texLexer),
)

// mathPairs maps each math opener to its required closer.
var mathPairs = map[string]string{
	"$$": "$$",
	"$":  "$",
	`\(`: `\)`,
	`\[`: `\]`,
}

// Parse builds a node tree from expr.
func Parse(expr string) ([]*Node, error) {
	doc, err := texParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return convertNodes(doc.Nodes)
}

func convertNodes(in []*texNode) ([]*Node, error) {
	out := make([]*Node, 0, len(in))
	for _, n := range in {
		var (
			node *Node
			err  error
		)
		switch {
		case n.Math != nil:
			node, err = convertMath(n.Math)
		case n.Macro != nil:
			node, err = convertMacro(n.Macro)
		case n.Group != nil:
			node, err = convertGroup(n.Group)
		case n.Symbol != nil:
			node = symbolNode(*n.Symbol)
		case n.Chars != nil:
			node = &Node{Kind: CharsNode, Text: *n.Chars}
		case n.Comment != nil:
			node = &Node{Kind: OpaqueNode, Text: *n.Comment}
		}
		if err != nil {
			return nil, err
		}
		if node != nil {
			out = append(out, node)
		}
	}
	return out, nil
}

func convertAtoms(in []*texAtom) ([]*Node, error) {
	nodes := make([]*texNode, len(in))
	for i, a := range in {
		nodes[i] = &texNode{
			Macro:   a.Macro,
			Group:   a.Group,
			Symbol:  a.Symbol,
			Chars:   a.Chars,
			Comment: a.Comment,
		}
	}
	return convertNodes(nodes)
}

func convertMath(m *texMath) (*Node, error) {
	if mathPairs[m.Open] != m.Close {
		return nil, fmt.Errorf("%w: %s closed by %s", ErrParse, m.Open, m.Close)
	}
	children, err := convertAtoms(m.Body)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: MathNode, Left: m.Open, Right: m.Close, Children: children}, nil
}

func convertMacro(m *texMacro) (*Node, error) {
	node := &Node{Kind: MacroNode, Text: strings.TrimPrefix(m.Name, `\`)}
	if m.Space != nil {
		node.PostSpace = *m.Space
	}
	for _, g := range m.Args {
		arg, err := convertGroup(g)
		if err != nil {
			return nil, err
		}
		node.Args = append(node.Args, arg)
	}
	return node, nil
}

func convertGroup(g *texGroup) (*Node, error) {
	children, err := convertNodes(g.Nodes)
	if err != nil {
		return nil, err
	}
	return &Node{Kind: GroupNode, Children: children}, nil
}

func symbolNode(tok string) *Node {
	return &Node{Kind: MacroNode, Text: strings.TrimPrefix(tok, `\`)}
}

// Source re-serializes nodes without any cleanup.
func Source(nodes []*Node) string {
	var b strings.Builder
	writeNodes(&b, nodes, nil)
	return b.String()
}

// writeNodes serializes nodes; argument, when non-nil, rewrites the content of
// a macro argument given the macro name and the argument index.
func writeNodes(b *strings.Builder, nodes []*Node, argument func(macro string, idx int, content string) string) {
	for _, n := range nodes {
		switch n.Kind {
		case CharsNode, OpaqueNode:
			b.WriteString(n.Text)
		case GroupNode:
			b.WriteByte('{')
			writeNodes(b, n.Children, argument)
			b.WriteByte('}')
		case MacroNode:
			b.WriteByte('\\')
			b.WriteString(n.Text)
			if argument == nil || len(n.Args) == 0 {
				b.WriteString(n.PostSpace)
			}
			for i, arg := range n.Args {
				var inner strings.Builder
				writeNodes(&inner, arg.Children, argument)
				content := inner.String()
				if argument != nil {
					content = argument(n.Text, i, content)
				}
				b.WriteByte('{')
				b.WriteString(content)
				b.WriteByte('}')
			}
		case MathNode:
			b.WriteString(n.Left)
			writeNodes(b, n.Children, argument)
			b.WriteString(n.Right)
		}
	}
}
