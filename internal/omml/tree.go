package omml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel errors for MathML to OMML conversion.
var (
	ErrMalformedMathML    = errors.New("malformed MathML")
	ErrUnsupportedElement = errors.New("unsupported MathML element")
	ErrUnexpectedChildren = errors.New("unexpected MathML child count")
)

// node is a namespace-free view of a MathML element.
type node struct {
	name     string
	attrs    map[string]string
	text     string
	children []*node
}

// parse reads a MathML document into a node tree rooted at <math>.
func parse(doc string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader(doc))
	var (
		root  *node
		stack []*node
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMathML, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: multiple root elements", ErrMalformedMathML)
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil || root.name != "math" {
		return nil, fmt.Errorf("%w: root is not <math>", ErrMalformedMathML)
	}
	return root, nil
}

// content returns the token text; only mtext keeps surrounding spaces.
func (n *node) content() string {
	if n.name == "mtext" {
		return n.text
	}
	return strings.TrimSpace(n.text)
}
