package mathml

import (
	"encoding/xml"
	"strings"
)

// Namespace is the MathML namespace written on the root element.
const Namespace = "http://www.w3.org/1998/Math/MathML"

type attr struct {
	name, value string
}

// element is one MathML node. Token elements (mi, mn, mo, mtext) carry text;
// layout elements carry children.
type element struct {
	name     string
	attrs    []attr
	text     string
	children []*element

	// limits places scripts under and over the element instead of beside it.
	limits bool
}

func newElement(name string, children ...*element) *element {
	return &element{name: name, children: children}
}

func leaf(name, text string) *element {
	return &element{name: name, text: text}
}

func (e *element) set(name, value string) *element {
	for i := range e.attrs {
		if e.attrs[i].name == name {
			e.attrs[i].value = value
			return e
		}
	}
	e.attrs = append(e.attrs, attr{name, value})
	return e
}

func (e *element) get(name string) string {
	for _, a := range e.attrs {
		if a.name == name {
			return a.value
		}
	}
	return ""
}

// row wraps children in an mrow unless there is exactly one.
func row(children []*element) *element {
	if len(children) == 1 {
		return children[0]
	}
	return newElement("mrow", children...)
}

func (e *element) write(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.name)
	for _, a := range e.attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		b.WriteString(`="`)
		escape(b, a.value)
		b.WriteByte('"')
	}
	b.WriteByte('>')
	escape(b, e.text)
	for _, c := range e.children {
		c.write(b)
	}
	b.WriteString("</")
	b.WriteString(e.name)
	b.WriteByte('>')
}

func escape(b *strings.Builder, s string) {
	// strings.Builder never returns a write error.
	_ = xml.EscapeText(b, []byte(s))
}
