package omml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// naryChars are operators rendered as m:nary with their scripts as limits.
const naryChars = "∑∏∐∫∬∭∮⋃⋂⨁⨂⨀⋁⋀⨆"

// Convert translates a MathML document into an <m:oMath> fragment.
func Convert(mathml string) (string, error) {
	root, err := parse(mathml)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("<m:oMath>")
	if err := writeChildren(&b, root.children); err != nil {
		return "", err
	}
	b.WriteString("</m:oMath>")
	return b.String(), nil
}

// writeChildren writes a sequence of siblings. An n-ary operator consumes
// the sibling that follows it as its operand.
func writeChildren(b *strings.Builder, nodes []*node) error {
	for i := 0; i < len(nodes); i++ {
		if op, ok := naryOf(nodes[i]); ok {
			if i+1 < len(nodes) {
				op.operand = nodes[i+1]
				i++
			}
			if err := writeNary(b, op); err != nil {
				return err
			}
			continue
		}
		if err := writeNode(b, nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

func writeNode(b *strings.Builder, n *node) error {
	switch n.name {
	case "mrow", "mstyle", "mpadded", "mtd":
		if isFenced(n) {
			return writeDelimiters(b, n)
		}
		return writeChildren(b, n.children)
	case "semantics":
		if len(n.children) == 0 {
			return nil
		}
		return writeNode(b, n.children[0])
	case "mi", "mn", "mo", "mtext", "ms":
		writeRun(b, n.content(), runProperties(n))
		return nil
	case "mspace":
		if !strings.HasPrefix(strings.TrimSpace(n.attrs["width"]), "-") {
			writeRun(b, " ", plainStyle)
		}
		return nil
	case "msup":
		return writeStructure(b, n, "m:sSup", "m:e", "m:sup")
	case "msub":
		return writeStructure(b, n, "m:sSub", "m:e", "m:sub")
	case "msubsup":
		return writeStructure(b, n, "m:sSubSup", "m:e", "m:sub", "m:sup")
	case "munder":
		return writeUnder(b, n)
	case "mover":
		return writeOver(b, n)
	case "munderover":
		return writeUnderOver(b, n)
	case "mfrac":
		return writeFraction(b, n)
	case "msqrt":
		b.WriteString(`<m:rad><m:radPr><m:degHide m:val="1"/></m:radPr><m:deg/><m:e>`)
		if err := writeChildren(b, n.children); err != nil {
			return err
		}
		b.WriteString("</m:e></m:rad>")
		return nil
	case "mroot":
		if err := expectChildren(n, 2); err != nil {
			return err
		}
		b.WriteString("<m:rad>")
		if err := writeSlot(b, "m:deg", n.children[1]); err != nil {
			return err
		}
		if err := writeSlot(b, "m:e", n.children[0]); err != nil {
			return err
		}
		b.WriteString("</m:rad>")
		return nil
	case "mtable":
		return writeMatrix(b, n)
	case "menclose":
		return writeWrapped(b, n, "m:borderBox")
	case "mphantom":
		return writeWrapped(b, n, "m:phant")
	}
	return fmt.Errorf("%w: <%s>", ErrUnsupportedElement, n.name)
}

func expectChildren(n *node, want int) error {
	if len(n.children) != want {
		return fmt.Errorf("%w: <%s> has %d, want %d", ErrUnexpectedChildren, n.name, len(n.children), want)
	}
	return nil
}

// writeStructure writes n's children into the named slots of an OMML object.
func writeStructure(b *strings.Builder, n *node, object string, slots ...string) error {
	if err := expectChildren(n, len(slots)); err != nil {
		return err
	}
	b.WriteString("<" + object + ">")
	for i, slot := range slots {
		if err := writeSlot(b, slot, n.children[i]); err != nil {
			return err
		}
	}
	b.WriteString("</" + object + ">")
	return nil
}

func writeSlot(b *strings.Builder, slot string, n *node) error {
	b.WriteString("<" + slot + ">")
	if n != nil {
		if err := writeChildren(b, []*node{n}); err != nil {
			return err
		}
	}
	b.WriteString("</" + slot + ">")
	return nil
}

func writeWrapped(b *strings.Builder, n *node, object string) error {
	b.WriteString("<" + object + "><m:e>")
	if err := writeChildren(b, n.children); err != nil {
		return err
	}
	b.WriteString("</m:e></" + object + ">")
	return nil
}

// isFenced reports whether n is an mrow bracketed by prefix and postfix fences.
func isFenced(n *node) bool {
	if n.name != "mrow" || len(n.children) < 2 {
		return false
	}
	first, last := n.children[0], n.children[len(n.children)-1]
	return first.name == "mo" && first.attrs["fence"] == "true" && first.attrs["form"] == "prefix" &&
		last.name == "mo" && last.attrs["fence"] == "true" && last.attrs["form"] == "postfix"
}

func writeDelimiters(b *strings.Builder, n *node) error {
	first, last := n.children[0], n.children[len(n.children)-1]
	b.WriteString("<m:d><m:dPr>")
	writeVal(b, "m:begChr", first.content())
	writeVal(b, "m:endChr", last.content())
	b.WriteString("</m:dPr><m:e>")
	if err := writeChildren(b, n.children[1:len(n.children)-1]); err != nil {
		return err
	}
	b.WriteString("</m:e></m:d>")
	return nil
}

func writeUnder(b *strings.Builder, n *node) error {
	if err := expectChildren(n, 2); err != nil {
		return err
	}
	base, under := n.children[0], n.children[1]
	if n.attrs["accentunder"] == "true" {
		switch mark := under.content(); mark {
		case "_", "‾", "¯":
			return writeBar(b, base, "bot")
		default:
			return writeGroupChar(b, base, mark, "bot")
		}
	}
	return writeLimit(b, "m:limLow", base, under)
}

func writeOver(b *strings.Builder, n *node) error {
	if err := expectChildren(n, 2); err != nil {
		return err
	}
	base, over := n.children[0], n.children[1]
	if n.attrs["accent"] == "true" {
		switch mark := over.content(); {
		case mark == "‾":
			return writeBar(b, base, "top")
		case mark == "⏞" || (over.attrs["stretchy"] == "true" && strings.ContainsAny(mark, "→←")):
			return writeGroupChar(b, base, mark, "top")
		default:
			b.WriteString("<m:acc><m:accPr>")
			writeVal(b, "m:chr", mark)
			b.WriteString("</m:accPr>")
			if err := writeSlot(b, "m:e", base); err != nil {
				return err
			}
			b.WriteString("</m:acc>")
			return nil
		}
	}
	return writeLimit(b, "m:limUpp", base, over)
}

func writeUnderOver(b *strings.Builder, n *node) error {
	if err := expectChildren(n, 3); err != nil {
		return err
	}
	b.WriteString("<m:limUpp><m:e>")
	if err := writeLimit(b, "m:limLow", n.children[0], n.children[1]); err != nil {
		return err
	}
	b.WriteString("</m:e>")
	if err := writeSlot(b, "m:lim", n.children[2]); err != nil {
		return err
	}
	b.WriteString("</m:limUpp>")
	return nil
}

func writeLimit(b *strings.Builder, object string, base, limit *node) error {
	b.WriteString("<" + object + ">")
	if err := writeSlot(b, "m:e", base); err != nil {
		return err
	}
	if err := writeSlot(b, "m:lim", limit); err != nil {
		return err
	}
	b.WriteString("</" + object + ">")
	return nil
}

func writeBar(b *strings.Builder, base *node, pos string) error {
	b.WriteString("<m:bar><m:barPr>")
	writeVal(b, "m:pos", pos)
	b.WriteString("</m:barPr>")
	if err := writeSlot(b, "m:e", base); err != nil {
		return err
	}
	b.WriteString("</m:bar>")
	return nil
}

func writeGroupChar(b *strings.Builder, base *node, mark, pos string) error {
	vert := "top"
	if pos == "top" {
		vert = "bot"
	}
	b.WriteString("<m:groupChr><m:groupChrPr>")
	writeVal(b, "m:chr", mark)
	writeVal(b, "m:pos", pos)
	writeVal(b, "m:vertJc", vert)
	b.WriteString("</m:groupChrPr>")
	if err := writeSlot(b, "m:e", base); err != nil {
		return err
	}
	b.WriteString("</m:groupChr>")
	return nil
}

func writeFraction(b *strings.Builder, n *node) error {
	if err := expectChildren(n, 2); err != nil {
		return err
	}
	b.WriteString("<m:f>")
	if n.attrs["linethickness"] == "0" {
		b.WriteString(`<m:fPr><m:type m:val="noBar"/></m:fPr>`)
	}
	if err := writeSlot(b, "m:num", n.children[0]); err != nil {
		return err
	}
	if err := writeSlot(b, "m:den", n.children[1]); err != nil {
		return err
	}
	b.WriteString("</m:f>")
	return nil
}

// writeMatrix writes an mtable as m:m, padding short rows to the widest one.
func writeMatrix(b *strings.Builder, n *node) error {
	cols := 0
	for _, tr := range n.children {
		cols = max(cols, len(tr.children))
	}
	if cols == 0 {
		return nil
	}

	b.WriteString("<m:m><m:mPr><m:mcs><m:mc><m:mcPr>")
	writeVal(b, "m:count", strconv.Itoa(cols))
	writeVal(b, "m:mcJc", "center")
	b.WriteString("</m:mcPr></m:mc></m:mcs></m:mPr>")
	for _, tr := range n.children {
		if tr.name != "mtr" && tr.name != "mlabeledtr" {
			return fmt.Errorf("%w: <%s> inside <mtable>", ErrUnsupportedElement, tr.name)
		}
		b.WriteString("<m:mr>")
		for i := range cols {
			var cell *node
			if i < len(tr.children) {
				cell = tr.children[i]
			}
			if err := writeSlot(b, "m:e", cell); err != nil {
				return err
			}
		}
		b.WriteString("</m:mr>")
	}
	b.WriteString("</m:m>")
	return nil
}

type nary struct {
	char     string
	sub, sup *node
	limLoc   string
	operand  *node
}

// naryOf reports whether n is an n-ary operator, bare or scripted.
func naryOf(n *node) (nary, bool) {
	isOp := func(m *node) bool {
		c := m.content()
		return m.name == "mo" && c != "" && strings.Contains(naryChars, c)
	}
	if isOp(n) {
		return nary{char: n.content(), limLoc: "undOvr"}, true
	}
	if len(n.children) == 0 || !isOp(n.children[0]) {
		return nary{}, false
	}
	op := nary{char: n.children[0].content(), limLoc: "subSup"}
	kids := n.children
	switch n.name {
	case "msub":
		if len(kids) == 2 {
			op.sub = kids[1]
			return op, true
		}
	case "msup":
		if len(kids) == 2 {
			op.sup = kids[1]
			return op, true
		}
	case "msubsup":
		if len(kids) == 3 {
			op.sub, op.sup = kids[1], kids[2]
			return op, true
		}
	case "munder":
		if len(kids) == 2 {
			op.sub, op.limLoc = kids[1], "undOvr"
			return op, true
		}
	case "mover":
		if len(kids) == 2 {
			op.sup, op.limLoc = kids[1], "undOvr"
			return op, true
		}
	case "munderover":
		if len(kids) == 3 {
			op.sub, op.sup, op.limLoc = kids[1], kids[2], "undOvr"
			return op, true
		}
	}
	return nary{}, false
}

func writeNary(b *strings.Builder, op nary) error {
	b.WriteString("<m:nary><m:naryPr>")
	writeVal(b, "m:chr", op.char)
	writeVal(b, "m:limLoc", op.limLoc)
	if op.sub == nil {
		writeVal(b, "m:subHide", "1")
	}
	if op.sup == nil {
		writeVal(b, "m:supHide", "1")
	}
	b.WriteString("</m:naryPr>")
	if err := writeSlot(b, "m:sub", op.sub); err != nil {
		return err
	}
	if err := writeSlot(b, "m:sup", op.sup); err != nil {
		return err
	}
	if err := writeSlot(b, "m:e", op.operand); err != nil {
		return err
	}
	b.WriteString("</m:nary>")
	return nil
}

const plainStyle = `<m:rPr><m:sty m:val="p"/></m:rPr>`

// runProperties maps a token's mathvariant to OMML run properties.
func runProperties(n *node) string {
	switch n.attrs["mathvariant"] {
	case "normal":
		return plainStyle
	case "bold":
		return `<m:rPr><m:sty m:val="b"/></m:rPr>`
	case "italic":
		return `<m:rPr><m:sty m:val="i"/></m:rPr>`
	case "bold-italic":
		return `<m:rPr><m:sty m:val="bi"/></m:rPr>`
	case "double-struck", "script", "fraktur", "sans-serif", "monospace":
		return `<m:rPr><m:scr m:val="` + n.attrs["mathvariant"] + `"/><m:sty m:val="p"/></m:rPr>`
	}
	if n.name == "mi" && len([]rune(n.content())) == 1 {
		return ""
	}
	return plainStyle
}

func writeRun(b *strings.Builder, text, props string) {
	if text == "" {
		return
	}
	b.WriteString("<m:r>")
	b.WriteString(props)
	b.WriteString(`<m:t xml:space="preserve">`)
	escape(b, text)
	b.WriteString("</m:t></m:r>")
}

func writeVal(b *strings.Builder, name, value string) {
	b.WriteString("<" + name + ` m:val="`)
	escape(b, value)
	b.WriteString(`"/>`)
}

func escape(b *strings.Builder, s string) {
	_ = xml.EscapeText(b, []byte(s))
}
