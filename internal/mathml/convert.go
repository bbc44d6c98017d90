package mathml

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/alnah/go-docexport/internal/latex"
)

// Convert translates a LaTeX math expression, without delimiters, into a
// MathML document. display selects block rendering on the root element.
func Convert(expr string, display bool) (string, error) {
	nodes, err := latex.Parse(expr)
	if err != nil {
		return "", err
	}

	p := &parser{toks: lex(nodes)}
	children, err := p.parseRow(atEnd)
	if err != nil {
		return "", err
	}

	root := newElement("math", children...)
	root.set("xmlns", Namespace)
	if display {
		root.set("display", "block")
	} else {
		root.set("display", "inline")
	}

	var b strings.Builder
	root.write(&b)
	return b.String(), nil
}

type parser struct {
	toks []lexeme
	pos  int
}

type stopFunc func(lexeme) bool

func atEnd(lexeme) bool { return false }

func isMacro(name string) stopFunc {
	return func(l lexeme) bool { return l.kind == macroLexeme && l.text == name }
}

// endsCell stops at column and row separators and at \end.
func endsCell(l lexeme) bool {
	switch l.kind {
	case charLexeme:
		return l.text == "&"
	case macroLexeme:
		return l.text == `\` || l.text == "cr" || l.text == "end"
	}
	return false
}

// peek skips insignificant whitespace and returns the next lexeme.
func (p *parser) peek() (lexeme, bool) {
	for p.pos < len(p.toks) && p.toks[p.pos].isSpace() {
		p.pos++
	}
	if p.pos >= len(p.toks) {
		return lexeme{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) parseRow(stop stopFunc) ([]*element, error) {
	var out []*element
	for {
		l, ok := p.peek()
		if !ok || stop(l) {
			return out, nil
		}
		el, err := p.parseScripted()
		if err != nil {
			return nil, err
		}
		if el != nil {
			out = append(out, el)
		}
	}
}

func isScript(l lexeme) bool {
	return l.kind == charLexeme && (l.text == "^" || l.text == "_")
}

// parseScripted reads one atom and any scripts attached to it.
func (p *parser) parseScripted() (*element, error) {
	var base *element
	if l, _ := p.peek(); !isScript(l) {
		var err error
		if base, err = p.parseAtom(); err != nil {
			return nil, err
		}
	}

	var sub, sup *element
	for {
		l, ok := p.peek()
		if !ok || !isScript(l) {
			break
		}
		p.pos++
		arg, err := p.argument()
		if err != nil {
			return nil, err
		}
		if l.text == "^" {
			if sup != nil {
				return nil, fmt.Errorf("%w: double superscript", ErrSyntax)
			}
			sup = arg
		} else {
			if sub != nil {
				return nil, fmt.Errorf("%w: double subscript", ErrSyntax)
			}
			sub = arg
		}
	}

	if sub == nil && sup == nil {
		return base, nil
	}
	if base == nil {
		base = newElement("mrow")
	}
	return attachScripts(base, sub, sup), nil
}

func attachScripts(base, sub, sup *element) *element {
	if base.limits {
		switch {
		case sub != nil && sup != nil:
			return newElement("munderover", base, sub, sup)
		case sub != nil:
			return newElement("munder", base, sub)
		default:
			return newElement("mover", base, sup)
		}
	}
	switch {
	case sub != nil && sup != nil:
		return newElement("msubsup", base, sub, sup)
	case sub != nil:
		return newElement("msub", base, sub)
	default:
		return newElement("msup", base, sup)
	}
}

func (p *parser) parseAtom() (*element, error) {
	l, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrSyntax)
	}
	switch l.kind {
	case groupLexeme:
		p.pos++
		return p.group(l)
	case macroLexeme:
		p.pos++
		return p.macro(l.text)
	}

	p.pos++
	r := []rune(l.text)[0]
	switch {
	case unicode.IsDigit(r):
		return p.number(l.text), nil
	case l.text == "&":
		return nil, fmt.Errorf("%w: misplaced &", ErrSyntax)
	}
	return charElement(l.text), nil
}

// number reads a run of digits with an optional decimal point.
func (p *parser) number(first string) *element {
	var b strings.Builder
	b.WriteString(first)
	for p.pos < len(p.toks) {
		l := p.toks[p.pos]
		if l.kind != charLexeme {
			break
		}
		if l.isDigit() {
			b.WriteString(l.text)
			p.pos++
			continue
		}
		if l.text == "." && p.pos+1 < len(p.toks) && p.toks[p.pos+1].isDigit() {
			b.WriteString(".")
			p.pos++
			continue
		}
		break
	}
	return leaf("mn", b.String())
}

func charElement(ch string) *element {
	r := []rune(ch)[0]
	switch {
	case unicode.IsDigit(r):
		return leaf("mn", ch)
	case unicode.IsLetter(r):
		return leaf("mi", ch)
	}
	switch ch {
	case "-":
		return leaf("mo", "−")
	case "*":
		return leaf("mo", "∗")
	case "'":
		return leaf("mo", "′")
	case "~":
		return leaf("mspace", "").set("width", "0.333em")
	}
	return leaf("mo", ch)
}

func (p *parser) group(l lexeme) (*element, error) {
	inner := &parser{toks: l.inner}
	children, err := inner.parseRow(atEnd)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return newElement("mrow"), nil
	}
	return row(children), nil
}

// argument reads a required macro or script argument: a group, a single
// character or a macro with its own arguments.
func (p *parser) argument() (*element, error) {
	l, ok := p.peek()
	if !ok || isScript(l) || (l.kind == charLexeme && l.text == "&") {
		return nil, ErrMissingArgument
	}
	switch l.kind {
	case groupLexeme:
		p.pos++
		return p.group(l)
	case charLexeme:
		p.pos++
		return charElement(l.text), nil
	}
	el, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("%w: after \\%s", ErrMissingArgument, l.text)
	}
	return el, nil
}

// rawArgument returns the source text of the next argument.
func (p *parser) rawArgument() (string, error) {
	l, ok := p.peek()
	if !ok || l.kind == macroLexeme {
		return "", ErrMissingArgument
	}
	p.pos++
	return l.text, nil
}

// optional reads a bracketed [..] argument, if present.
func (p *parser) optional() ([]lexeme, bool) {
	l, ok := p.peek()
	if !ok || l.kind != charLexeme || l.text != "[" {
		return nil, false
	}
	for end := p.pos + 1; end < len(p.toks); end++ {
		t := p.toks[end]
		if t.kind == charLexeme && t.text == "]" {
			inner := p.toks[p.pos+1 : end]
			p.pos = end + 1
			return inner, true
		}
	}
	return nil, false
}

// delimiter reads the fence character following \left, \right or \big.
func (p *parser) delimiter() (string, error) {
	l, ok := p.peek()
	if !ok {
		return "", fmt.Errorf("%w: missing delimiter", ErrUnbalancedFence)
	}
	p.pos++
	switch l.kind {
	case charLexeme:
		if l.text == "." {
			return "", nil
		}
		return l.text, nil
	case macroLexeme:
		if s, ok := operators[l.text]; ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: bad delimiter %s", ErrSyntax, l)
}

func fence(left, right string, children []*element) *element {
	out := make([]*element, 0, len(children)+2)
	out = append(out, leaf("mo", left).set("fence", "true").set("form", "prefix"))
	out = append(out, children...)
	out = append(out, leaf("mo", right).set("fence", "true").set("form", "postfix"))
	return newElement("mrow", out...)
}

func (p *parser) macro(name string) (*element, error) {
	if s, ok := identifiers[name]; ok {
		return leaf("mi", s), nil
	}
	if s, ok := operators[name]; ok {
		return leaf("mo", s), nil
	}
	if s, ok := largeOperators[name]; ok {
		el := leaf("mo", s).set("largeop", "true")
		el.limits = true
		return el, nil
	}
	if s, ok := integrals[name]; ok {
		return leaf("mo", s).set("largeop", "true"), nil
	}
	if functions[name] {
		return leaf("mi", name), nil
	}
	if limitFunctions[name] {
		el := leaf("mo", name).set("movablelimits", "true")
		el.limits = true
		return el, nil
	}
	if w, ok := spaces[name]; ok {
		return leaf("mspace", "").set("width", w), nil
	}
	if ignored[name] {
		return nil, nil
	}
	if ignoredWithArgument[name] {
		if _, err := p.rawArgument(); err != nil {
			return nil, fmt.Errorf("%w: \\%s", err, name)
		}
		return nil, nil
	}
	if v, ok := fontVariants[name]; ok {
		arg, err := p.argument()
		if err != nil {
			return nil, fmt.Errorf("%w: \\%s", err, name)
		}
		applyVariant(arg, v)
		return arg, nil
	}
	if v, ok := textCommands[name]; ok {
		text, err := p.rawArgument()
		if err != nil {
			return nil, fmt.Errorf("%w: \\%s", err, name)
		}
		el := leaf("mtext", text)
		if v != "" {
			el.set("mathvariant", v)
		}
		return el, nil
	}
	if a, ok := accents[name]; ok {
		return p.accent(name, a)
	}
	if sizedDelimiters[name] {
		d, err := p.delimiter()
		if err != nil {
			return nil, err
		}
		return leaf("mo", d).set("stretchy", "false"), nil
	}

	switch name {
	case "frac", "dfrac", "tfrac", "cfrac":
		num, den, err := p.twoArguments(name)
		if err != nil {
			return nil, err
		}
		return newElement("mfrac", num, den), nil
	case "binom", "dbinom", "tbinom":
		top, bottom, err := p.twoArguments(name)
		if err != nil {
			return nil, err
		}
		frac := newElement("mfrac", top, bottom).set("linethickness", "0")
		return fence("(", ")", []*element{frac}), nil
	case "sqrt":
		return p.sqrt()
	case "operatorname", "operatorname*":
		text, err := p.rawArgument()
		if err != nil {
			return nil, fmt.Errorf("%w: \\%s", err, name)
		}
		text = strings.Join(strings.Fields(text), "")
		if name == "operatorname*" {
			el := leaf("mo", text).set("movablelimits", "true")
			el.limits = true
			return el, nil
		}
		return leaf("mi", text).set("mathvariant", "normal"), nil
	case "mathop":
		arg, err := p.argument()
		if err != nil {
			return nil, fmt.Errorf("%w: \\mathop", err)
		}
		arg.limits = true
		return arg, nil
	case "left":
		return p.fenced()
	case "right":
		return nil, fmt.Errorf("%w: \\right without \\left", ErrUnbalancedFence)
	case "middle":
		d, err := p.delimiter()
		if err != nil {
			return nil, err
		}
		return leaf("mo", d).set("stretchy", "true"), nil
	case "overset", "stackrel", "underset":
		script, base, err := p.twoArguments(name)
		if err != nil {
			return nil, err
		}
		if name == "underset" {
			return newElement("munder", base, script), nil
		}
		return newElement("mover", base, script), nil
	case "boxed", "fbox":
		arg, err := p.argument()
		if err != nil {
			return nil, fmt.Errorf("%w: \\%s", err, name)
		}
		return newElement("menclose", arg).set("notation", "box"), nil
	case "phantom", "hphantom":
		arg, err := p.argument()
		if err != nil {
			return nil, fmt.Errorf("%w: \\%s", err, name)
		}
		return newElement("mphantom", arg), nil
	case "textcolor":
		if _, err := p.rawArgument(); err != nil {
			return nil, fmt.Errorf("%w: \\textcolor", err)
		}
		return p.argument()
	case "hspace", "hspace*":
		width, err := p.rawArgument()
		if err != nil {
			return nil, fmt.Errorf("%w: \\%s", err, name)
		}
		return leaf("mspace", "").set("width", strings.TrimSpace(width)), nil
	case "pmod":
		arg, err := p.argument()
		if err != nil {
			return nil, fmt.Errorf("%w: \\pmod", err)
		}
		return fence("(", ")", []*element{leaf("mo", "mod"), arg}), nil
	case "not":
		return p.negate()
	case "begin":
		env, err := p.rawArgument()
		if err != nil {
			return nil, fmt.Errorf("%w: \\begin", err)
		}
		return p.environment(strings.TrimSpace(env))
	case "end":
		return nil, fmt.Errorf("%w: unexpected \\end", ErrSyntax)
	}
	return nil, fmt.Errorf("%w: \\%s", ErrUnknownMacro, name)
}

func (p *parser) twoArguments(name string) (*element, *element, error) {
	first, err := p.argument()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: \\%s", err, name)
	}
	second, err := p.argument()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: \\%s", err, name)
	}
	return first, second, nil
}

func (p *parser) sqrt() (*element, error) {
	index, hasIndex := p.optional()
	base, err := p.argument()
	if err != nil {
		return nil, fmt.Errorf("%w: \\sqrt", err)
	}
	if !hasIndex {
		return newElement("msqrt", base), nil
	}
	inner := &parser{toks: index}
	children, err := inner.parseRow(atEnd)
	if err != nil {
		return nil, err
	}
	return newElement("mroot", base, row(children)), nil
}

func (p *parser) accent(name string, a accent) (*element, error) {
	base, err := p.argument()
	if err != nil {
		return nil, fmt.Errorf("%w: \\%s", err, name)
	}
	mark := leaf("mo", a.char)
	if a.stretch {
		mark.set("stretchy", "true")
	} else {
		mark.set("stretchy", "false")
	}
	var el *element
	if a.under {
		el = newElement("munder", base, mark).set("accentunder", "true")
	} else {
		el = newElement("mover", base, mark).set("accent", "true")
	}
	el.limits = name == "overbrace" || name == "underbrace"
	return el, nil
}

func (p *parser) fenced() (*element, error) {
	left, err := p.delimiter()
	if err != nil {
		return nil, err
	}
	children, err := p.parseRow(isMacro("right"))
	if err != nil {
		return nil, err
	}
	if _, ok := p.peek(); !ok {
		return nil, fmt.Errorf("%w: \\left without \\right", ErrUnbalancedFence)
	}
	p.pos++
	right, err := p.delimiter()
	if err != nil {
		return nil, err
	}
	return fence(left, right, children), nil
}

func (p *parser) negate() (*element, error) {
	el, err := p.argument()
	if err != nil {
		return nil, fmt.Errorf("%w: \\not", err)
	}
	if el.name != "mo" {
		return nil, fmt.Errorf("%w: \\not applied to %s", ErrSyntax, el.name)
	}
	if neg, ok := negations[el.text]; ok {
		el.text = neg
	} else {
		el.text += "\u0338"
	}
	return el, nil
}

func (p *parser) environment(name string) (*element, error) {
	if wrappers[name] {
		children, err := p.parseRow(isMacro("end"))
		if err != nil {
			return nil, err
		}
		if err := p.end(name); err != nil {
			return nil, err
		}
		return row(children), nil
	}

	env, ok := environments[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnvironment, name)
	}
	if env.columns {
		if _, err := p.rawArgument(); err != nil {
			return nil, fmt.Errorf("%w: column specification for %s", err, name)
		}
	}

	table, err := p.table()
	if err != nil {
		return nil, err
	}
	if err := p.end(name); err != nil {
		return nil, err
	}
	if env.open == "" && env.close == "" {
		return table, nil
	}
	return fence(env.open, env.close, []*element{table}), nil
}

// table reads rows separated by \\ and cells separated by & up to \end.
func (p *parser) table() (*element, error) {
	table := newElement("mtable")
	var cells []*element
	for {
		children, err := p.parseRow(endsCell)
		if err != nil {
			return nil, err
		}
		cells = append(cells, newElement("mtd", children...))

		l, ok := p.peek()
		if !ok {
			return nil, fmt.Errorf("%w: missing \\end", ErrSyntax)
		}
		switch {
		case l.kind == charLexeme:
			p.pos++
		case l.text == "end":
			if len(cells) > 1 || len(cells[0].children) > 0 {
				table.children = append(table.children, newElement("mtr", cells...))
			}
			return table, nil
		default:
			p.pos++
			p.optional()
			table.children = append(table.children, newElement("mtr", cells...))
			cells = nil
		}
	}
}

func (p *parser) end(name string) error {
	l, ok := p.peek()
	if !ok || l.kind != macroLexeme || l.text != "end" {
		return fmt.Errorf("%w: missing \\end{%s}", ErrSyntax, name)
	}
	p.pos++
	got, err := p.rawArgument()
	if err != nil {
		return fmt.Errorf("%w: \\end", err)
	}
	if strings.TrimSpace(got) != name {
		return fmt.Errorf("%w: \\begin{%s} closed by \\end{%s}", ErrSyntax, name, got)
	}
	return nil
}

func applyVariant(e *element, variant string) {
	if e.name == "mi" || e.name == "mn" {
		e.set("mathvariant", variant)
	}
	for _, c := range e.children {
		applyVariant(c, variant)
	}
}
