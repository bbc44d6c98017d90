package latex

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule is a named rewrite step applied by Normalize.
type Rule struct {
	Name  string
	Apply func(string) string
}

// textMacros take a single argument holding prose rather than math.
var textMacros = map[string]bool{
	"text":         true,
	"mathrm":       true,
	"mathbf":       true,
	"mathit":       true,
	"mathcal":      true,
	"operatorname": true,
	"boldsymbol":   true,
	"mathbb":       true,
	"mathsf":       true,
}

// punctuationTokens are treated like single characters when collapsing arguments.
var punctuationTokens = map[string]bool{
	"-": true, "+": true, "=": true, "|": true, "/": true,
	"(": true, ")": true, ",": true, ".": true, ":": true, "'": true,
}

// Precompiled patterns for the normalization rules.
var (
	commandBrace = regexp.MustCompile(`\\([a-zA-Z]+) +\{`)

	tokenBeforeScript = regexp.MustCompile(`([a-zA-Z0-9}]) +([_^])`)
	scriptBeforeBrace = regexp.MustCompile(`([_^]) +\{`)
	scriptBeforeMacro = regexp.MustCompile(`([_^]) +\\`)
	scriptSpace       = regexp.MustCompile(`([_^]) +`)

	tokenBeforeMacro = regexp.MustCompile(`([a-zA-Z0-9}]) +\\`)
	tokenBeforeParen = regexp.MustCompile(`([a-zA-Z0-9}]) +\(`)
	parenBeforeToken = regexp.MustCompile(`\) +([a-zA-Z0-9\\])`)
	fenceOpen        = regexp.MustCompile(`\\left +([(\[.|])`)
	fenceClose       = regexp.MustCompile(`\\right +([)\].|])`)
	bigOperatorLimit = regexp.MustCompile(`\\(sum|int|prod|oint|lim) +_\{`)

	braceOpenSpace  = regexp.MustCompile(`\{ +`)
	braceCloseSpace = regexp.MustCompile(` +\}`)

	textMacroArgument = regexp.MustCompile(`\\([a-zA-Z]+)\{([^{}]*)\}`)

	spaceRun = regexp.MustCompile(` {2,}`)
)

// DefaultRules is the ordered rule list used by Normalize.
// Delimiter stripping happens before these run; see StripDelimiters.
var DefaultRules = []Rule{
	{Name: "flatten-whitespace", Apply: flattenWhitespace},
	{Name: "command-brace", Apply: joinCommandBrace},
	{Name: "script-operators", Apply: tightenScripts},
	{Name: "token-adjacency", Apply: tightenAdjacency},
	{Name: "brace-padding", Apply: trimBracePadding},
	{Name: "text-macro-arguments", Apply: collapseTextArguments},
	{Name: "collapse-whitespace", Apply: collapseWhitespace},
}

// Normalize strips enclosing math delimiters and applies DefaultRules.
// Normalize never fails and Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	body, _ := StripDelimiters(raw)
	return ApplyRules(body, DefaultRules)
}

// ApplyRules runs each rule in order.
func ApplyRules(s string, rules []Rule) string {
	for _, r := range rules {
		s = r.Apply(s)
	}
	return s
}

// StripDelimiters removes enclosing $$..$$, \[..\] or \(..\) pairs and reports
// whether the outermost pair was a display delimiter.
// Nested pairs are stripped until none remain; undelimited input is inline.
func StripDelimiters(raw string) (body string, display bool) {
	body = strings.TrimSpace(raw)
	first := true
	for {
		inner, isDisplay, ok := stripPair(body)
		if !ok {
			return body, display
		}
		if first {
			display = isDisplay
			first = false
		}
		body = strings.TrimSpace(inner)
	}
}

func stripPair(s string) (inner string, display, ok bool) {
	pairs := []struct {
		open, close string
		display     bool
	}{
		{"$$", "$$", true},
		{`\[`, `\]`, true},
		{`\(`, `\)`, false},
	}
	for _, p := range pairs {
		if !strings.HasPrefix(s, p.open) || !strings.HasSuffix(s, p.close) {
			continue
		}
		if len(s) < len(p.open)+len(p.close) {
			return "", p.display, true
		}
		return s[len(p.open) : len(s)-len(p.close)], p.display, true
	}
	return s, false, false
}

// IsTextMacro reports whether name (without backslash) is a text-like macro.
func IsTextMacro(name string) bool {
	return textMacros[name]
}

// CollapseArgument repairs per-character splitting inside a text-like macro
// argument. Tokens that are all single characters or punctuation are joined
// without separator; anything else is joined with single spaces.
func CollapseArgument(content string) string {
	tokens := strings.Fields(content)
	if len(tokens) == 0 {
		return content
	}
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) != 1 && !punctuationTokens[tok] {
			return strings.Join(tokens, " ")
		}
	}
	return strings.Join(tokens, "")
}

// flattenWhitespace maps every Unicode space (newlines included) to ASCII space.
func flattenWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

func joinCommandBrace(s string) string {
	return commandBrace.ReplaceAllString(s, `\$1{`)
}

func tightenScripts(s string) string {
	s = tokenBeforeScript.ReplaceAllString(s, "$1$2")
	s = scriptBeforeBrace.ReplaceAllString(s, "$1{")
	s = scriptBeforeMacro.ReplaceAllString(s, `$1\`)
	return scriptSpace.ReplaceAllString(s, "$1")
}

func tightenAdjacency(s string) string {
	s = tokenBeforeMacro.ReplaceAllString(s, `$1\`)
	s = tokenBeforeParen.ReplaceAllString(s, "$1(")
	s = parenBeforeToken.ReplaceAllString(s, ")$1")
	s = fenceOpen.ReplaceAllString(s, `\left$1`)
	s = fenceClose.ReplaceAllString(s, `\right$1`)
	return bigOperatorLimit.ReplaceAllString(s, `\${1}_{`)
}

func trimBracePadding(s string) string {
	s = braceOpenSpace.ReplaceAllString(s, "{")
	return braceCloseSpace.ReplaceAllString(s, "}")
}

func collapseTextArguments(s string) string {
	return textMacroArgument.ReplaceAllStringFunc(s, func(m string) string {
		sub := textMacroArgument.FindStringSubmatch(m)
		if !IsTextMacro(sub[1]) {
			return m
		}
		return `\` + sub[1] + "{" + CollapseArgument(sub[2]) + "}"
	})
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
