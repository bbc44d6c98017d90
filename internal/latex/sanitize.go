package latex

import "strings"

// Sanitize parses expr and re-serializes it canonically: text-like macro
// arguments are collapsed, whitespace between a macro and its arguments is
// dropped, and whitespace runs become single spaces.
//
// Sanitize never fails. When expr cannot be parsed, or the result would be
// empty, expr is returned unchanged.
func Sanitize(expr string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = expr
		}
	}()

	nodes, err := Parse(expr)
	if err != nil {
		return expr
	}

	var b strings.Builder
	writeNodes(&b, nodes, collapseFirstTextArgument)

	cleaned := strings.ReplaceAll(b.String(), `\ `, `\`)
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return expr
	}
	return cleaned
}

func collapseFirstTextArgument(macro string, idx int, content string) string {
	if idx == 0 && IsTextMacro(macro) {
		return CollapseArgument(content)
	}
	return content
}
