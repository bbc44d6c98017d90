package latex

import (
	"regexp"
	"strings"
)

// plainSymbols maps control sequences to the glyph used in plain-text output.
var plainSymbols = map[string]string{
	"rightarrow":     "→",
	"leftarrow":      "←",
	"Rightarrow":     "⇒",
	"Leftarrow":      "⇐",
	"leftrightarrow": "↔",
	"mapsto":         "↦",
	"to":             "→",
	"leq":            "≤",
	"le":             "≤",
	"geq":            "≥",
	"ge":             "≥",
	"times":          "×",
	"pm":             "±",
	"mp":             "∓",
	"cdot":           "·",
	"neq":            "≠",
	"ne":             "≠",
	"approx":         "≈",
	"equiv":          "≡",
	"infty":          "∞",
	"partial":        "∂",
	"nabla":          "∇",
	"sum":            "∑",
	"prod":           "∏",
	"int":            "∫",
	"in":             "∈",
	"subset":         "⊂",
	"cup":            "∪",
	"cap":            "∩",
	"forall":         "∀",
	"exists":         "∃",
	"alpha":          "α",
	"beta":           "β",
	"gamma":          "γ",
	"delta":          "δ",
	"epsilon":        "ε",
	"theta":          "θ",
	"lambda":         "λ",
	"mu":             "μ",
	"pi":             "π",
	"sigma":          "σ",
	"omega":          "ω",
	"Delta":          "Δ",
	"Sigma":          "Σ",
	"Omega":          "Ω",
}

var (
	plainSymbolPattern = regexp.MustCompile(`\\([A-Za-z]+)`)
	plainTextMacro     = regexp.MustCompile(`\\(mathrm|text|operatorname|mathsf|mathbf|boldsymbol)\s*\{([^{}]*)\}`)
)

// PlainText renders expr as readable text: known control sequences become
// Unicode glyphs, text-like macros are unwrapped and spacing escapes dropped.
// PlainText is pure string substitution and cannot fail.
func PlainText(expr string) string {
	text := plainSymbolPattern.ReplaceAllStringFunc(expr, func(m string) string {
		if glyph, ok := plainSymbols[m[1:]]; ok {
			return glyph
		}
		return m
	})
	text = plainTextMacro.ReplaceAllStringFunc(text, func(m string) string {
		return CollapseArgument(plainTextMacro.FindStringSubmatch(m)[2])
	})
	text = strings.ReplaceAll(text, `\,`, " ")
	return strings.ReplaceAll(text, `\ `, " ")
}
