package latex

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`\\tag\s*\{([^{}]*)\}`)

// aliases rewrite macro spellings the MathML converter does not know.
var aliases = strings.NewReplacer(
	`\pmb`, `\boldsymbol`,
	`\mathbf `, `\mathbf`,
	`\boldsymbol `, `\boldsymbol`,
)

// HasTag reports whether expr contains a \tag annotation.
func HasTag(expr string) bool {
	return strings.Contains(expr, `\tag`)
}

// SplitTag removes every \tag{...} from expr and returns the remaining
// expression together with the text of the last tag found.
func SplitTag(expr string) (body, tag string) {
	body = tagPattern.ReplaceAllStringFunc(expr, func(m string) string {
		tag = strings.TrimSpace(tagPattern.FindStringSubmatch(m)[1])
		return ""
	})
	return strings.TrimSpace(body), tag
}

// Prepare applies the alias rewrites expected by the MathML converter.
func Prepare(expr string) string {
	return aliases.Replace(strings.TrimSpace(expr))
}

// WithTag appends a tag as a parenthesized suffix.
func WithTag(text, tag string) string {
	if tag == "" {
		return text
	}
	return text + " (" + tag + ")"
}
