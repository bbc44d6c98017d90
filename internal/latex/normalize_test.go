package latex

import "testing"

// ---------------------------------------------------------------------------
// TestNormalize - Rule pipeline output
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"split text word", `\text{f o o}`, `\text{foo}`},
		{"real words untouched", `\text{hello world}`, `\text{hello world}`},
		{"display dollars", "$$x^2 + y^2 = z^2$$", "x^2 + y^2 = z^2"},
		{"space before brace", `\text {x}`, `\text{x}`},
		{"subscript spacing", "a _ {i}", "a_{i}"},
		{"superscript spacing", "x ^ 2", "x^2"},
		{"space before macro", `a \cdot b`, `a\cdot b`},
		{"space before paren", "f (x)", "f(x)"},
		{"space after paren", "(x) y", "(x)y"},
		{"fences", `\left ( x \right )`, `\left( x\right)`},
		{"newlines", "a\nb\r\nc", "a b c"},
		{"sum limits", `\sum _{i=1}^{n}`, `\sum_{i=1}^{n}`},
		{"bold letters", `\mathbf{x y}`, `\mathbf{xy}`},
		{"operatorname words", `\operatorname{arg  max}`, `\operatorname{arg max}`},
		{"punctuation tokens", `\text{ a , b }`, `\text{a,b}`},
		{"non text macro untouched", `\frac{a b}{c}`, `\frac{a b}{c}`},
		{"bracket display", `\[ a \]`, "a"},
		{"paren inline", `\( a \)`, "a"},
		{"unicode spaces", "a 　b", "a b"},
		{"nested text macro", `\text{\mathrm{a b} c}`, `\text{\mathrm{ab} c}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		`\text{f o o}`,
		"$$ $$x$$ $$",
		`\[\(a\)\]`,
		`\left ( \frac {a} {b} \right ) ^ { 2 }`,
		"x _ 1 + y _ { 2 } \\cdot z",
		`\text{ \mathbf { a b } c }`,
		"a _ b",
		`\text{( a}`,
		`\(x\) \(y\)`,
		`\sum _ {k} \int _{0}^{1} f (x) \, dx`,
		`\operatorname {s i n} (x)`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()

			once := Normalize(in)
			twice := Normalize(once)
			if once != twice {
				t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStripDelimiters - Display flag detection
// ---------------------------------------------------------------------------

func TestStripDelimiters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		wantBody    string
		wantDisplay bool
	}{
		{"dollars", "$$x$$", "x", true},
		{"brackets", `\[x\]`, "x", true},
		{"parens", `\(x\)`, "x", false},
		{"undelimited", "x", "x", false},
		{"bare dollars", "$$", "", true},
		{"nested", `$$\(x\)$$`, "x", true},
		{"padded", "  $$ x $$  ", "x", true},
		{"single dollar kept", "$x$", "$x$", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body, display := StripDelimiters(tt.input)
			if body != tt.wantBody {
				t.Errorf("StripDelimiters(%q) body = %q, want %q", tt.input, body, tt.wantBody)
			}
			if display != tt.wantDisplay {
				t.Errorf("StripDelimiters(%q) display = %v, want %v", tt.input, display, tt.wantDisplay)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRules - Each named rule in isolation
// ---------------------------------------------------------------------------

func TestRules(t *testing.T) {
	t.Parallel()

	byName := make(map[string]Rule, len(DefaultRules))
	for _, r := range DefaultRules {
		byName[r.Name] = r
	}

	tests := []struct {
		rule  string
		input string
		want  string
	}{
		{"flatten-whitespace", "a\tb\nc", "a b c"},
		{"command-brace", `\mathrm  {d}`, `\mathrm{d}`},
		{"script-operators", "x _ {1} ^ \\alpha", `x_{1}^\alpha`},
		{"token-adjacency", `a \b (c) d`, `a\b(c)d`},
		{"brace-padding", "{ a }", "{a}"},
		{"text-macro-arguments", `\mathit{a b}\frac{c d}{e}`, `\mathit{ab}\frac{c d}{e}`},
		{"collapse-whitespace", "  a   b  ", "a b"},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			t.Parallel()

			r, ok := byName[tt.rule]
			if !ok {
				t.Fatalf("rule %q not in DefaultRules", tt.rule)
			}
			if got := r.Apply(tt.input); got != tt.want {
				t.Errorf("%s(%q) = %q, want %q", tt.rule, tt.input, got, tt.want)
			}
		})
	}
}

func TestCollapseArgument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"f o o", "foo"},
		{"hello world", "hello world"},
		{"a - b", "a-b"},
		{"x'", "x'"},
		{"", ""},
		{"   ", "   "},
		{"é t é", "été"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := CollapseArgument(tt.input); got != tt.want {
				t.Errorf("CollapseArgument(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
