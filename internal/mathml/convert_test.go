package mathml

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-docexport/internal/latex"
)

const inlineRoot = `<math xmlns="http://www.w3.org/1998/Math/MathML" display="inline">`

// ---------------------------------------------------------------------------
// TestConvert - Expression shapes
// ---------------------------------------------------------------------------

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"superscript", "x^2", `<msup><mi>x</mi><mn>2</mn></msup>`},
		{"subscript group", "a_{ij}", `<msub><mi>a</mi><mrow><mi>i</mi><mi>j</mi></mrow></msub>`},
		{"sub and sup", "x_1^2", `<msubsup><mi>x</mi><mn>1</mn><mn>2</mn></msubsup>`},
		{"fraction", `\frac{a}{b}`, `<mfrac><mi>a</mi><mi>b</mi></mfrac>`},
		{"bare fraction digits", `\frac12`, `<mfrac><mn>1</mn><mn>2</mn></mfrac>`},
		{"square root", `\sqrt{x}`, `<msqrt><mi>x</mi></msqrt>`},
		{"nth root", `\sqrt[3]{x}`, `<mroot><mi>x</mi><mn>3</mn></mroot>`},
		{"decimal number", "3.14", `<mn>3.14</mn>`},
		{"minus sign", "a - b", `<mi>a</mi><mo>−</mo><mi>b</mi>`},
		{"greek", `\alpha + \beta`, `<mi>α</mi><mo>+</mo><mi>β</mi>`},
		{"relation", `a \leq b`, `<mi>a</mi><mo>≤</mo><mi>b</mi>`},
		{"bold", `\mathbf{x}`, `<mi mathvariant="bold">x</mi>`},
		{"text", `\text{if } x`, `<mtext>if </mtext><mi>x</mi>`},
		{"function", `\sin x`, `<mi>sin</mi><mi>x</mi>`},
		{"operatorname", `\operatorname{tr} A`, `<mi mathvariant="normal">tr</mi><mi>A</mi>`},
		{
			name:  "sum limits",
			input: `\sum_{i=1}^{n} i`,
			want:  `<munderover><mo largeop="true">∑</mo><mrow><mi>i</mi><mo>=</mo><mn>1</mn></mrow><mi>n</mi></munderover><mi>i</mi>`,
		},
		{
			name:  "integral scripts beside",
			input: `\int_0^1`,
			want:  `<msubsup><mo largeop="true">∫</mo><mn>0</mn><mn>1</mn></msubsup>`,
		},
		{
			name:  "limit",
			input: `\lim_{x \to 0}`,
			want:  `<munder><mo movablelimits="true">lim</mo><mrow><mi>x</mi><mo>→</mo><mn>0</mn></mrow></munder>`,
		},
		{
			name:  "fences",
			input: `\left( x \right)`,
			want:  `<mrow><mo fence="true" form="prefix">(</mo><mi>x</mi><mo fence="true" form="postfix">)</mo></mrow>`,
		},
		{
			name:  "open fence only",
			input: `\left\{ x \right.`,
			want:  `<mrow><mo fence="true" form="prefix">{</mo><mi>x</mi><mo fence="true" form="postfix"></mo></mrow>`,
		},
		{"accent", `\hat{x}`, `<mover accent="true"><mi>x</mi><mo stretchy="false">^</mo></mover>`},
		{"negation", `a \not= b`, `<mi>a</mi><mo>≠</mo><mi>b</mi>`},
		{"negated macro", `a \not\in B`, `<mi>a</mi><mo>∉</mo><mi>B</mi>`},
		{"ignored style", `\displaystyle x`, `<mi>x</mi>`},
		{"thin space", `a\,b`, `<mi>a</mi><mspace width="0.167em"></mspace><mi>b</mi>`},
		{"escaped chars", `5\%`, `<mn>5</mn><mi>%</mi>`},
		{"comment dropped", "x % note", `<mi>x</mi>`},
		{
			name:  "binomial",
			input: `\binom{n}{k}`,
			want:  `<mrow><mo fence="true" form="prefix">(</mo><mfrac linethickness="0"><mi>n</mi><mi>k</mi></mfrac><mo fence="true" form="postfix">)</mo></mrow>`,
		},
		{
			name:  "matrix",
			input: `\begin{matrix} a & b \\ c & d \end{matrix}`,
			want:  `<mtable><mtr><mtd><mi>a</mi></mtd><mtd><mi>b</mi></mtd></mtr><mtr><mtd><mi>c</mi></mtd><mtd><mi>d</mi></mtd></mtr></mtable>`,
		},
		{
			name:  "trailing row separator",
			input: `\begin{matrix} a \\ \end{matrix}`,
			want:  `<mtable><mtr><mtd><mi>a</mi></mtd></mtr></mtable>`,
		},
		{
			name:  "cases",
			input: `\begin{cases} 1 & x \end{cases}`,
			want:  `<mrow><mo fence="true" form="prefix">{</mo><mtable><mtr><mtd><mn>1</mn></mtd><mtd><mi>x</mi></mtd></mtr></mtable><mo fence="true" form="postfix"></mo></mrow>`,
		},
		{
			name:  "array column spec",
			input: `\begin{array}{cc} 1 & 2 \end{array}`,
			want:  `<mtable><mtr><mtd><mn>1</mn></mtd><mtd><mn>2</mn></mtd></mtr></mtable>`,
		},
		{"boxed", `\boxed{x}`, `<menclose notation="box"><mi>x</mi></menclose>`},
		{"escaped text", `a<b`, `<mi>a</mi><mo>&lt;</mo><mi>b</mi>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Convert(tt.input, false)
			if err != nil {
				t.Fatalf("Convert(%q) error = %v", tt.input, err)
			}
			want := inlineRoot + tt.want + "</math>"
			if got != want {
				t.Errorf("Convert(%q)\n got: %s\nwant: %s", tt.input, got, want)
			}
		})
	}
}

func TestConvert_DisplayAttribute(t *testing.T) {
	t.Parallel()

	got, err := Convert("x", true)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(got, `display="block"`) {
		t.Errorf("Convert(x, true) = %s, want display=\"block\"", got)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Errors - Unsupported input is reported, never panics
// ---------------------------------------------------------------------------

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"unknown macro", `\foo{x}`, ErrUnknownMacro},
		{"missing fraction argument", `\frac{a}`, ErrMissingArgument},
		{"dangling superscript", `x^`, ErrMissingArgument},
		{"left without right", `\left( x`, ErrUnbalancedFence},
		{"right without left", `x \right)`, ErrUnbalancedFence},
		{"unknown environment", `\begin{tikzpicture}x\end{tikzpicture}`, ErrUnknownEnvironment},
		{"missing end", `\begin{matrix} a`, ErrSyntax},
		{"mismatched end", `\begin{matrix} a \end{pmatrix}`, ErrSyntax},
		{"double superscript", `x^1^2`, ErrSyntax},
		{"unbalanced brace", `{a`, latex.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Convert(tt.input, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
