package omml

import (
	"errors"
	"strings"
	"testing"
)

func math(body string) string {
	return `<math xmlns="http://www.w3.org/1998/Math/MathML" display="inline">` + body + `</math>`
}

func run(text string) string {
	return `<m:r><m:t xml:space="preserve">` + text + `</m:t></m:r>`
}

func plainRun(text string) string {
	return `<m:r><m:rPr><m:sty m:val="p"/></m:rPr><m:t xml:space="preserve">` + text + `</m:t></m:r>`
}

// ---------------------------------------------------------------------------
// TestConvert - MathML element mapping
// ---------------------------------------------------------------------------

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"identifier", `<mi>x</mi>`, run("x")},
		{"number is upright", `<mn>42</mn>`, plainRun("42")},
		{"multi-letter identifier is upright", `<mi>sin</mi>`, plainRun("sin")},
		{
			name:  "superscript",
			input: `<msup><mi>x</mi><mn>2</mn></msup>`,
			want:  `<m:sSup><m:e>` + run("x") + `</m:e><m:sup>` + plainRun("2") + `</m:sup></m:sSup>`,
		},
		{
			name:  "sub and sup",
			input: `<msubsup><mi>x</mi><mi>i</mi><mn>2</mn></msubsup>`,
			want:  `<m:sSubSup><m:e>` + run("x") + `</m:e><m:sub>` + run("i") + `</m:sub><m:sup>` + plainRun("2") + `</m:sup></m:sSubSup>`,
		},
		{
			name:  "fraction",
			input: `<mfrac><mi>a</mi><mi>b</mi></mfrac>`,
			want:  `<m:f><m:num>` + run("a") + `</m:num><m:den>` + run("b") + `</m:den></m:f>`,
		},
		{
			name:  "binomial has no bar",
			input: `<mfrac linethickness="0"><mi>n</mi><mi>k</mi></mfrac>`,
			want:  `<m:f><m:fPr><m:type m:val="noBar"/></m:fPr><m:num>` + run("n") + `</m:num><m:den>` + run("k") + `</m:den></m:f>`,
		},
		{
			name:  "square root",
			input: `<msqrt><mi>x</mi></msqrt>`,
			want:  `<m:rad><m:radPr><m:degHide m:val="1"/></m:radPr><m:deg/><m:e>` + run("x") + `</m:e></m:rad>`,
		},
		{
			name:  "nth root",
			input: `<mroot><mi>x</mi><mn>3</mn></mroot>`,
			want:  `<m:rad><m:deg>` + plainRun("3") + `</m:deg><m:e>` + run("x") + `</m:e></m:rad>`,
		},
		{
			name:  "sum with limits takes operand",
			input: `<munderover><mo>∑</mo><mi>i</mi><mi>n</mi></munderover><mi>x</mi>`,
			want: `<m:nary><m:naryPr><m:chr m:val="∑"/><m:limLoc m:val="undOvr"/></m:naryPr>` +
				`<m:sub>` + run("i") + `</m:sub><m:sup>` + run("n") + `</m:sup><m:e>` + run("x") + `</m:e></m:nary>`,
		},
		{
			name:  "integral scripts beside",
			input: `<msub><mo>∫</mo><mn>0</mn></msub>`,
			want: `<m:nary><m:naryPr><m:chr m:val="∫"/><m:limLoc m:val="subSup"/><m:supHide m:val="1"/></m:naryPr>` +
				`<m:sub>` + plainRun("0") + `</m:sub><m:sup></m:sup><m:e></m:e></m:nary>`,
		},
		{
			name:  "limit",
			input: `<munder><mo>lim</mo><mi>x</mi></munder>`,
			want:  `<m:limLow><m:e>` + plainRun("lim") + `</m:e><m:lim>` + run("x") + `</m:lim></m:limLow>`,
		},
		{
			name:  "accent",
			input: `<mover accent="true"><mi>x</mi><mo>^</mo></mover>`,
			want:  `<m:acc><m:accPr><m:chr m:val="^"/></m:accPr><m:e>` + run("x") + `</m:e></m:acc>`,
		},
		{
			name:  "overline",
			input: `<mover accent="true"><mi>x</mi><mo>‾</mo></mover>`,
			want:  `<m:bar><m:barPr><m:pos m:val="top"/></m:barPr><m:e>` + run("x") + `</m:e></m:bar>`,
		},
		{
			name:  "fenced row",
			input: `<mrow><mo fence="true" form="prefix">(</mo><mi>x</mi><mo fence="true" form="postfix">)</mo></mrow>`,
			want:  `<m:d><m:dPr><m:begChr m:val="("/><m:endChr m:val=")"/></m:dPr><m:e>` + run("x") + `</m:e></m:d>`,
		},
		{
			name:  "ragged matrix padded",
			input: `<mtable><mtr><mtd><mi>a</mi></mtd><mtd><mi>b</mi></mtd></mtr><mtr><mtd><mi>c</mi></mtd></mtr></mtable>`,
			want: `<m:m><m:mPr><m:mcs><m:mc><m:mcPr><m:count m:val="2"/><m:mcJc m:val="center"/></m:mcPr></m:mc></m:mcs></m:mPr>` +
				`<m:mr><m:e>` + run("a") + `</m:e><m:e>` + run("b") + `</m:e></m:mr>` +
				`<m:mr><m:e>` + run("c") + `</m:e><m:e></m:e></m:mr></m:m>`,
		},
		{"bold variant", `<mi mathvariant="bold">x</mi>`, `<m:r><m:rPr><m:sty m:val="b"/></m:rPr><m:t xml:space="preserve">x</m:t></m:r>`},
		{
			name:  "double-struck variant",
			input: `<mi mathvariant="double-struck">R</mi>`,
			want:  `<m:r><m:rPr><m:scr m:val="double-struck"/><m:sty m:val="p"/></m:rPr><m:t xml:space="preserve">R</m:t></m:r>`,
		},
		{"text keeps spaces", `<mtext>if </mtext>`, plainRun("if ")},
		{"escaped operator", `<mo>&lt;</mo>`, plainRun("&lt;")},
		{"negative space dropped", `<mspace width="-0.167em"></mspace>`, ""},
		{"boxed", `<menclose notation="box"><mi>x</mi></menclose>`, `<m:borderBox><m:e>` + run("x") + `</m:e></m:borderBox>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Convert(math(tt.input))
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			want := "<m:oMath>" + tt.want + "</m:oMath>"
			if got != want {
				t.Errorf("Convert(%s)\n got: %s\nwant: %s", tt.input, got, want)
			}
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"not xml", "<math><mi>x</math>", ErrMalformedMathML},
		{"wrong root", "<mrow><mi>x</mi></mrow>", ErrMalformedMathML},
		{"empty", "", ErrMalformedMathML},
		{"unknown element", math("<mglyph/>"), ErrUnsupportedElement},
		{"fraction arity", math("<mfrac><mi>a</mi></mfrac>"), ErrUnexpectedChildren},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Convert(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestConvert_NoNamespaceDeclaration(t *testing.T) {
	t.Parallel()

	got, err := Convert(math("<mi>x</mi>"))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if strings.Contains(got, "xmlns") {
		t.Errorf("Convert() = %s, want no namespace declaration", got)
	}
}
