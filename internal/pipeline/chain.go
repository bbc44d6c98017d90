package pipeline

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-docexport/internal/latex"
	"github.com/alnah/go-docexport/internal/mathml"
	"github.com/alnah/go-docexport/internal/omml"
)

// MathNamespace is the Office Math namespace bound to the m prefix.
const MathNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/math"

// ErrMathConversion indicates a LaTeX expression could not be converted to
// Office Math. Callers render PlainText instead.
var ErrMathConversion = errors.New("math conversion failed")

// ErrEmptyExpression indicates nothing was left to typeset once the tag
// was removed.
var ErrEmptyExpression = errors.New("empty expression")

// Conversion stages reported by ConversionError.
const (
	StageMathML    = "latex-to-mathml"
	StageOMML      = "mathml-to-omml"
	StageNamespace = "namespace"
	StageXML       = "well-formedness"
)

// ConversionError records which stage of the chain failed.
type ConversionError struct {
	Stage string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%v at %s: %v", ErrMathConversion, e.Stage, e.Err)
}

// Is matches ErrMathConversion.
func (e *ConversionError) Is(target error) bool {
	return target == ErrMathConversion
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Fragment is converted math ready for embedding in a document body.
// XML is an <m:oMath> run or, for display math, an <m:oMathPara>; both
// declare the m namespace. Tag holds the text of a removed \tag{...}.
type Fragment struct {
	XML  string
	Tag  string
	Body string
}

// MathConverter defines the contract for LaTeX to Office Math conversion.
type MathConverter interface {
	Render(expr string, inline bool) (Fragment, error)
}

// Chain converts LaTeX to Office Math through MathML.
type Chain struct{}

// Compile-time interface check.
var _ MathConverter = (*Chain)(nil)

// NewChain creates a conversion chain.
func NewChain() *Chain {
	return &Chain{}
}

// Render converts a cleaned, undelimited LaTeX expression. A trailing
// \tag{...} is removed and returned in Fragment.Tag.
// Failures are returned as *ConversionError.
func (c *Chain) Render(expr string, inline bool) (Fragment, error) {
	body, tag := latex.SplitTag(expr)
	body = latex.Prepare(body)
	frag := Fragment{Tag: tag, Body: body}
	if body == "" {
		return frag, &ConversionError{Stage: StageMathML, Err: ErrEmptyExpression}
	}

	doc, err := mathml.Convert(body, !inline)
	if err != nil {
		return frag, &ConversionError{Stage: StageMathML, Err: err}
	}

	math, err := omml.Convert(doc)
	if err != nil {
		return frag, &ConversionError{Stage: StageOMML, Err: err}
	}

	math, err = bindNamespace(math)
	if err != nil {
		return frag, &ConversionError{Stage: StageNamespace, Err: err}
	}
	if !inline {
		math = `<m:oMathPara xmlns:m="` + MathNamespace + `">` + math + `</m:oMathPara>`
	}
	if err := checkWellFormed(math); err != nil {
		return frag, &ConversionError{Stage: StageXML, Err: err}
	}

	frag.XML = math
	return frag, nil
}

// bindNamespace verifies the fragment root and declares the m prefix when
// the converter left it unbound.
func bindNamespace(fragment string) (string, error) {
	const root = "<m:oMath"
	if !strings.HasPrefix(fragment, root) {
		return "", fmt.Errorf("unexpected root %.20q", fragment)
	}
	head := fragment[:strings.IndexByte(fragment, '>')+1]
	if strings.Contains(head, "xmlns:m=") {
		return fragment, nil
	}
	return root + ` xmlns:m="` + MathNamespace + `"` + fragment[len(root):], nil
}

func checkWellFormed(fragment string) error {
	dec := xml.NewDecoder(strings.NewReader(fragment))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// PlainText renders expr as readable text with a " (tag)" suffix when the
// expression carried a \tag. PlainText never fails.
func PlainText(expr string) string {
	body, tag := latex.SplitTag(expr)
	return latex.WithTag(strings.TrimSpace(latex.PlainText(body)), tag)
}
