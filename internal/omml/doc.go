// Package omml translates MathML documents into Office Math Markup
// (OMML), the equation format embedded in word-processor documents.
//
// Convert returns a bare <m:oMath> fragment without namespace declarations;
// callers decide where the m prefix is bound.
package omml
