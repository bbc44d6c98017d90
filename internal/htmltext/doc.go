// Package htmltext flattens the small HTML fragments found in extracted
// content (inline markup, table bodies) into text for backends that cannot
// carry HTML.
package htmltext
