// Package docx writes Office Open XML word-processing documents.
//
// The writer covers what extracted content needs: styled paragraphs with
// formatted runs, Office Math, numbered and bulleted lists, inline pictures
// and simple grid tables. Documents are assembled in memory and serialized
// once with Document.WriteTo.
package docx
