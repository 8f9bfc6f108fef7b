// Package normalize canonicalizes quote glyphs before pattern matching.
// Word processors and copy-paste introduce curly quotes, primes, and
// em/en dashes; the matcher only understands the ASCII forms.
package normalize

import "strings"

// glyphs maps every recognized fancy glyph to its ASCII canonical form.
// Replacements are all single-rune to single-rune, so the line count and
// rune count of the document never change.
var glyphs = map[rune]rune{
	// Double quotes
	'“': '"', // left double quotation mark
	'”': '"', // right double quotation mark
	'″': '"', // double prime
	'❝': '"', // heavy double turned comma ornament
	'❞': '"', // heavy double comma ornament
	'〝': '"', // reversed double prime quotation mark
	'〞': '"', // double prime quotation mark
	'„': '"', // double low-9 quotation mark
	'‟': '"', // double high-reversed-9 quotation mark

	// Single quotes
	'‘': '\'', // left single quotation mark
	'’': '\'', // right single quotation mark
	'′': '\'', // prime
	'‚': '\'', // single low-9 quotation mark
	'‛': '\'', // single high-reversed-9 quotation mark
	'❛': '\'', // heavy single turned comma ornament
	'❜': '\'', // heavy single comma ornament

	// Dashes used as quote-attribution separators
	'–': '-', // en dash
	'—': '-', // em dash
}

// Text returns a copy of the document with every recognized fancy quote
// glyph mapped to ASCII. Unrecognized characters pass through unchanged
// and the number of lines is preserved.
func Text(doc string) string {
	return strings.Map(func(r rune) rune {
		if repl, ok := glyphs[r]; ok {
			return repl
		}
		return r
	}, doc)
}
