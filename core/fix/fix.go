// Package fix rewrites fixable malformed quote candidates into the
// canonical inline shape and re-verifies the result through the matcher.
package fix

import (
	"sort"

	"github.com/FocuswithJustin/pullquote/core/quote"
)

// Result is the outcome of a fix pass.
type Result struct {
	// Doc is the rewritten document. Equal to the input when nothing
	// was fixable.
	Doc string

	// Records is the fresh matcher output for Doc. This is the
	// verification step: a clean pass leaves no fixable records.
	Records []quote.Record

	// Fixed is the number of records rewritten.
	Fixed int
}

// Clean reports whether the verification pass found no fixable records
// remaining.
func (r Result) Clean() bool {
	for _, rec := range r.Records {
		if rec.Kind.Fixable() {
			return false
		}
	}
	return true
}

// Apply rewrites every fixable record in doc into its canonical form and
// returns the new document together with a fresh matcher pass over it.
// The input document is never mutated; records with no safe rewrite
// (MalformedOther) are left untouched. Spans are spliced in descending
// order so earlier offsets stay valid.
func Apply(doc string, recs []quote.Record) Result {
	fixable := make([]quote.Record, 0, len(recs))
	for _, r := range recs {
		if r.Kind.Fixable() {
			fixable = append(fixable, r)
		}
	}
	sort.Slice(fixable, func(a, b int) bool { return fixable[a].Span.Start > fixable[b].Span.Start })

	out := doc
	for _, r := range fixable {
		out = out[:r.Span.Start] + r.Canonical() + out[r.Span.End:]
	}

	return Result{
		Doc:     out,
		Records: quote.Match(out),
		Fixed:   len(fixable),
	}
}
