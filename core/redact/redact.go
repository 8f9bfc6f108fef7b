// Package redact produces per-person document variants where every
// other person's well-formed quotes are replaced by a placeholder.
package redact

import (
	"sort"

	"github.com/FocuswithJustin/pullquote/core/quote"
)

// Default placeholder strings. Callers can override them through Options;
// nothing in this package reads them implicitly.
const (
	DefaultPlaceholder       = "[QUOTE REDACTED]"
	DefaultReviewPlaceholder = "[QUOTE REDACTED FOR REVIEW]"
)

// Options configures a redaction pass.
type Options struct {
	// Target is the attribution whose quotes stay visible. Comparison
	// is exact (case- and whitespace-sensitive).
	Target string

	// KeepNames keeps the attribution visible on redacted quotes,
	// replacing only the quote text. When false the whole span,
	// attribution included, is replaced.
	KeepNames bool

	// Placeholder replaces the whole quote span when KeepNames is
	// false. Defaults to DefaultPlaceholder.
	Placeholder string

	// ReviewPlaceholder replaces the quote text when KeepNames is
	// true. Defaults to DefaultReviewPlaceholder.
	ReviewPlaceholder string
}

func (o Options) placeholder() string {
	if o.Placeholder != "" {
		return o.Placeholder
	}
	return DefaultPlaceholder
}

func (o Options) reviewPlaceholder() string {
	if o.ReviewPlaceholder != "" {
		return o.ReviewPlaceholder
	}
	return DefaultReviewPlaceholder
}

// Apply returns a copy of doc where every well-formed record whose
// attribution differs from the target is redacted. The target's records
// are byte-identical to the input, and malformed records always pass
// through untouched since their attribution is not reliably known.
// Spans are spliced in descending order so earlier offsets stay valid.
func Apply(doc string, recs []quote.Record, opts Options) string {
	redactable := make([]quote.Record, 0, len(recs))
	for _, r := range recs {
		if r.WellFormed() && r.Attribution != opts.Target {
			redactable = append(redactable, r)
		}
	}
	sort.Slice(redactable, func(a, b int) bool { return redactable[a].Span.Start > redactable[b].Span.Start })

	out := doc
	for _, r := range redactable {
		if opts.KeepNames {
			// The span starts at the opening mark, so the quote text
			// occupies the bytes right after it. Dash and attribution
			// stay verbatim.
			start := r.Span.Start + 1
			end := start + len(r.Text)
			out = out[:start] + opts.reviewPlaceholder() + out[end:]
		} else {
			mark := string(r.Mark)
			out = out[:r.Span.Start] + mark + opts.placeholder() + mark + out[r.Span.End:]
		}
	}
	return out
}
