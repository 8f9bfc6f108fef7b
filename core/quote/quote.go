// Package quote defines the quote record model and the matcher that
// recognizes attributed quotes in normalized markdown text.
//
// The canonical well-formed shape is:
//
//	"quote text" (Attribution Name)
//
// with single or double quote marks and an optional dash between the
// closing mark and the opening parenthesis. The matcher also recognizes
// two fixable malformed shapes (standalone quote followed by an
// attribution line, and a blockquote followed by a bare name line) plus
// a catch-all malformed class for quote-like lines with no attribution
// nearby.
package quote

import "fmt"

// Kind classifies a matched quote candidate.
type Kind int

const (
	// WellFormedInline is the canonical shape: "text" (Name).
	WellFormedInline Kind = iota
	// WellFormedDashed is the canonical shape with a dash separator: "text" - (Name).
	WellFormedDashed
	// StandaloneNeedsAttribution is a quote on its own line whose
	// attribution sits on the following line. Fixable.
	StandaloneNeedsAttribution
	// BlockquoteNeedsAttribution is a markdown blockquote followed by a
	// bare name line. Fixable.
	BlockquoteNeedsAttribution
	// MalformedOther is a quote-like span with no recognizable
	// attribution nearby. Reported but not fixable.
	MalformedOther
)

// String returns a stable identifier for the kind, used in reports and logs.
func (k Kind) String() string {
	switch k {
	case WellFormedInline:
		return "well-formed"
	case WellFormedDashed:
		return "well-formed-dashed"
	case StandaloneNeedsAttribution:
		return "standalone-needs-attribution"
	case BlockquoteNeedsAttribution:
		return "blockquote-needs-attribution"
	case MalformedOther:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// WellFormed reports whether the kind is one of the canonical shapes.
func (k Kind) WellFormed() bool {
	return k == WellFormedInline || k == WellFormedDashed
}

// Fixable reports whether the fixer has a safe rewrite for this kind.
func (k Kind) Fixable() bool {
	return k == StandaloneNeedsAttribution || k == BlockquoteNeedsAttribution
}

// Span is a half-open byte range [Start, End) into the matched document.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Overlaps reports whether two spans share any bytes.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Record is a single matched quote candidate. Spans refer to the
// normalized document the matcher was given, so later rewrites can
// splice exact byte ranges.
type Record struct {
	// Span is the exact source range matched, including quote marks,
	// any dash separator, the attribution, and (for multi-line shapes)
	// the attribution line.
	Span Span `json:"span"`

	// Text is the quote content with the surrounding marks stripped.
	Text string `json:"text"`

	// Attribution is the person name as captured, trimmed of
	// surrounding whitespace, parentheses, and a leading dash.
	// Empty means no attribution was found.
	Attribution string `json:"attribution,omitempty"`

	// Kind classifies the shape that matched.
	Kind Kind `json:"kind"`

	// Mark is the quote mark the candidate used ('"' or '\'').
	Mark byte `json:"-"`

	// Line is the 1-based line number where the span starts.
	Line int `json:"line"`
}

// WellFormed reports whether the record matched a canonical shape.
func (r Record) WellFormed() bool { return r.Kind.WellFormed() }

// Canonical returns the canonical well-formed rewrite for the record:
// the quote text in marks followed by the parenthesized attribution.
// Standalone quotes keep their original mark; blockquotes always get
// double marks since their content never carried marks of its own.
func (r Record) Canonical() string {
	mark := r.Mark
	if mark == 0 || r.Kind == BlockquoteNeedsAttribution {
		mark = '"'
	}
	return fmt.Sprintf("%c%s%c (%s)", mark, r.Text, mark, r.Attribution)
}
