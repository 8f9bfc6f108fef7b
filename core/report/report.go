// Package report aggregates matcher output into a verdict and a
// per-person index. Pure aggregation; no I/O.
package report

import (
	"sort"

	"github.com/FocuswithJustin/pullquote/core/quote"
)

// Verdict summarizes a matcher pass over one document.
type Verdict struct {
	// Total is the number of records of any kind.
	Total int `json:"total"`

	// WellFormed counts records in canonical shape.
	WellFormed int `json:"well_formed"`

	// Malformed counts everything else, fixable or not.
	Malformed int `json:"malformed"`

	// Fixable counts the subset of malformed records the fixer can
	// rewrite.
	Fixable int `json:"fixable"`

	// ByKind breaks the total down per kind, keyed by Kind.String().
	ByKind map[string]int `json:"by_kind"`

	// Attributions is the sorted distinct set of attributions observed
	// on well-formed records. It drives how many per-person outputs get
	// generated downstream.
	Attributions []string `json:"attributions"`
}

// OK reports whether the document is fully well-formed. A document with
// zero quotes is a degenerate success.
func (v Verdict) OK() bool { return v.Malformed == 0 }

// Build computes the verdict for a record set.
func Build(recs []quote.Record) Verdict {
	v := Verdict{ByKind: make(map[string]int)}
	seen := make(map[string]bool)
	for _, r := range recs {
		v.Total++
		v.ByKind[r.Kind.String()]++
		if r.WellFormed() {
			v.WellFormed++
			if !seen[r.Attribution] {
				seen[r.Attribution] = true
				v.Attributions = append(v.Attributions, r.Attribution)
			}
		} else {
			v.Malformed++
			if r.Kind.Fixable() {
				v.Fixable++
			}
		}
	}
	sort.Strings(v.Attributions)
	return v
}

// PersonIndex maps an attribution, exactly as captured, to that person's
// records in document order. Built once per document and discarded after
// the redaction passes; never persisted.
type PersonIndex map[string][]quote.Record

// BuildIndex indexes every record that carries an attribution. Records
// without one (MalformedOther) are not indexable.
func BuildIndex(recs []quote.Record) PersonIndex {
	idx := make(PersonIndex)
	for _, r := range recs {
		if r.Attribution == "" {
			continue
		}
		idx[r.Attribution] = append(idx[r.Attribution], r)
	}
	return idx
}

// Count returns the number of records attributed to person.
func (p PersonIndex) Count(person string) int { return len(p[person]) }
