package redact

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/pullquote/core/fix"
	"github.com/FocuswithJustin/pullquote/core/quote"
)

// fixedDoc is the post-fix document from the mixed scenario.
const fixedDoc = "\"Good work.\" (Alice)\n\"Needs fixing\" (Bob)"

// TestRedactDropNames tests whole-span redaction with names removed.
func TestRedactDropNames(t *testing.T) {
	recs := quote.Match(fixedDoc)
	out := Apply(fixedDoc, recs, Options{Target: "Alice"})

	want := "\"Good work.\" (Alice)\n\"[QUOTE REDACTED]\""
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
	if strings.Contains(out, "Bob") {
		t.Error("attribution must be dropped when KeepNames is false")
	}
}

// TestRedactKeepNames tests text-only redaction with the attribution
// preserved verbatim.
func TestRedactKeepNames(t *testing.T) {
	recs := quote.Match(fixedDoc)
	out := Apply(fixedDoc, recs, Options{Target: "Alice", KeepNames: true})

	want := "\"Good work.\" (Alice)\n\"[QUOTE REDACTED FOR REVIEW]\" (Bob)"
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
}

// TestRedactPreservesDash tests that KeepNames leaves the dash separator
// bytes untouched.
func TestRedactPreservesDash(t *testing.T) {
	doc := `"Keep me" (Ann) and "Drop me" - (Ben)`
	recs := quote.Match(doc)
	out := Apply(doc, recs, Options{Target: "Ann", KeepNames: true})

	want := `"Keep me" (Ann) and "[QUOTE REDACTED FOR REVIEW]" - (Ben)`
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
}

// TestRedactSingleQuoteMark tests that placeholder marks match the
// original quote style.
func TestRedactSingleQuoteMark(t *testing.T) {
	doc := `'Mine' (Ann) and 'Theirs' (Ben)`
	recs := quote.Match(doc)
	out := Apply(doc, recs, Options{Target: "Ann"})

	want := `'Mine' (Ann) and '[QUOTE REDACTED]'`
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
}

// TestRedactCompletenessAndPreservation tests the two core redaction
// properties across several people.
func TestRedactCompletenessAndPreservation(t *testing.T) {
	doc := "\"alpha\" (Alice)\n\"bravo\" (Bob)\n\"charlie\" (Carol)\n\"delta\" (Alice)\n"
	recs := quote.Match(doc)

	out := Apply(doc, recs, Options{Target: "Alice"})

	// Preservation: every Alice quote survives verbatim.
	for _, keep := range []string{`"alpha" (Alice)`, `"delta" (Alice)`} {
		if !strings.Contains(out, keep) {
			t.Errorf("output missing preserved quote %q:\n%s", keep, out)
		}
	}
	// Completeness: no other quote text survives.
	for _, gone := range []string{"bravo", "charlie"} {
		if strings.Contains(out, gone) {
			t.Errorf("output leaks redacted quote text %q:\n%s", gone, out)
		}
	}
}

// TestRedactMalformedUntouched tests that malformed records are never
// redacted regardless of owner.
func TestRedactMalformedUntouched(t *testing.T) {
	doc := "\"ok\" (Alice)\n\"loose\"\n(Bob)"
	recs := quote.Match(doc)

	out := Apply(doc, recs, Options{Target: "Alice"})
	if !strings.Contains(out, "\"loose\"\n(Bob)") {
		t.Errorf("malformed record must pass through unchanged:\n%s", out)
	}
}

// TestRedactCustomPlaceholders tests the explicit placeholder options.
func TestRedactCustomPlaceholders(t *testing.T) {
	recs := quote.Match(fixedDoc)

	out := Apply(fixedDoc, recs, Options{Target: "Alice", Placeholder: "[GONE]"})
	if !strings.Contains(out, `"[GONE]"`) {
		t.Errorf("custom placeholder not used:\n%s", out)
	}

	out = Apply(fixedDoc, recs, Options{Target: "Alice", KeepNames: true, ReviewPlaceholder: "[PENDING]"})
	if !strings.Contains(out, `"[PENDING]" (Bob)`) {
		t.Errorf("custom review placeholder not used:\n%s", out)
	}
}

// TestRedactTargetCaseSensitive tests exact-string target matching.
func TestRedactTargetCaseSensitive(t *testing.T) {
	recs := quote.Match(fixedDoc)
	out := Apply(fixedDoc, recs, Options{Target: "alice"})

	if strings.Contains(out, "Good work.") {
		t.Error("lowercase target must not match Alice")
	}
}

// TestRedactFullPipeline tests fix-then-redact over the raw malformed
// document.
func TestRedactFullPipeline(t *testing.T) {
	raw := "\"Good work.\" (Alice)\n\"Needs fixing\"\n(Bob)"
	result := fix.Apply(raw, quote.Match(raw))

	out := Apply(result.Doc, result.Records, Options{Target: "Bob"})
	want := "\"[QUOTE REDACTED]\"\n\"Needs fixing\" (Bob)"
	if out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
}
