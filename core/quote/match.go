package quote

import (
	"regexp"
	"sort"
	"strings"
)

// attributionLookahead is how many lines past a standalone quote line
// the matcher searches for an attribution line before giving up and
// classifying the quote as malformed.
const attributionLookahead = 2

// maxNameLineLen rejects attribution candidates that are clearly prose,
// not a name line, after a blockquote.
const maxNameLineLen = 100

var (
	// Inline canonical shapes. The dash group distinguishes
	// WellFormedDashed from WellFormedInline. Attribution text excludes
	// parentheses and never crosses a line boundary.
	doubleInlineRe = regexp.MustCompile(`"([^"\n]+)"[ \t]*(-[ \t]*)?\(([^()\n]+)\)`)
	singleInlineRe = regexp.MustCompile(`'([^'\n]+)'[ \t]*(-[ \t]*)?\(([^()\n]+)\)`)

	// A whole line that is exactly a parenthesized name, optionally
	// preceded by a dash.
	attributionLineRe = regexp.MustCompile(`^-?[ \t]*\(([^()]+)\)$`)

	// First parenthesized group on a blockquote trailing name line.
	parenNameRe = regexp.MustCompile(`\(([^()]+)\)`)
)

// Match scans a normalized document for quote candidates and returns
// them in document order with pairwise non-overlapping spans. Patterns
// are tried in priority order (inline, standalone, blockquote, then the
// malformed catch-all); a span consumed by an earlier pattern is never
// re-matched by a later one. Match is a pure function: no I/O, no
// mutation of the input.
func Match(doc string) []Record {
	lines := strings.Split(doc, "\n")
	starts := make([]int, len(lines))
	pos := 0
	for i, ln := range lines {
		starts[i] = pos
		pos += len(ln) + 1
	}

	var recs []Record
	covered := func(s Span) bool {
		for _, r := range recs {
			if r.Span.Overlaps(s) {
				return true
			}
		}
		return false
	}

	recs = append(recs, matchInline(doc, starts)...)

	// Standalone quote lines: a line that is nothing but a quoted span,
	// with the attribution expected on a following line. Lines with a
	// parenthesis were already the inline pattern's territory.
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if len(t) < 2 || strings.ContainsRune(line, '(') {
			continue
		}
		mark := t[0]
		if (mark != '"' && mark != '\'') || t[len(t)-1] != mark {
			continue
		}
		leading := len(line) - len(strings.TrimLeft(line, " \t"))
		span := Span{Start: starts[i] + leading, End: starts[i] + leading + len(t)}
		if covered(span) {
			continue
		}

		rec := Record{
			Span: span,
			Text: t[1 : len(t)-1],
			Kind: MalformedOther,
			Mark: mark,
			Line: i + 1,
		}
		if j, ok := nextNonBlank(lines, i, attributionLookahead); ok {
			if m := attributionLineRe.FindStringSubmatch(strings.TrimSpace(lines[j])); m != nil {
				rec.Kind = StandaloneNeedsAttribution
				rec.Attribution = strings.TrimSpace(m[1])
				rec.Span.End = starts[j] + len(lines[j])
			}
		}
		if rec.Kind == MalformedOther && rec.Text == "" {
			continue
		}
		recs = append(recs, rec)
	}

	// Blockquote runs followed by a bare name line.
	for i := 0; i < len(lines); i++ {
		if !strings.HasPrefix(strings.TrimSpace(lines[i]), ">") {
			continue
		}
		if i > 0 && strings.HasPrefix(strings.TrimSpace(lines[i-1]), ">") {
			continue // interior of a run handled at its first line
		}
		j := i
		var content []string
		for j < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[j]), ">") {
			if c := strings.TrimSpace(strings.TrimLeft(lines[j], "> \t")); c != "" {
				content = append(content, c)
			}
			j++
		}
		if j >= len(lines) || len(content) == 0 {
			continue
		}
		name := strings.TrimSpace(lines[j])
		if !isNameLine(name) {
			continue
		}
		span := Span{Start: starts[i], End: starts[j] + len(lines[j])}
		if covered(span) {
			continue
		}

		text := strings.Join(content, " ")
		mark := byte('"')
		if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
			mark = text[0]
			text = text[1 : len(text)-1]
		}
		attribution := ""
		if m := parenNameRe.FindStringSubmatch(name); m != nil {
			attribution = strings.TrimSpace(m[1])
		} else {
			attribution = strings.TrimSpace(strings.TrimLeft(name, "- \t"))
		}
		if attribution == "" {
			continue
		}
		recs = append(recs, Record{
			Span:        span,
			Text:        text,
			Attribution: attribution,
			Kind:        BlockquoteNeedsAttribution,
			Mark:        mark,
			Line:        i + 1,
		})
	}

	sort.Slice(recs, func(a, b int) bool { return recs[a].Span.Start < recs[b].Span.Start })

	// Enforce the non-overlap invariant: first record by document order wins.
	out := recs[:0]
	for _, r := range recs {
		if len(out) > 0 && out[len(out)-1].Span.Overlaps(r.Span) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchInline finds the canonical inline shapes for both mark styles and
// returns them ordered and de-overlapped.
func matchInline(doc string, starts []int) []Record {
	var recs []Record
	for _, p := range []struct {
		re   *regexp.Regexp
		mark byte
	}{
		{doubleInlineRe, '"'},
		{singleInlineRe, '\''},
	} {
		for _, m := range p.re.FindAllStringSubmatchIndex(doc, -1) {
			kind := WellFormedInline
			if m[4] >= 0 {
				kind = WellFormedDashed
			}
			recs = append(recs, Record{
				Span:        Span{Start: m[0], End: m[1]},
				Text:        doc[m[2]:m[3]],
				Attribution: strings.TrimSpace(doc[m[6]:m[7]]),
				Kind:        kind,
				Mark:        p.mark,
				Line:        lineAt(starts, m[0]),
			})
		}
	}
	sort.Slice(recs, func(a, b int) bool { return recs[a].Span.Start < recs[b].Span.Start })
	out := recs[:0]
	for _, r := range recs {
		if len(out) > 0 && out[len(out)-1].Span.Overlaps(r.Span) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// nextNonBlank returns the index of the first non-blank line after i,
// looking at most lookahead lines ahead.
func nextNonBlank(lines []string, i, lookahead int) (int, bool) {
	for j := i + 1; j <= i+lookahead && j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) != "" {
			return j, true
		}
	}
	return 0, false
}

// isNameLine reports whether a line following a blockquote looks like a
// bare attribution rather than document structure or more prose.
func isNameLine(s string) bool {
	if s == "" || len(s) >= maxNameLineLen {
		return false
	}
	if strings.HasPrefix(s, ">") || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "*") {
		return false
	}
	return !strings.ContainsAny(s, `"'`)
}

// lineAt converts a byte offset to a 1-based line number given the line
// start offsets.
func lineAt(starts []int, off int) int {
	n := sort.Search(len(starts), func(i int) bool { return starts[i] > off })
	return n
}
