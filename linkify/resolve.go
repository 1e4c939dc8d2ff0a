package linkify

import (
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"
)

// Span is a half-open rune range [Start, End) of the source text together
// with the substring it covers.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Len returns the number of runes covered.
func (s Span) Len() int { return s.End - s.Start }

// Contains reports whether rune index i lies inside the span.
func (s Span) Contains(i int) bool { return i >= s.Start && i < s.End }

// Overlaps reports whether the two spans share at least one rune.
func (s Span) Overlaps(o Span) bool { return s.Start < o.End && o.Start < s.End }

// Resolve locates every occurrence of every distinct matched string in text
// and returns them as disjoint spans ordered by Start. The detector's own
// offsets are not trusted: a string reported once may occur many times, and
// a string reported many times still yields one span per occurrence.
func Resolve(text string, matches []Match) []Span {
	if text == "" || len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var candidates []Span
	for _, m := range matches {
		if m.Text == "" || seen[m.Text] {
			continue
		}
		seen[m.Text] = true
		candidates = append(candidates, occurrences(text, m.Text)...)
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].End > candidates[j].End
	})

	spans := make([]Span, 0, len(candidates))
	for _, c := range candidates {
		if n := len(spans); n > 0 && spans[n-1].Overlaps(c) {
			slog.Debug("linkify: dropping overlapping span",
				"kept", spans[n-1].Text, "keptStart", spans[n-1].Start,
				"dropped", c.Text, "droppedStart", c.Start)
			continue
		}
		spans = append(spans, c)
	}
	return spans
}

// Find detects and resolves in one step.
func Find(d Detector, text string) []Span {
	if d == nil {
		d = NewDetector(Relaxed)
	}
	return Resolve(text, d.Detect(text))
}

// occurrences scans text left to right, restarting each search just past the
// end of the previous hit.
func occurrences(text, needle string) []Span {
	var out []Span
	n := utf8.RuneCountInString(needle)
	bytePos, runePos := 0, 0
	for bytePos <= len(text) {
		i := strings.Index(text[bytePos:], needle)
		if i < 0 {
			break
		}
		runePos += utf8.RuneCountInString(text[bytePos : bytePos+i])
		out = append(out, Span{Start: runePos, End: runePos + n, Text: needle})
		runePos += n
		bytePos += i + len(needle)
	}
	return out
}
