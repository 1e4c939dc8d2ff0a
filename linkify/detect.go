// Package linkify finds URL-like substrings in plain text and turns them
// into disjoint, position-exact spans.
package linkify

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"mvdan.cc/xurls/v2"
)

// Mode selects how permissive the recogniser is.
type Mode int

const (
	// Relaxed matches scheme-prefixed URLs, bare domains and e-mail addresses.
	Relaxed Mode = iota
	// Strict only matches URLs that carry a known scheme.
	Strict
)

// ParseMode maps the DSL/config spelling of a mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "relaxed":
		return Relaxed, nil
	case "strict":
		return Strict, nil
	default:
		return Relaxed, fmt.Errorf("未知的链接识别模式 %q（可选 relaxed/strict）", s)
	}
}

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}
	return "relaxed"
}

// MarshalText lets debug JSON carry the mode name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Match is a raw recogniser hit. Start and End are rune offsets.
type Match struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Detector reports link candidates in left-to-right order.
type Detector interface {
	Detect(text string) []Match
}

// URLDetector is the default Detector, backed by xurls. The expressions are
// RE2, so matching is linear in the input length.
type URLDetector struct {
	re *regexp.Regexp
}

var (
	relaxedRE = xurls.Relaxed()
	strictRE  = xurls.Strict()

	knownSchemes = schemeSet()
	schemeRE     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*$`)
)

// NewDetector returns a detector for the given mode.
func NewDetector(mode Mode) *URLDetector {
	if mode == Strict {
		return &URLDetector{re: strictRE}
	}
	return &URLDetector{re: relaxedRE}
}

// Detect runs the default relaxed detector.
func Detect(text string) []Match {
	return NewDetector(Relaxed).Detect(text)
}

// Detect implements Detector.
func (d *URLDetector) Detect(text string) []Match {
	if text == "" {
		return nil
	}
	locs := d.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	matches := make([]Match, 0, len(locs))
	// rune offsets are accumulated incrementally; locs are ordered.
	runePos, bytePos := 0, 0
	for _, loc := range locs {
		candidate := text[loc[0]:loc[1]]
		if !plausible(text[:loc[0]], candidate) {
			continue
		}
		runePos += utf8.RuneCountInString(text[bytePos:loc[0]])
		start := runePos
		runePos += utf8.RuneCountInString(candidate)
		bytePos = loc[1]
		matches = append(matches, Match{Start: start, End: runePos, Text: candidate})
	}
	return matches
}

// plausible rejects matches with a scheme nobody registered, and bare domains
// that directly follow such a bogus "scheme://" prefix.
func plausible(before, candidate string) bool {
	// "example.com/login?next=https://..." is a bare domain, not a scheme.
	if i := strings.Index(candidate, "://"); i > 0 && schemeRE.MatchString(candidate[:i]) {
		return knownSchemes[strings.ToLower(candidate[:i])]
	}
	return !strings.HasSuffix(before, "://")
}

func schemeSet() map[string]bool {
	set := make(map[string]bool, len(xurls.Schemes)+len(xurls.SchemesUnofficial))
	for _, s := range xurls.Schemes {
		set[strings.ToLower(s)] = true
	}
	for _, s := range xurls.SchemesUnofficial {
		set[strings.ToLower(s)] = true
	}
	return set
}
