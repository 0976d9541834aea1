// Package classify implements the content classification and extraction
// engine: an encoding resolver, a set of pure per-family detectors, and an
// orchestrator that selects a primary content type and assembles the
// extraction metadata for each captured clipboard item.
package classify

import (
	"strings"
	"unicode"

	"github.com/crmitchelmore/pasta/internal/clip"
)

// maxPerFamily caps how many detections a single family reports for one
// input. Pathological inputs (a dump of thousands of emails) must not blow
// up the metadata document or the child-record count.
const maxPerFamily = 25

// Detection is a single family finding over the classification subject.
type Detection struct {
	// Type is the family that produced this finding
	Type clip.ContentType

	// Value is the matched span's decoded substring
	Value string

	// Start and End are byte offsets into the subject text
	Start int
	End   int

	// Confidence is the detector's confidence in this finding, in [0,1]
	Confidence float64

	// Payload is the family-specific metadata object
	Payload any
}

// span is a half-open byte range [start, end) in the subject text.
type span struct {
	start, end int
}

func (s span) overlaps(start, end int) bool {
	return start < s.end && end > s.start
}

// maskSpans replaces the given spans with spaces so lower-priority scanners
// never see text already claimed by a higher-priority family.
func maskSpans(text string, spans []span) string {
	if len(spans) == 0 {
		return text
	}
	b := []byte(text)
	for _, s := range spans {
		for i := s.start; i < s.end && i < len(b); i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

// seenSet tracks case-insensitive first-seen de-duplication within a family.
type seenSet map[string]bool

// add reports whether the value was new, recording it if so.
func (s seenSet) add(value string) bool {
	key := strings.ToLower(value)
	if s[key] {
		return false
	}
	s[key] = true
	return true
}

// tokenChar reports whether r can be part of an unbroken alphanumeric run.
func tokenChar(r byte) bool {
	return r == '_' || r == '-' ||
		(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// hasBoundary reports whether the match at [start, end) sits at true
// string/word boundaries: the bytes just outside the match must not extend
// the token. extra lists additional bytes treated as token characters, used
// by secret scanners to also reject matches embedded in base64-ish runs.
func hasBoundary(text string, start, end int, extra string) bool {
	if start > 0 {
		prev := text[start-1]
		if tokenChar(prev) || strings.IndexByte(extra, prev) >= 0 {
			return false
		}
	}
	if end < len(text) {
		next := text[end]
		if tokenChar(next) || strings.IndexByte(extra, next) >= 0 {
			return false
		}
	}
	return true
}

// printableRatio returns the fraction of runes that are printable text
// (graphic characters plus common whitespace).
func printableRatio(s string) float64 {
	if s == "" {
		return 0
	}
	total, printable := 0, 0
	for _, r := range s {
		total++
		if unicode.IsGraphic(r) || r == '\n' || r == '\t' || r == '\r' {
			printable++
		}
	}
	return float64(printable) / float64(total)
}

// token is a whitespace-delimited token with its position in the subject.
type token struct {
	text       string
	start, end int
}

// tokenize splits text on whitespace, keeping byte offsets.
func tokenize(text string) []token {
	var tokens []token
	start := -1
	for i := 0; i < len(text); i++ {
		if isSpace(text[i]) {
			if start >= 0 {
				tokens = append(tokens, token{text[start:i], start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{text[start:], start, len(text)})
	}
	return tokens
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// trimPunct strips leading/trailing punctuation that commonly wraps tokens
// in prose (quotes, brackets, sentence punctuation), adjusting offsets.
func trimPunct(t token) token {
	const leading = `"'([{<`
	const trailing = `"'.,;:!?)]}>`
	for len(t.text) > 0 && strings.IndexByte(leading, t.text[0]) >= 0 {
		t.text = t.text[1:]
		t.start++
	}
	for len(t.text) > 0 && strings.IndexByte(trailing, t.text[len(t.text)-1]) >= 0 {
		t.text = t.text[:len(t.text)-1]
		t.end--
	}
	return t
}
