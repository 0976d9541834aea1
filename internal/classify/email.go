package classify

import (
	"strings"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

const emailConfidence = 0.95

// detectEmails finds email addresses in the subject text. Matching is
// token-based so an address is always taken as a whole whitespace-delimited
// token: "xxa@example.comyy" is one candidate, never split at "com".
// De-duplication is case-insensitive, first-seen casing wins.
func detectEmails(text string) []Detection {
	var detections []Detection
	seen := seenSet{}

	for _, tok := range tokenize(text) {
		tok = trimPunct(tok)
		local, domain, ok := splitEmail(tok.text)
		if !ok {
			continue
		}
		if !validEmailLocal(local) || !validEmailDomain(domain) {
			continue
		}
		if !seen.add(tok.text) {
			continue
		}
		detections = append(detections, Detection{
			Type:       clip.TypeEmail,
			Value:      tok.text,
			Start:      tok.start,
			End:        tok.end,
			Confidence: emailConfidence,
			Payload:    metadata.Email{Address: tok.text, Domain: strings.ToLower(domain)},
		})
		if len(detections) == maxPerFamily {
			break
		}
	}
	return detections
}

// splitEmail splits a candidate into local part and domain. Rejects doubled
// or repeated '@', and '@' at either end.
func splitEmail(s string) (local, domain string, ok bool) {
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return "", "", false
	}
	if strings.IndexByte(s[at+1:], '@') >= 0 {
		return "", "", false
	}
	return s[:at], s[at+1:], true
}

// validEmailLocal checks the RFC-lite local part: the usual unquoted
// character set, no leading/trailing/doubled dots.
func validEmailLocal(local string) bool {
	if local == "" || len(local) > 64 {
		return false
	}
	if local[0] == '.' || local[len(local)-1] == '.' || strings.Contains(local, "..") {
		return false
	}
	for i := 0; i < len(local); i++ {
		c := local[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '%' || c == '+' || c == '-':
		default:
			return false
		}
	}
	return true
}

// validEmailDomain checks that the domain has at least two labels and a
// purely alphabetic tail of two or more characters.
func validEmailDomain(domain string) bool {
	if domain == "" || len(domain) > 255 {
		return false
	}
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-') {
				return false
			}
		}
	}
	tail := labels[len(labels)-1]
	if len(tail) < 2 {
		return false
	}
	for i := 0; i < len(tail); i++ {
		c := tail[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
