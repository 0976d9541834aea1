package classify

import (
	"net/netip"
	"regexp"
	"strings"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

const ipConfidence = 0.95

var ipv4Pattern = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

// detectIPAddresses finds IPv4 and IPv6 literals in the subject text and
// classifies each as private-range, loopback, or public.
func detectIPAddresses(text string) []Detection {
	var detections []Detection
	seen := seenSet{}

	// IPv4: regex candidates validated by netip (rejects octets > 255).
	for _, loc := range ipv4Pattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		candidate := text[start:end]
		if !hasBoundary(text, start, end, "") || dotExtended(text, start, end) {
			continue
		}
		addr, err := netip.ParseAddr(candidate)
		if err != nil || !addr.Is4() {
			continue
		}
		if d, ok := ipDetection(candidate, addr, start, end, seen); ok {
			detections = append(detections, d)
		}
	}

	// IPv6: token-based, anything with at least two colons that parses.
	for _, tok := range tokenize(text) {
		tok = trimPunct(tok)
		candidate := strings.Trim(tok.text, "[]")
		if strings.Count(candidate, ":") < 2 {
			continue
		}
		addr, err := netip.ParseAddr(candidate)
		if err != nil || !addr.Is6() || addr.Is4In6() {
			continue
		}
		if d, ok := ipDetection(candidate, addr, tok.start, tok.end, seen); ok {
			detections = append(detections, d)
		}
	}

	if len(detections) > maxPerFamily {
		detections = detections[:maxPerFamily]
	}
	return detections
}

// dotExtended reports whether the match is part of a longer dotted numeric
// run, as in "1.2.3.4.5": a dot just outside the match with another digit
// beyond it. A sentence-terminal dot has no digit after it and passes.
func dotExtended(text string, start, end int) bool {
	if start >= 2 && text[start-1] == '.' && isDigit(text[start-2]) {
		return true
	}
	if end+1 < len(text) && text[end] == '.' && isDigit(text[end+1]) {
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func ipDetection(value string, addr netip.Addr, start, end int, seen seenSet) (Detection, bool) {
	if !seen.add(addr.String()) {
		return Detection{}, false
	}
	version := 4
	if addr.Is6() {
		version = 6
	}
	return Detection{
		Type:       clip.TypeIPAddress,
		Value:      value,
		Start:      start,
		End:        end,
		Confidence: ipConfidence,
		Payload: metadata.IPAddress{
			Address:    value,
			Version:    version,
			IsPrivate:  addr.IsPrivate(),
			IsLoopback: addr.IsLoopback(),
		},
	}, true
}
