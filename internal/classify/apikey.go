package classify

import (
	"regexp"
	"strings"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

// base64Extras are bytes that extend a token for boundary purposes when
// scanning for secrets: a candidate embedded in a longer base64-ish run
// (such as a JWT payload segment) must never match.
const base64Extras = "/+="

// keyPattern is one provider-tagged secret shape.
type keyPattern struct {
	provider   string
	re         *regexp.Regexp
	confidence float64
	// validate optionally applies extra shape checks beyond the regex.
	validate func(match string) bool
}

var keyPatterns = []keyPattern{
	{provider: "github", re: regexp.MustCompile(`ghp_[A-Za-z0-9]{36}`), confidence: 0.98},
	{provider: "github", re: regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,255}`), confidence: 0.98},
	{provider: "aws", re: regexp.MustCompile(`(?:AKIA|ASIA)[A-Z0-9]{16}`), confidence: 0.95},
	{provider: "google", re: regexp.MustCompile(`AIza[0-9A-Za-z_\-]{35}`), confidence: 0.95},
	{provider: "slack", re: regexp.MustCompile(`xox[baprs]-[0-9A-Za-z\-]{10,}`), confidence: 0.95},
	{provider: "stripe", re: regexp.MustCompile(`[sr]k_live_[0-9A-Za-z]{24,}`), confidence: 0.95},
	{provider: "openai", re: regexp.MustCompile(`sk-[A-Za-z0-9_\-]{32,}`), confidence: 0.85},
	// AWS secret access keys have no prefix: 40 chars of base64 alphabet.
	// awsSecretShape filters the hex digests and single-case runs that
	// share the length.
	{provider: "aws", re: regexp.MustCompile(`[A-Za-z0-9/+=]{40}`), confidence: 0.8, validate: awsSecretShape},
}

// detectAPIKeys finds provider-tagged secret tokens. Every match is
// boundary-enforced against the surrounding text including base64
// characters, so a valid-looking substring inside a longer unbroken run is
// rejected. The orchestrator masks JWT spans out of the text handed here,
// which keeps JWT segments from ever registering as keys.
func detectAPIKeys(text string) []Detection {
	var detections []Detection
	seen := map[string]bool{}
	var claimed []span

	for _, p := range keyPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			match := text[start:end]
			if !hasBoundary(text, start, end, base64Extras) {
				continue
			}
			if p.validate != nil && !p.validate(match) {
				continue
			}
			if overlapsAny(claimed, start, end) || seen[match] {
				continue
			}
			seen[match] = true
			claimed = append(claimed, span{start, end})

			detections = append(detections, Detection{
				Type:       clip.TypeAPIKey,
				Value:      match,
				Start:      start,
				End:        end,
				Confidence: p.confidence,
				Payload:    metadata.APIKey{Value: match, Provider: p.provider},
			})
			if len(detections) == maxPerFamily {
				return detections
			}
		}
	}
	return detections
}

func overlapsAny(spans []span, start, end int) bool {
	for _, s := range spans {
		if s.overlaps(start, end) {
			return true
		}
	}
	return false
}

// awsSecretShape rejects 40-char candidates that are really hex digests or
// single-case words: a real secret key mixes cases.
func awsSecretShape(match string) bool {
	if isHexString(match) {
		return false
	}
	hasUpper := strings.IndexFunc(match, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0
	hasLower := strings.IndexFunc(match, func(r rune) bool { return r >= 'a' && r <= 'z' }) >= 0
	return hasUpper && hasLower
}
