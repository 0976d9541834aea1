package classify

import (
	"regexp"
	"strings"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

const phoneConfidence = 0.75

// phonePattern matches international and North-American phone shapes:
// optional +CC, optional area code in parentheses, separator-grouped digits.
var phonePattern = regexp.MustCompile(`\+?\d{1,3}[-. ]?\(?\d{2,4}\)?[-. ]?\d{3,4}[-. ]?\d{3,4}`)

// detectPhoneNumbers finds phone numbers in the subject text. Matches are
// boundary-enforced and de-duplicated by digit sequence so "555-867-5309"
// and "(555) 867-5309" count once.
func detectPhoneNumbers(text string) []Detection {
	var detections []Detection
	seen := map[string]bool{}

	for _, loc := range phonePattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		match := text[start:end]
		if !hasBoundary(text, start, end, "") {
			continue
		}

		digits := digitsOf(match)
		// Without an explicit +CC prefix, short digit runs are far more
		// likely dates or IDs than phone numbers.
		if len(digits) < 7 || len(digits) > 15 {
			continue
		}
		if !strings.HasPrefix(match, "+") && len(digits) < 10 {
			continue
		}
		if seen[digits] {
			continue
		}
		seen[digits] = true

		detections = append(detections, Detection{
			Type:       clip.TypePhoneNumber,
			Value:      match,
			Start:      start,
			End:        end,
			Confidence: phoneConfidence,
			Payload:    metadata.PhoneNumber{Number: match, Digits: digits},
		})
		if len(detections) == maxPerFamily {
			break
		}
	}
	return detections
}

func digitsOf(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
