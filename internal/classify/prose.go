package classify

import (
	"strings"

	"github.com/crmitchelmore/pasta/internal/clip"
)

const (
	// proseMinWords is the minimum word count for natural-language text.
	proseMinWords = 12

	proseConfidence = 0.8
)

// detectProse decides whether the subject reads as natural language:
// enough words, sentence-ending punctuation, and a plausible average word
// length. Structurally code-like text and env-var blocks are rejected no
// matter how many words they contain.
func detectProse(text string) []Detection {
	words := strings.Fields(text)
	if len(words) < proseMinWords {
		return nil
	}

	if structuralCodeShape(text) {
		return nil
	}
	if _, hits := bestLanguage(text); hits >= 2 {
		return nil
	}
	if scan := scanEnvLines(text); scan.valid >= 2 {
		return nil
	}

	sentences := strings.Count(text, ". ") + strings.Count(text, "! ") + strings.Count(text, "? ")
	for _, end := range []string{".", "!", "?"} {
		if strings.HasSuffix(strings.TrimSpace(text), end) {
			sentences++
		}
	}
	if sentences == 0 {
		return nil
	}

	totalLen := 0
	for _, w := range words {
		totalLen += len(w)
	}
	avgWordLen := float64(totalLen) / float64(len(words))
	if avgWordLen < 2.5 || avgWordLen > 12 {
		return nil
	}

	// Heavy symbol use reads as markup or data, not prose.
	symbols := 0
	for i := 0; i < len(text); i++ {
		if strings.IndexByte(`{}[]<>;|=`, text[i]) >= 0 {
			symbols++
		}
	}
	if float64(symbols) > float64(len(text))*0.02 {
		return nil
	}

	return []Detection{{
		Type:       clip.TypeProse,
		Value:      text,
		Start:      0,
		End:        len(text),
		Confidence: proseConfidence,
	}}
}
