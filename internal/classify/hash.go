package classify

import (
	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

const hashConfidence = 0.9

// hashAlgorithms maps hex-digest length to the inferred algorithm.
// Non-standard lengths are rejected outright.
var hashAlgorithms = map[int]string{
	32:  "md5",
	40:  "sha1",
	56:  "sha224",
	64:  "sha256",
	96:  "sha384",
	128: "sha512",
}

// detectHashes finds hex digests of standard lengths in the subject text.
// A candidate must be a whole token and purely hexadecimal; digest length
// determines the reported algorithm and bit size (64 hex chars -> sha256,
// 256 bits). De-duplication is case-insensitive, first-seen casing wins.
func detectHashes(text string) []Detection {
	var detections []Detection
	seen := seenSet{}

	for _, tok := range tokenize(text) {
		tok = trimPunct(tok)
		algorithm, ok := hashAlgorithms[len(tok.text)]
		if !ok || !isHexString(tok.text) {
			continue
		}
		if !seen.add(tok.text) {
			continue
		}
		detections = append(detections, Detection{
			Type:       clip.TypeHash,
			Value:      tok.text,
			Start:      tok.start,
			End:        tok.end,
			Confidence: hashConfidence,
			Payload: metadata.Hash{
				Value:     tok.text,
				Algorithm: algorithm,
				Bits:      len(tok.text) * 4,
			},
		})
		if len(detections) == maxPerFamily {
			break
		}
	}
	return detections
}

func isHexString(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexByte(s[i]) {
			return false
		}
	}
	return true
}
