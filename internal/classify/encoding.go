package classify

import (
	"encoding/base64"
	"net/url"
	"strings"
	"unicode/utf8"
)

// maxDecodeRounds bounds how many nested encoding layers the resolver will
// peel before giving up.
const maxDecodeRounds = 3

// minDecodePrintable is the printable-character ratio a decoded candidate
// must reach to be accepted. Anything lower is treated as binary noise, not
// a real encoding layer.
const minDecodePrintable = 0.9

// Encoding names reported in the decode chain.
const (
	EncodingURL    = "url"
	EncodingBase64 = "base64"
)

// DecodeResult is the encoding resolver's output. Text is the final decoded
// view used as the classification subject; the original capture is always
// what gets stored and displayed.
type DecodeResult struct {
	// Text is the fully decoded text (equal to the input when no layer decoded)
	Text string

	// Encodings lists the layers peeled, in the order they were reversed
	Encodings []string

	// Confidence grows with the number of successful rounds and the
	// plausibility of the decoded text; 0 when nothing decoded
	Confidence float64
}

// ResolveEncodings attempts up to maxDecodeRounds of percent- and
// base64-decoding. A round is accepted only if the decoded result is valid
// UTF-8, materially differs from the input, and looks like text (printable
// ratio above minDecodePrintable). Ambiguity between candidates in a round
// is resolved by the higher printable ratio; ties go to percent-decoding so
// the chosen chain is deterministic and, for equal plausibility, shortest.
func ResolveEncodings(text string) DecodeResult {
	result := DecodeResult{Text: text}

	current := text
	ratioSum := 0.0
	for round := 0; round < maxDecodeRounds; round++ {
		decoded, encoding, ratio, ok := decodeRound(current)
		if !ok {
			break
		}
		current = decoded
		ratioSum += ratio
		result.Encodings = append(result.Encodings, encoding)
	}

	if len(result.Encodings) == 0 {
		return result
	}

	rounds := len(result.Encodings)
	avgRatio := ratioSum / float64(rounds)

	result.Text = current
	// One clean round starts at 0.6; each further round adds 0.15, and the
	// decoded text's plausibility nudges the rest.
	result.Confidence = 0.45 + 0.15*float64(rounds) + 0.35*(avgRatio-minDecodePrintable)/(1-minDecodePrintable)
	if result.Confidence > 0.99 {
		result.Confidence = 0.99
	}
	return result
}

// decodeRound tries every decoder against the input and returns the best
// accepted candidate for this round.
func decodeRound(text string) (decoded, encoding string, ratio float64, ok bool) {
	type candidate struct {
		text     string
		encoding string
		ratio    float64
	}
	var candidates []candidate

	if d, ok := tryPercentDecode(text); ok {
		candidates = append(candidates, candidate{d, EncodingURL, printableRatio(d)})
	}
	if d, ok := tryBase64Decode(text); ok {
		candidates = append(candidates, candidate{d, EncodingBase64, printableRatio(d)})
	}

	best := -1
	for i, c := range candidates {
		if c.ratio < minDecodePrintable {
			continue
		}
		// Strictly-greater keeps the percent-first tie break.
		if best < 0 || c.ratio > candidates[best].ratio {
			best = i
		}
	}
	if best < 0 {
		return "", "", 0, false
	}
	return candidates[best].text, candidates[best].encoding, candidates[best].ratio, true
}

// tryPercentDecode reverses one layer of percent-encoding. It requires at
// least one real %XX escape so plain text containing a stray percent sign
// is never touched.
func tryPercentDecode(text string) (string, bool) {
	if !hasPercentEscape(text) {
		return "", false
	}
	// PathUnescape rather than QueryUnescape: '+' must survive as-is or a
	// nested base64 layer would be corrupted.
	decoded, err := url.PathUnescape(text)
	if err != nil || decoded == text || !utf8.ValidString(decoded) {
		return "", false
	}
	return decoded, true
}

func hasPercentEscape(text string) bool {
	for i := 0; i+2 < len(text); i++ {
		if text[i] == '%' && isHexByte(text[i+1]) && isHexByte(text[i+2]) {
			return true
		}
	}
	return false
}

func isHexByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// minBase64Len filters out short tokens that happen to sit inside the
// base64 alphabet ("test", "beef", ...).
const minBase64Len = 8

// tryBase64Decode reverses one layer of base64 (standard or URL-safe,
// padded or raw). The whole input must be a single base64 token; anything
// with interior whitespace is left alone.
func tryBase64Decode(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if len(s) < minBase64Len || strings.ContainsAny(s, " \t\n\r") {
		return "", false
	}

	encodings := []*base64.Encoding{
		base64.StdEncoding, base64.URLEncoding,
		base64.RawStdEncoding, base64.RawURLEncoding,
	}
	for _, enc := range encodings {
		raw, err := enc.DecodeString(s)
		if err != nil {
			continue
		}
		decoded := string(raw)
		if decoded == text || !utf8.ValidString(decoded) {
			continue
		}
		return decoded, true
	}
	return "", false
}
