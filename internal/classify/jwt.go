package classify

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

const jwtConfidence = 0.99

// jwtClaims are the standard claims extracted from the payload segment.
type jwtClaims struct {
	Subject  string      `json:"sub"`
	Issuer   string      `json:"iss"`
	IssuedAt json.Number `json:"iat"`
	Expiry   json.Number `json:"exp"`
}

// jwtHeader is the decoded token header; alg is the only field we require.
type jwtHeader struct {
	Alg string `json:"alg"`
}

// detectJWTs finds JSON Web Tokens in the subject text. A candidate must be
// a single token of exactly three dot-separated base64url segments whose
// header and payload decode to JSON objects. Expiry is evaluated against
// the injected clock, never the wall clock directly, so classification
// stays deterministic under test.
func detectJWTs(text string, now time.Time) []Detection {
	var detections []Detection
	seen := map[string]bool{}

	for _, tok := range tokenize(text) {
		tok = trimPunct(tok)
		claims, ok := parseJWT(tok.text)
		if !ok || seen[tok.text] {
			continue
		}
		seen[tok.text] = true

		payload := metadata.JWT{
			Token:   tok.text,
			Subject: claims.Subject,
			Issuer:  claims.Issuer,
		}
		if iat, err := claims.IssuedAt.Int64(); err == nil {
			payload.IssuedAt = iat
		}
		if exp, err := claims.Expiry.Int64(); err == nil {
			payload.ExpiresAt = exp
			payload.IsExpired = now.Unix() >= exp
		}

		detections = append(detections, Detection{
			Type:       clip.TypeJWT,
			Value:      tok.text,
			Start:      tok.start,
			End:        tok.end,
			Confidence: jwtConfidence,
			Payload:    payload,
		})
		if len(detections) == maxPerFamily {
			break
		}
	}
	return detections
}

// parseJWT validates a candidate token and extracts its standard claims.
// Malformed candidates (wrong segment count, invalid base64url, non-JSON
// header or payload) silently fail the parse; they are not errors.
func parseJWT(candidate string) (jwtClaims, bool) {
	var claims jwtClaims

	segments := strings.Split(candidate, ".")
	if len(segments) != 3 {
		return claims, false
	}
	// Header and payload must be present; the signature segment may be
	// empty for unsecured (alg "none") tokens.
	if segments[0] == "" || segments[1] == "" {
		return claims, false
	}

	headerRaw, ok := decodeBase64URLSegment(segments[0])
	if !ok {
		return claims, false
	}
	var header jwtHeader
	if err := json.Unmarshal(headerRaw, &header); err != nil || header.Alg == "" {
		return claims, false
	}

	payloadRaw, ok := decodeBase64URLSegment(segments[1])
	if !ok {
		return claims, false
	}
	if err := json.Unmarshal(payloadRaw, &claims); err != nil {
		return claims, false
	}

	if segments[2] != "" {
		if _, ok := decodeBase64URLSegment(segments[2]); !ok {
			return claims, false
		}
	}
	return claims, true
}

func decodeBase64URLSegment(segment string) ([]byte, bool) {
	if raw, err := base64.RawURLEncoding.DecodeString(segment); err == nil {
		return raw, true
	}
	if raw, err := base64.URLEncoding.DecodeString(segment); err == nil {
		return raw, true
	}
	return nil, false
}
