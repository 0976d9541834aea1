package classify

import (
	"regexp"

	googleuuid "github.com/google/uuid"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

const uuidConfidence = 0.98

// uuidPattern matches the canonical 8-4-4-4-12 hex grouping.
var uuidPattern = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\b`)

// detectUUIDs finds canonical UUIDs and reports their version and variant.
func detectUUIDs(text string) []Detection {
	var detections []Detection
	seen := seenSet{}

	for _, loc := range uuidPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		value := text[start:end]
		if !hasBoundary(text, start, end, "") {
			continue
		}
		parsed, err := googleuuid.Parse(value)
		if err != nil {
			continue
		}
		if !seen.add(value) {
			continue
		}
		detections = append(detections, Detection{
			Type:       clip.TypeUUID,
			Value:      value,
			Start:      start,
			End:        end,
			Confidence: uuidConfidence,
			Payload: metadata.UUID{
				Value:   value,
				Version: int(parsed.Version()),
				Variant: variantName(parsed.Variant()),
			},
		})
		if len(detections) == maxPerFamily {
			break
		}
	}
	return detections
}

func variantName(v googleuuid.Variant) string {
	switch v {
	case googleuuid.RFC4122:
		return "rfc4122"
	case googleuuid.Reserved:
		return "ncs"
	case googleuuid.Microsoft:
		return "microsoft"
	case googleuuid.Future:
		return "future"
	default:
		return "invalid"
	}
}
