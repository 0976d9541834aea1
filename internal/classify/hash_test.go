package classify

import (
	"strings"
	"testing"

	"github.com/crmitchelmore/pasta/internal/metadata"
)

func TestDetectHashes_Algorithms(t *testing.T) {
	tests := []struct {
		value     string
		algorithm string
		bits      int
	}{
		{"d41d8cd98f00b204e9800998ecf8427e", "md5", 128},
		{"da39a3ee5e6b4b0d3255bfef95601890afd80709", "sha1", 160},
		{strings.Repeat("ab", 32), "sha256", 256},
		{strings.Repeat("0f", 64), "sha512", 512},
	}
	for _, tt := range tests {
		detections := detectHashes("digest: " + tt.value)
		if len(detections) != 1 {
			t.Fatalf("detectHashes(%q) found %d, want 1", tt.value, len(detections))
		}
		payload := detections[0].Payload.(metadata.Hash)
		if payload.Algorithm != tt.algorithm {
			t.Errorf("Algorithm = %q, want %q", payload.Algorithm, tt.algorithm)
		}
		if payload.Bits != tt.bits {
			t.Errorf("Bits = %d, want %d", payload.Bits, tt.bits)
		}
	}
}

func TestDetectHashes_RejectsNonStandard(t *testing.T) {
	tests := []string{
		strings.Repeat("a", 63),
		strings.Repeat("a", 65),
		"d41d8cd98f00b204e9800998ecf8427g",
		"not a hash at all",
	}
	for _, text := range tests {
		if detections := detectHashes(text); len(detections) != 0 {
			t.Errorf("detectHashes(%q) = %v, want none", text, detections)
		}
	}
}

func TestDetectHashes_Dedupe(t *testing.T) {
	h := "d41d8cd98f00b204e9800998ecf8427e"
	detections := detectHashes(h + " " + strings.ToUpper(h))
	if len(detections) != 1 {
		t.Errorf("got %d detections, want 1", len(detections))
	}
}
