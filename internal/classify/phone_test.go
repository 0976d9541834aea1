package classify

import (
	"testing"

	"github.com/crmitchelmore/pasta/internal/metadata"
)

func TestDetectPhoneNumbers_Basic(t *testing.T) {
	detections := detectPhoneNumbers("call 555-867-5309 tomorrow")
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
	d := detections[0]
	if d.Value != "555-867-5309" {
		t.Errorf("Value = %q", d.Value)
	}
	payload := d.Payload.(metadata.PhoneNumber)
	if payload.Digits != "5558675309" {
		t.Errorf("Digits = %q, want 5558675309", payload.Digits)
	}
}

func TestDetectPhoneNumbers_International(t *testing.T) {
	detections := detectPhoneNumbers("reach me at +1 (555) 867-5309")
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
	if detections[0].Value != "+1 (555) 867-5309" {
		t.Errorf("Value = %q", detections[0].Value)
	}
}

func TestDetectPhoneNumbers_ShortPrefixed(t *testing.T) {
	// With an explicit +CC, numbers under ten digits are still accepted.
	detections := detectPhoneNumbers("+1 23 456 789")
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
}

func TestDetectPhoneNumbers_RejectsDateLikeRuns(t *testing.T) {
	tests := []string{
		"released on 2024-08-31",
		"order 123-4567",
		"build 20240831",
	}
	for _, text := range tests {
		if detections := detectPhoneNumbers(text); len(detections) != 0 {
			t.Errorf("detectPhoneNumbers(%q) = %v, want none", text, detections)
		}
	}
}

func TestDetectPhoneNumbers_DedupeByDigits(t *testing.T) {
	detections := detectPhoneNumbers("555.867.5309 or 555-867-5309")
	if len(detections) != 1 {
		t.Errorf("got %d detections, want 1 (same digit sequence)", len(detections))
	}
}
