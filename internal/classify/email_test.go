package classify

import (
	"testing"

	"github.com/crmitchelmore/pasta/internal/metadata"
)

func TestDetectEmails_Basic(t *testing.T) {
	detections := detectEmails("contact alice@example.com for details")
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
	d := detections[0]
	if d.Value != "alice@example.com" {
		t.Errorf("Value = %q, want alice@example.com", d.Value)
	}
	if d.Confidence != emailConfidence {
		t.Errorf("Confidence = %v, want %v", d.Confidence, emailConfidence)
	}
}

func TestDetectEmails_WholeTokenOnly(t *testing.T) {
	// An address fused into a larger token is taken whole or not at all;
	// "com" inside the tail must never become a split point.
	detections := detectEmails("xxa@example.comyy")
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
	if detections[0].Value != "xxa@example.comyy" {
		t.Errorf("Value = %q, want the whole token", detections[0].Value)
	}
}

func TestDetectEmails_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"doubled at", "a@@example.com"},
		{"two ats", "a@b@example.com"},
		{"leading at", "@example.com"},
		{"trailing at", "user@"},
		{"no tld", "user@localhost"},
		{"numeric tld", "user@example.123"},
		{"short tld", "user@example.c"},
		{"leading dot local", ".user@example.com"},
		{"doubled dot local", "us..er@example.com"},
		{"label leading hyphen", "user@-bad.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if detections := detectEmails(tt.text); len(detections) != 0 {
				t.Errorf("detectEmails(%q) = %v, want none", tt.text, detections)
			}
		})
	}
}

func TestDetectEmails_TrimsPunctuation(t *testing.T) {
	detections := detectEmails(`Send it to (bob@example.org).`)
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
	if detections[0].Value != "bob@example.org" {
		t.Errorf("Value = %q, want bob@example.org", detections[0].Value)
	}
}

func TestDetectEmails_DedupeCaseInsensitive(t *testing.T) {
	detections := detectEmails("Alice@Example.com then alice@example.com again")
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
	// First-seen casing wins.
	if detections[0].Value != "Alice@Example.com" {
		t.Errorf("Value = %q, want first-seen casing preserved", detections[0].Value)
	}
}

func TestDetectEmails_DomainLowercased(t *testing.T) {
	detections := detectEmails("Bob@EXAMPLE.ORG")
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
	payload, ok := detections[0].Payload.(metadata.Email)
	if !ok {
		t.Fatalf("Payload is %T, want metadata.Email", detections[0].Payload)
	}
	if payload.Domain != "example.org" {
		t.Errorf("Domain = %q, want example.org", payload.Domain)
	}
	if payload.Address != "Bob@EXAMPLE.ORG" {
		t.Errorf("Address = %q, want original casing", payload.Address)
	}
}
