package classify

import (
	"testing"

	"github.com/crmitchelmore/pasta/internal/metadata"
)

func TestDetectShellCommands_SingleLine(t *testing.T) {
	detections := detectShellCommands("git commit -m 'fix parser'")
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
	d := detections[0]
	if d.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9 for an all-command input", d.Confidence)
	}
	payload := d.Payload.(metadata.ShellCommand)
	if payload.Binary != "git" {
		t.Errorf("Binary = %q, want git", payload.Binary)
	}
}

func TestDetectShellCommands_PromptAndSudo(t *testing.T) {
	tests := []struct {
		text   string
		binary string
	}{
		{"$ docker ps -a", "docker"},
		{"sudo systemctl restart nginx", "systemctl"},
		{"/usr/bin/git status", "git"},
	}
	for _, tt := range tests {
		detections := detectShellCommands(tt.text)
		if len(detections) != 1 {
			t.Fatalf("detectShellCommands(%q) found %d, want 1", tt.text, len(detections))
		}
		payload := detections[0].Payload.(metadata.ShellCommand)
		if payload.Binary != tt.binary {
			t.Errorf("Binary = %q, want %q", payload.Binary, tt.binary)
		}
	}
}

func TestDetectShellCommands_RatioScaling(t *testing.T) {
	// One command line out of three non-blank lines.
	text := "First install the tool.\ncurl -fsSL https://example.com/install.sh\nThen restart your terminal."
	detections := detectShellCommands(text)
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
	want := 0.9 / 3
	if diff := detections[0].Confidence - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Confidence = %v, want %v", detections[0].Confidence, want)
	}
}

func TestDetectShellCommands_NotCommands(t *testing.T) {
	tests := []string{
		"FOO=bar ls -la",
		"unknowncmd --flag",
		"just words here",
		"# ls -la",
		"",
	}
	for _, text := range tests {
		if detections := detectShellCommands(text); len(detections) != 0 {
			t.Errorf("detectShellCommands(%q) = %v, want none", text, detections)
		}
	}
}

func TestDetectShellCommands_DedupeLines(t *testing.T) {
	detections := detectShellCommands("ls -la\nls -la\ncd /tmp")
	if len(detections) != 2 {
		t.Errorf("got %d detections, want 2", len(detections))
	}
}
