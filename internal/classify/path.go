package classify

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

const (
	pathConfidence       = 0.7
	pathExistsConfidence = 0.95

	// defaultStatTimeout bounds the filesystem existence check so a slow or
	// absent mount can never stall classification.
	defaultStatTimeout = 50 * time.Millisecond
)

// statFunc checks path existence. Injectable for tests and for hosts that
// want classification with no filesystem access at all.
type statFunc func(path string) bool

// detectFilePaths finds POSIX absolute paths, ~-prefixed paths, and
// Windows drive paths (both slash styles) in the subject text. Tilde
// expands to the current user's home directory. Existence raises the
// finding's confidence but is never required.
func detectFilePaths(text string, stat statFunc) []Detection {
	var detections []Detection
	seen := map[string]bool{}

	home, _ := os.UserHomeDir()

	for _, tok := range tokenize(text) {
		tok = trimPunct(tok)
		raw := tok.text
		if !looksLikePath(raw) || seen[raw] {
			continue
		}
		seen[raw] = true

		expanded := raw
		if strings.HasPrefix(raw, "~/") && home != "" {
			expanded = filepath.Join(home, raw[2:])
		}

		exists := stat != nil && stat(expanded)
		confidence := pathConfidence
		if exists {
			confidence = pathExistsConfidence
		}

		filename := pathBase(expanded)
		detections = append(detections, Detection{
			Type:       clip.TypeFilePath,
			Value:      raw,
			Start:      tok.start,
			End:        tok.end,
			Confidence: confidence,
			Payload: metadata.FilePath{
				Path:      expanded,
				Filename:  filename,
				Extension: pathExtension(filename),
				Exists:    exists,
			},
		})
		if len(detections) == maxPerFamily {
			break
		}
	}
	return detections
}

// looksLikePath accepts /absolute, ~/home-relative, and C:\ or C:/ drive
// paths. Bare "/" and other degenerate candidates are rejected.
func looksLikePath(s string) bool {
	switch {
	case strings.HasPrefix(s, "~/"):
		return len(s) > 2
	case strings.HasPrefix(s, "/"):
		return len(s) > 2 && !strings.Contains(s, "//")
	case len(s) > 3 && isDriveLetter(s[0]) && s[1] == ':' && (s[2] == '\\' || s[2] == '/'):
		return true
	}
	return false
}

func isDriveLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// pathBase returns the final component, handling both separator styles
// regardless of the platform the engine runs on.
func pathBase(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// pathExtension returns the filename extension without the dot, or "".
func pathExtension(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i <= 0 || i == len(filename)-1 {
		return ""
	}
	return filename[i+1:]
}

// statWithTimeout is the default statFunc: a plain os.Stat raced against a
// deadline. On timeout the path is reported as not existing; a stalled stat
// goroutine is abandoned rather than awaited.
func statWithTimeout(timeout time.Duration) statFunc {
	return func(path string) bool {
		done := make(chan bool, 1)
		go func() {
			_, err := os.Stat(path)
			done <- err == nil
		}()
		select {
		case exists := <-done:
			return exists
		case <-time.After(timeout):
			return false
		}
	}
}
