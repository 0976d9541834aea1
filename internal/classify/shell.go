package classify

import (
	"strings"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

// knownBinaries are command names that strongly suggest a shell invocation
// when they lead a line.
var knownBinaries = map[string]bool{
	"ls": true, "cd": true, "cat": true, "cp": true, "mv": true, "rm": true,
	"mkdir": true, "touch": true, "chmod": true, "chown": true, "ln": true,
	"grep": true, "find": true, "sed": true, "awk": true, "sort": true,
	"head": true, "tail": true, "less": true, "echo": true, "which": true,
	"curl": true, "wget": true, "ssh": true, "scp": true, "rsync": true,
	"tar": true, "zip": true, "unzip": true, "gzip": true,
	"git": true, "docker": true, "kubectl": true, "helm": true,
	"make": true, "cmake": true, "gcc": true, "clang": true,
	"go": true, "cargo": true, "rustc": true, "python": true, "python3": true,
	"pip": true, "pip3": true, "node": true, "npm": true, "npx": true,
	"yarn": true, "pnpm": true, "ruby": true, "gem": true, "bundle": true,
	"brew": true, "apt": true, "apt-get": true, "yum": true, "dnf": true,
	"pacman": true, "systemctl": true, "journalctl": true, "ps": true,
	"kill": true, "top": true, "htop": true, "man": true, "sudo": true,
	"vim": true, "nano": true, "code": true, "open": true,
}

// detectShellCommands finds shell invocations line by line. A line counts
// as a command when, after stripping an optional "$ " prompt and a sudo
// prefix, its first word is a known binary. Each finding's confidence is
// scaled by the fraction of non-blank lines that are commands, so a prose
// paragraph quoting one command does not classify as shellCommand overall
// while the command itself is still extracted.
func detectShellCommands(text string) []Detection {
	lines := strings.Split(text, "\n")

	type hit struct {
		command string
		binary  string
		start   int
		end     int
	}
	var hits []hit
	nonBlank := 0

	offset := 0
	for _, line := range lines {
		lineStart := offset
		offset += len(line) + 1

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonBlank++

		command := strings.TrimPrefix(trimmed, "$ ")
		if binary, ok := commandBinary(command); ok {
			hits = append(hits, hit{
				command: command,
				binary:  binary,
				start:   lineStart,
				end:     lineStart + len(line),
			})
		}
	}

	if len(hits) == 0 {
		return nil
	}

	ratio := float64(len(hits)) / float64(nonBlank)
	confidence := 0.9 * ratio

	var detections []Detection
	seen := map[string]bool{}
	for _, h := range hits {
		if seen[h.command] {
			continue
		}
		seen[h.command] = true
		detections = append(detections, Detection{
			Type:       clip.TypeShellCommand,
			Value:      h.command,
			Start:      h.start,
			End:        h.end,
			Confidence: confidence,
			Payload:    metadata.ShellCommand{Command: h.command, Binary: h.binary},
		})
		if len(detections) == maxPerFamily {
			break
		}
	}
	return detections
}

// commandBinary returns the leading binary of a command line, looking past
// a sudo prefix. Environment-style assignments never count as commands.
func commandBinary(command string) (string, bool) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", false
	}
	first := fields[0]
	if first == "sudo" && len(fields) > 1 {
		first = fields[1]
	}
	if strings.Contains(first, "=") {
		return "", false
	}
	// Absolute invocations like /usr/bin/git count by their base name.
	base := pathBase(first)
	if knownBinaries[base] {
		return base, true
	}
	return "", false
}
