package classify

import (
	"regexp"
	"strings"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

// assignPattern matches one [export ]KEY=VALUE line. KEY is uppercase with
// digits and underscores; VALUE runs to end of line and may be quoted.
var assignPattern = regexp.MustCompile(`^(export[ \t]+)?([A-Z_][A-Z0-9_]*)=(.*)$`)

// envScan is the raw result of scanning input lines for assignments.
type envScan struct {
	vars    []metadata.EnvVar
	scanned int // non-blank, non-comment lines seen
	valid   int // lines that were assignments
}

// detectEnvVars scans the subject for environment-variable assignments.
//
// Two shapes come out of one scan:
//   - a single-line input that is exactly one assignment detects as envVar
//     with confidence 1.0;
//   - a multi-line input detects as envVarBlock, with confidence equal to
//     the fraction of considered lines that are valid assignments. Blank
//     lines and '#' comments are skipped, never counted against the block.
//
// Zero assignments yields no detection at all: that is just "not env", not
// an error.
func detectEnvVars(text string) []Detection {
	scan := scanEnvLines(text)
	if scan.valid == 0 {
		return nil
	}

	trimmed := strings.TrimSpace(text)
	singleLine := !strings.Contains(trimmed, "\n")

	if singleLine && scan.scanned == 1 && scan.valid == 1 {
		return []Detection{{
			Type:       clip.TypeEnvVar,
			Value:      trimmed,
			Start:      0,
			End:        len(text),
			Confidence: 1.0,
			Payload:    metadata.Env{IsBlock: false, Vars: scan.vars},
		}}
	}

	confidence := float64(scan.valid) / float64(scan.scanned)
	return []Detection{{
		Type:       clip.TypeEnvVarBlock,
		Value:      trimmed,
		Start:      0,
		End:        len(text),
		Confidence: confidence,
		Payload:    metadata.Env{IsBlock: true, Vars: scan.vars},
	}}
}

// scanEnvLines collects assignments line by line.
func scanEnvLines(text string) envScan {
	var scan envScan
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		scan.scanned++
		if v, ok := parseAssignment(line); ok {
			scan.valid++
			scan.vars = append(scan.vars, v)
		}
	}
	return scan
}

// parseAssignment parses one [export ]KEY=VALUE line, stripping a matching
// pair of single or double quotes from the value.
func parseAssignment(line string) (metadata.EnvVar, bool) {
	m := assignPattern.FindStringSubmatch(line)
	if m == nil {
		return metadata.EnvVar{}, false
	}
	return metadata.EnvVar{
		Key:        m[2],
		Value:      unquote(strings.TrimSpace(m[3])),
		IsExported: m[1] != "",
	}, true
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if first == last && (first == '"' || first == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}
