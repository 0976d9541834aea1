package classify

import (
	"encoding/json"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

// languageSignal holds distinctive keywords for one language. A language
// needs at least two signal hits before it is considered.
type languageSignal struct {
	language string
	signals  []string
}

// languageSignals is checked in order; the highest hit count wins.
var languageSignals = []languageSignal{
	{"go", []string{"func ", "package ", ":= ", "fmt.", "defer ", "go func", "chan ", "interface{"}},
	{"python", []string{"def ", "import ", "elif ", "self.", "print(", "lambda ", "__init__", "None"}},
	{"javascript", []string{"function ", "const ", "=> ", "console.log", "let ", "async ", "await ", "require("}},
	{"typescript", []string{"interface ", ": string", ": number", "export ", "readonly ", "implements "}},
	{"rust", []string{"fn ", "let mut ", "impl ", "pub ", "::new(", "match ", "&str", "println!"}},
	{"java", []string{"public class", "private ", "void ", "System.out", "extends ", "@Override"}},
	{"c", []string{"#include", "int main", "printf(", "void ", "struct ", "->"}},
	{"sql", []string{"SELECT ", "FROM ", "WHERE ", "INSERT INTO", "UPDATE ", "CREATE TABLE", "JOIN "}},
	{"html", []string{"<div", "</", "<html", "<body", "<span", "href="}},
	{"shell", []string{"#!/bin/", "if [ ", "fi\n", "done\n", "${", "&&"}},
	{"yaml", []string{"- name:", "  - ", ": |", "---\n"}},
}

// detectCode applies a language heuristic to the subject text. Signals are
// keyword hits per language, structural shape (brace/semicolon density,
// indentation), whole-input JSON validity, and fenced markdown code blocks
// with an info string. The strongest signal determines the reported
// language hint.
func detectCode(text string) []Detection {
	if d, ok := jsonDetection(text); ok {
		return []Detection{d}
	}

	var detections []Detection
	seen := seenSet{}

	// Fenced blocks are the most explicit hint an input can carry.
	for _, lang := range fencedLanguages(text) {
		if !seen.add(lang) {
			continue
		}
		detections = append(detections, codeDetection(text, lang, 0.9))
	}

	language, hits := bestLanguage(text)
	if hits >= 2 {
		confidence := 0.55 + 0.1*float64(hits)
		if structuralCodeShape(text) {
			confidence += 0.1
		}
		if confidence > 0.9 {
			confidence = 0.9
		}
		if seen.add(language) {
			detections = append(detections, codeDetection(text, language, confidence))
		}
	} else if len(detections) == 0 && structuralCodeShape(text) {
		detections = append(detections, codeDetection(text, "", 0.6))
	}

	return detections
}

func codeDetection(text, language string, confidence float64) Detection {
	return Detection{
		Type:       clip.TypeCode,
		Value:      language,
		Start:      0,
		End:        len(text),
		Confidence: confidence,
		Payload:    metadata.CodeHint{Language: language},
	}
}

// jsonDetection accepts whole-input JSON objects and arrays.
func jsonDetection(text string) (Detection, bool) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < 2 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return Detection{}, false
	}
	if !json.Valid([]byte(trimmed)) {
		return Detection{}, false
	}
	return codeDetection(text, "json", 0.95), true
}

// fencedLanguages parses the input as markdown and collects the info
// strings of fenced code blocks (```go, ```python, ...).
func fencedLanguages(text string) []string {
	source := []byte(text)
	if !strings.Contains(text, "```") {
		return nil
	}

	var languages []string
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(source))
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if fenced, ok := n.(*ast.FencedCodeBlock); ok {
			if lang := fenced.Language(source); len(lang) > 0 {
				languages = append(languages, string(lang))
			}
		}
		return ast.WalkContinue, nil
	})
	return languages
}

// bestLanguage returns the language with the most keyword hits.
func bestLanguage(text string) (string, int) {
	bestLang, bestHits := "", 0
	for _, ls := range languageSignals {
		hits := 0
		for _, signal := range ls.signals {
			if strings.Contains(text, signal) {
				hits++
			}
		}
		if hits > bestHits {
			bestLang, bestHits = ls.language, hits
		}
	}
	return bestLang, bestHits
}

// structuralCodeShape checks line endings and indentation for code-like
// structure independent of any particular language.
func structuralCodeShape(text string) bool {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return false
	}
	structured, indented, nonBlank := 0, 0, 0
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		nonBlank++
		switch {
		case strings.HasSuffix(trimmed, "{"), strings.HasSuffix(trimmed, "}"),
			strings.HasSuffix(trimmed, ";"), strings.HasSuffix(trimmed, ":"):
			structured++
		}
		if strings.HasPrefix(line, "\t") || strings.HasPrefix(line, "    ") {
			indented++
		}
	}
	if nonBlank == 0 {
		return false
	}
	return float64(structured+indented) >= float64(nonBlank)*0.6
}
