package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

const urlConfidence = 0.95

// urlPattern matches http, https, and ftp URLs. mailto: and file: are
// deliberately not recognized as URLs by this family.
var urlPattern = regexp.MustCompile(`(?i)\b(?:https?|ftp)://[^\s<>"']+`)

// domainCategories maps known domains to their category label. Lookup also
// matches subdomains (gist.github.com -> github).
var domainCategories = map[string]string{
	"github.com":        "github",
	"gitlab.com":        "gitlab",
	"bitbucket.org":     "bitbucket",
	"stackoverflow.com": "stackoverflow",
	"stackexchange.com": "stackoverflow",
	"google.com":        "google",
	"youtube.com":       "youtube",
	"youtu.be":          "youtube",
	"twitter.com":       "twitter",
	"x.com":             "twitter",
	"reddit.com":        "reddit",
	"wikipedia.org":     "wikipedia",
	"npmjs.com":         "npm",
	"pkg.go.dev":        "godoc",
	"docs.rs":           "docs",
	"medium.com":        "blog",
	"dev.to":            "blog",
}

// detectURLs finds URLs in the subject text, de-duplicated by exact URL
// with first occurrence order preserved.
func detectURLs(text string) []Detection {
	var detections []Detection
	seen := map[string]bool{}

	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		raw := trimURLTail(text[start:end])
		end = start + len(raw)
		if seen[raw] {
			continue
		}

		parsed, err := url.Parse(raw)
		if err != nil || parsed.Hostname() == "" {
			continue
		}
		seen[raw] = true

		domain := strings.ToLower(parsed.Hostname())
		detections = append(detections, Detection{
			Type:       clip.TypeURL,
			Value:      raw,
			Start:      start,
			End:        end,
			Confidence: urlConfidence,
			Payload: metadata.URL{
				URL:      raw,
				Domain:   domain,
				Category: categorizeDomain(domain),
			},
		})
		if len(detections) == maxPerFamily {
			break
		}
	}
	return detections
}

// trimURLTail strips sentence punctuation and unbalanced brackets that the
// pattern greedily swallowed ("see https://example.com." or "(https://x.y)").
func trimURLTail(raw string) string {
	for len(raw) > 0 {
		last := raw[len(raw)-1]
		if strings.IndexByte(`.,;:!?`, last) >= 0 {
			raw = raw[:len(raw)-1]
			continue
		}
		if last == ')' && strings.Count(raw, ")") > strings.Count(raw, "(") {
			raw = raw[:len(raw)-1]
			continue
		}
		if last == ']' && strings.Count(raw, "]") > strings.Count(raw, "[") {
			raw = raw[:len(raw)-1]
			continue
		}
		break
	}
	return raw
}

// categorizeDomain resolves a domain (or any of its parent domains) against
// the category table. Unknown domains get no category.
func categorizeDomain(domain string) string {
	domain = strings.TrimPrefix(domain, "www.")
	for d := domain; d != ""; {
		if cat, ok := domainCategories[d]; ok {
			return cat
		}
		dot := strings.IndexByte(d, '.')
		if dot < 0 {
			break
		}
		d = d[dot+1:]
	}
	return ""
}
