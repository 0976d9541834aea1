// Package ops implements the host operations around the classification
// engine: capturing clipboard items into the store, dry-run classification,
// and querying captured history.
package ops

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/crmitchelmore/pasta/internal/classify"
	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/config"
	"github.com/crmitchelmore/pasta/internal/errors"
)

// Pagination limits
const (
	DefaultListLimit   = 20
	MaxListLimit       = 100
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// clampLimit applies default and maximum to a requested page size.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// validateContent enforces the host size limit on captured text.
func validateContent(content string, cfg *config.Config) error {
	if content == "" {
		return errors.NewInvalidRequest("content is required")
	}
	if chars := utf8.RuneCountInString(content); chars > cfg.MaxContentChars {
		return errors.NewEntryTooLarge(cfg.MaxContentChars, chars)
	}
	return nil
}

// engineOptions maps host config onto the engine's options.
func engineOptions(cfg *config.Config) classify.Options {
	return classify.Options{
		ExtractContent:  cfg.ExtractContent,
		OnDetectorFault: reportDetectorFault,
	}
}

// reportDetectorFault surfaces a recovered detector panic to stderr. The
// faulting family contributed nothing; the classification itself stands.
func reportDetectorFault(family clip.ContentType, cause any) {
	fmt.Fprintf(os.Stderr, "warning: %s detector fault: %v\n", family, cause)
}
