package ops

import (
	"database/sql"
	"strings"
	"unicode/utf8"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/db"
	"github.com/crmitchelmore/pasta/internal/errors"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query  string // required
	Family string // optional: keep only entries whose metadata contains this family
	Limit  int    // default: 20, max: 100
	Offset int
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items []clip.Entry `json:"items"`
	Sort  string       `json:"sort"` // "relevance"
}

// Search performs full-text search over the decoded content of captured
// entries, ranked by relevance (BM25). An optional family filter uses the
// metadata codec's containment test, so filtering never parses documents
// that cannot match.
func Search(database *sql.DB, codec *metadata.Codec, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}
	if utf8.RuneCountInString(query) > db.MaxSearchQueryChars {
		return nil, errors.NewInvalidRequest("query too long")
	}

	var family clip.ContentType
	if input.Family != "" {
		family = clip.ContentType(input.Family)
		if !family.Valid() {
			return nil, errors.NewInvalidRequest("unknown content type: " + input.Family)
		}
	}

	limit := clampLimit(input.Limit, DefaultSearchLimit, MaxSearchLimit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	entries, err := db.Search(database, query, limit, offset)
	if err != nil {
		return nil, err
	}

	if family != "" {
		filtered := entries[:0]
		for _, e := range entries {
			if codec.ContainsFamily(family, e.Metadata) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	if entries == nil {
		entries = []clip.Entry{}
	}
	return &SearchOutput{Items: entries, Sort: "relevance"}, nil
}
