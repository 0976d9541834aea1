package ops

import (
	"database/sql"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/db"
	"github.com/crmitchelmore/pasta/internal/errors"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Type            string // optional content-type filter
	IncludeChildren bool   // include extracted child entries
	Limit           int    // default: 20, max: 100
	Offset          int
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []clip.Entry `json:"items"`
	Pagination Pagination   `json:"pagination"`
}

// List retrieves captured entries newest-first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	var typeFilter clip.ContentType
	if input.Type != "" {
		typeFilter = clip.ContentType(input.Type)
		if !typeFilter.Valid() {
			return nil, errors.NewInvalidRequest("unknown content type: " + input.Type)
		}
	}

	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	entries, total, err := db.List(database, db.ListFilter{
		Type:     typeFilter,
		TopLevel: !input.IncludeChildren,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []clip.Entry{}
	}
	return &ListOutput{
		Items: entries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(entries) < total,
			Total:   total,
		},
	}, nil
}
