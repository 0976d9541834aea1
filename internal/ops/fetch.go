package ops

import (
	"database/sql"
	"strings"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/db"
	"github.com/crmitchelmore/pasta/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID              string // required
	IncludeChildren bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	Entry    clip.Entry   `json:"entry"`
	Children []clip.Entry `json:"children,omitempty"`
}

// Fetch retrieves one entry by ID, optionally with its extracted children.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	entry, err := db.GetByID(database, id)
	if err != nil {
		return nil, err
	}

	out := &FetchOutput{Entry: *entry}
	if input.IncludeChildren {
		children, err := db.GetChildren(database, id)
		if err != nil {
			return nil, err
		}
		out.Children = children
	}
	return out, nil
}
