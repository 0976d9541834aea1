package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/crmitchelmore/pasta/internal/db"
	"github.com/crmitchelmore/pasta/internal/errors"
)

// Delete removes one entry by ID. Extracted children are independent
// records; removing a parent does not cascade.
func Delete(database *sql.DB, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.NewInvalidRequest("id is required")
	}
	return db.Delete(database, id)
}

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	OlderThanDays int // required, must be positive
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Removed int `json:"removed"`
}

// Purge removes all entries captured before the cutoff.
func Purge(database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	if input.OlderThanDays <= 0 {
		return nil, errors.NewInvalidRequest("older_than_days must be positive")
	}
	cutoff := time.Now().AddDate(0, 0, -input.OlderThanDays).Unix()
	removed, err := db.Purge(database, cutoff)
	if err != nil {
		return nil, err
	}
	return &PurgeOutput{Removed: removed}, nil
}
