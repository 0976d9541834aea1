package ops

import (
	"database/sql"
	"time"

	"github.com/crmitchelmore/pasta/internal/classify"
	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/config"
	"github.com/crmitchelmore/pasta/internal/db"
	"github.com/crmitchelmore/pasta/internal/errors"
)

// CaptureInput contains parameters for the Capture operation.
type CaptureInput struct {
	Content   string    // required
	SourceApp string    // optional source application identifier
	Timestamp time.Time // zero: now
}

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	// ID is the primary entry's ULID; empty when the capture was split or
	// dropped by policy
	ID string `json:"id,omitempty"`

	Type       clip.ContentType `json:"type"`
	Confidence float64          `json:"confidence"`
	Metadata   string           `json:"metadata,omitempty"`

	// SplitIDs are the independent records an env-var block split into
	SplitIDs []string `json:"split_ids,omitempty"`

	// ChildIDs are the extracted child records
	ChildIDs []string `json:"child_ids,omitempty"`

	// Skipped is true when the skip_api_keys policy dropped the capture
	// after classification
	Skipped bool `json:"skipped,omitempty"`
}

// Capture classifies a clipboard item and persists the resulting records:
// one enriched entry (plus extracted children), or the independent split
// entries of an env-var block, never both.
func Capture(database *sql.DB, cfg *config.Config, input CaptureInput) (*CaptureOutput, error) {
	if err := validateContent(input.Content, cfg); err != nil {
		return nil, err
	}

	ts := input.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	primaryID, err := clip.NewID(ts)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	result := classify.Classify(classify.Input{
		EntryID:   primaryID,
		Content:   input.Content,
		SourceApp: input.SourceApp,
		Timestamp: ts,
	}, engineOptions(cfg))

	out := &CaptureOutput{
		Type:       result.Type,
		Confidence: result.Confidence,
		Metadata:   result.Metadata,
	}

	// Consumer policy: the capture was classified either way, it is just
	// not stored.
	if cfg.SkipAPIKeys && result.Type == clip.TypeAPIKey {
		out.Skipped = true
		return out, nil
	}

	if len(result.SplitEntries) > 0 {
		splits := result.SplitEntries
		for i := range splits {
			id, err := clip.NewID(ts)
			if err != nil {
				return nil, errors.NewInternal(err)
			}
			splits[i].ID = id
			out.SplitIDs = append(out.SplitIDs, id)
		}
		if err := db.InsertCapture(database, nil, nil, splits, ""); err != nil {
			return nil, err
		}
		return out, nil
	}

	primary := &clip.Entry{
		ID:         primaryID,
		Content:    input.Content,
		Type:       result.Type,
		Confidence: result.Confidence,
		SourceApp:  input.SourceApp,
		Metadata:   result.Metadata,
		CreatedAt:  ts.Unix(),
	}

	children := result.ExtractedItems
	for i := range children {
		id, err := clip.NewID(ts)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		children[i].ID = id
		out.ChildIDs = append(out.ChildIDs, id)
	}

	// The full-text index sees the decoded view of the content, never the
	// metadata JSON.
	if err := db.InsertCapture(database, primary, children, nil, result.Decoded.Text); err != nil {
		return nil, err
	}

	out.ID = primaryID
	return out, nil
}

// CaptureBinary stores an image capture; classification is bypassed.
func CaptureBinary(database *sql.DB, cfg *config.Config, sourceApp string, screenshot bool, ts time.Time) (*CaptureOutput, error) {
	if ts.IsZero() {
		ts = time.Now()
	}
	id, err := clip.NewID(ts)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	result := classify.Classify(classify.Input{
		EntryID:    id,
		Binary:     true,
		Screenshot: screenshot,
		SourceApp:  sourceApp,
		Timestamp:  ts,
	}, engineOptions(cfg))

	entry := &clip.Entry{
		ID:         id,
		Type:       result.Type,
		Confidence: result.Confidence,
		SourceApp:  sourceApp,
		CreatedAt:  ts.Unix(),
	}
	if err := db.InsertCapture(database, entry, nil, nil, ""); err != nil {
		return nil, err
	}

	return &CaptureOutput{ID: id, Type: result.Type, Confidence: result.Confidence}, nil
}
