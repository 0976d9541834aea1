package ops

import (
	"time"

	"github.com/crmitchelmore/pasta/internal/classify"
	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/config"
)

// ClassifyInput contains parameters for the Classify operation.
type ClassifyInput struct {
	Content   string
	SourceApp string
	Timestamp time.Time // zero: now
}

// ClassifyOutput is a dry-run classification: nothing is persisted.
type ClassifyOutput struct {
	Type       clip.ContentType `json:"type"`
	Confidence float64          `json:"confidence"`
	Metadata   string           `json:"metadata,omitempty"`

	// Decoded is present when the encoding resolver peeled at least one
	// layer; it is a preview artifact, not stored content
	Decoded   string   `json:"decoded,omitempty"`
	Encodings []string `json:"encodings,omitempty"`

	// Splits previews the contents an env-var block would split into
	Splits []string `json:"splits,omitempty"`

	// Extracted previews the child records extraction would produce
	Extracted []ExtractedPreview `json:"extracted,omitempty"`
}

// ExtractedPreview describes one would-be child record.
type ExtractedPreview struct {
	Type    clip.ContentType `json:"type"`
	Content string           `json:"content"`
}

// Classify runs the engine on content without touching the store.
func Classify(cfg *config.Config, input ClassifyInput) (*ClassifyOutput, error) {
	if err := validateContent(input.Content, cfg); err != nil {
		return nil, err
	}

	ts := input.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	result := classify.Classify(classify.Input{
		Content:   input.Content,
		SourceApp: input.SourceApp,
		Timestamp: ts,
	}, engineOptions(cfg))

	out := &ClassifyOutput{
		Type:       result.Type,
		Confidence: result.Confidence,
		Metadata:   result.Metadata,
	}
	if len(result.Decoded.Encodings) > 0 {
		out.Decoded = result.Decoded.Text
		out.Encodings = result.Decoded.Encodings
	}
	for _, e := range result.SplitEntries {
		out.Splits = append(out.Splits, e.Content)
	}
	for _, e := range result.ExtractedItems {
		out.Extracted = append(out.Extracted, ExtractedPreview{Type: e.Type, Content: e.Content})
	}
	return out, nil
}
