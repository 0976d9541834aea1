package classify

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

// maxExtractedItems is the global cap on child records produced for one
// capture, across all families.
const maxExtractedItems = 50

// textFallbackConfidence is reported when no family clears its threshold.
const textFallbackConfidence = 0.5

// priorityOrder is the fixed cascade for primary-type selection: the most
// specific, least ambiguous families first. The order is total; detector
// completion order never affects the outcome.
var priorityOrder = []clip.ContentType{
	clip.TypeEnvVarBlock,
	clip.TypeJWT,
	clip.TypeAPIKey,
	clip.TypeEnvVar,
	clip.TypeURL,
	clip.TypeEmail,
	clip.TypeUUID,
	clip.TypeIPAddress,
	clip.TypeHash,
	clip.TypePhoneNumber,
	clip.TypeFilePath,
	clip.TypeShellCommand,
	clip.TypeCode,
	clip.TypeProse,
}

// minConfidence is the per-family threshold a detection must clear for its
// family to be eligible as the primary type. Findings below threshold still
// populate metadata; they just never win the cascade.
var minConfidence = map[clip.ContentType]float64{
	clip.TypeEnvVarBlock:  0.99,
	clip.TypeJWT:          0.9,
	clip.TypeAPIKey:       0.75,
	clip.TypeEnvVar:       0.99,
	clip.TypeURL:          0.6,
	clip.TypeEmail:        0.6,
	clip.TypeUUID:         0.9,
	clip.TypeIPAddress:    0.6,
	clip.TypeHash:         0.8,
	clip.TypePhoneNumber:  0.7,
	clip.TypeFilePath:     0.65,
	clip.TypeShellCommand: 0.7,
	clip.TypeCode:         0.6,
	clip.TypeProse:        0.6,
}

// childFamilies are the families whose findings materialize as child
// records when extraction is enabled. Heuristic whole-input families (code,
// prose) stay metadata-only: a child record holding just a language name
// would be noise.
var childFamilies = map[clip.ContentType]bool{
	clip.TypeEmail:        true,
	clip.TypeURL:          true,
	clip.TypePhoneNumber:  true,
	clip.TypeIPAddress:    true,
	clip.TypeUUID:         true,
	clip.TypeHash:         true,
	clip.TypeAPIKey:       true,
	clip.TypeJWT:          true,
	clip.TypeEnvVar:       true,
	clip.TypeEnvVarBlock:  true,
	clip.TypeFilePath:     true,
	clip.TypeShellCommand: true,
}

// Input is one captured item handed to the engine.
type Input struct {
	// EntryID is the identifier the host assigned to the primary record;
	// extracted children reference it as their parent
	EntryID string

	// Content is the captured text exactly as taken from the pasteboard
	Content string

	// SourceApp is an opaque source-application identifier (optional)
	SourceApp string

	// Timestamp is the capture time, shared by split and child entries
	Timestamp time.Time

	// Binary marks an image payload: classification is bypassed entirely
	Binary bool

	// Screenshot refines Binary for screen captures
	Screenshot bool
}

// Options carries host policy and injected dependencies.
type Options struct {
	// ExtractContent enables metadata extraction across all families and
	// the materialization of child records
	ExtractContent bool

	// Now is the clock used for JWT expiry checks; defaults to time.Now
	Now func() time.Time

	// Stat overrides the file-path existence check; defaults to a
	// timeout-guarded os.Stat
	Stat func(path string) bool

	// OnDetectorFault, when set, is told about a recovered detector panic.
	// The faulting family contributes nothing; classification continues.
	OnDetectorFault func(family clip.ContentType, cause any)
}

// Output is the engine's result for one capture. Exactly one of
// SplitEntries and ExtractedItems may be non-empty, never both.
type Output struct {
	// Type is the primary content type
	Type clip.ContentType

	// Confidence is the confidence of the primary type, in [0,1]
	Confidence float64

	// Metadata is the serialized extraction document (may be empty)
	Metadata string

	// Decoded is the encoding resolver's side artifact; Decoded.Text is
	// the classification subject, never the stored content
	Decoded DecodeResult

	// SplitEntries replace the single record for env-var blocks
	SplitEntries []clip.Entry

	// ExtractedItems are child records referencing EntryID as their parent
	ExtractedItems []clip.Entry
}

// Classify runs the full pipeline on one captured item: encoding
// resolution, the detector cascade, primary-type selection, and metadata
// assembly. It always returns a result; there are no fatal errors.
func Classify(input Input, opts Options) Output {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Stat == nil {
		opts.Stat = statWithTimeout(defaultStatTimeout)
	}

	if input.Binary {
		t := clip.TypeImage
		if input.Screenshot {
			t = clip.TypeScreenshot
		}
		return Output{Type: t, Confidence: 1.0}
	}

	if strings.TrimSpace(input.Content) == "" {
		return Output{Type: clip.TypeUnknown}
	}

	decoded := ResolveEncodings(input.Content)
	subject := decoded.Text

	// Env vars run first: a block detection terminates in split mode
	// before any other family scans the input.
	envDetections := runGuarded(clip.TypeEnvVar, opts, func() []Detection {
		return detectEnvVars(subject)
	})
	if block, ok := clearedBlock(envDetections); ok {
		return splitOutput(input, decoded, block)
	}

	byFamily := runDetectors(subject, envDetections, opts)

	primary, confidence := selectPrimary(byFamily)

	doc := assembleDocument(byFamily, primary, opts.ExtractContent)
	raw, err := metadata.Serialize(doc)
	if err != nil {
		// Serialization failure degrades to an empty document; the
		// classification itself stands.
		raw = ""
	}

	out := Output{
		Type:       primary,
		Confidence: confidence,
		Metadata:   raw,
		Decoded:    decoded,
	}
	if opts.ExtractContent {
		out.ExtractedItems = extractChildren(input, byFamily, primary)
	}
	return out
}

// runDetectors runs every remaining family, concurrently where possible.
// JWT runs first because its matched spans are masked out of the text the
// API-key scanner sees. Results land in per-family slots so the merge is
// deterministic regardless of completion order.
func runDetectors(subject string, envDetections []Detection, opts Options) map[clip.ContentType][]Detection {
	jwtDetections := runGuarded(clip.TypeJWT, opts, func() []Detection {
		return detectJWTs(subject, opts.Now())
	})

	var jwtSpans []span
	for _, d := range jwtDetections {
		jwtSpans = append(jwtSpans, span{d.Start, d.End})
	}
	keySubject := maskSpans(subject, jwtSpans)

	tasks := []struct {
		family clip.ContentType
		run    func() []Detection
	}{
		{clip.TypeEmail, func() []Detection { return detectEmails(subject) }},
		{clip.TypeURL, func() []Detection { return detectURLs(subject) }},
		{clip.TypePhoneNumber, func() []Detection { return detectPhoneNumbers(subject) }},
		{clip.TypeIPAddress, func() []Detection { return detectIPAddresses(subject) }},
		{clip.TypeUUID, func() []Detection { return detectUUIDs(subject) }},
		{clip.TypeHash, func() []Detection { return detectHashes(subject) }},
		{clip.TypeAPIKey, func() []Detection { return detectAPIKeys(keySubject) }},
		{clip.TypeFilePath, func() []Detection { return detectFilePaths(subject, opts.Stat) }},
		{clip.TypeShellCommand, func() []Detection { return detectShellCommands(subject) }},
		{clip.TypeCode, func() []Detection { return detectCode(subject) }},
		{clip.TypeProse, func() []Detection { return detectProse(subject) }},
	}

	results := make([][]Detection, len(tasks))
	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = runGuarded(task.family, opts, task.run)
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors; panics are recovered inside

	byFamily := make(map[clip.ContentType][]Detection, len(tasks)+2)
	for _, d := range jwtDetections {
		byFamily[clip.TypeJWT] = append(byFamily[clip.TypeJWT], d)
	}
	for _, d := range envDetections {
		byFamily[d.Type] = append(byFamily[d.Type], d)
	}
	for i, task := range tasks {
		if len(results[i]) > 0 {
			byFamily[task.family] = results[i]
		}
	}
	return byFamily
}

// runGuarded isolates one family: a panic inside a detector is recovered,
// reported to the host, and contributes nothing.
func runGuarded(family clip.ContentType, opts Options, run func() []Detection) (detections []Detection) {
	defer func() {
		if cause := recover(); cause != nil {
			detections = nil
			if opts.OnDetectorFault != nil {
				opts.OnDetectorFault(family, cause)
			}
		}
	}()
	return run()
}

// selectPrimary walks the priority cascade and picks the first family with
// a detection clearing its threshold. Falls back to prose (already in the
// cascade) and finally plain text.
func selectPrimary(byFamily map[clip.ContentType][]Detection) (clip.ContentType, float64) {
	for _, family := range priorityOrder {
		best := 0.0
		for _, d := range byFamily[family] {
			if d.Confidence > best {
				best = d.Confidence
			}
		}
		if best >= minConfidence[family] {
			return family, best
		}
	}
	return clip.TypeText, textFallbackConfidence
}

// clearedBlock returns the env-block detection if one cleared its threshold.
func clearedBlock(detections []Detection) (Detection, bool) {
	for _, d := range detections {
		if d.Type == clip.TypeEnvVarBlock && d.Confidence >= minConfidence[clip.TypeEnvVarBlock] {
			return d, true
		}
	}
	return Detection{}, false
}

// splitOutput terminates classification in split mode: every assignment in
// the block becomes its own independent envVar record sharing the capture's
// timestamp and source attribution. No parent/child linkage is created.
func splitOutput(input Input, decoded DecodeResult, block Detection) Output {
	env, _ := block.Payload.(metadata.Env)

	raw, err := metadata.Serialize(&metadata.Document{Env: &env})
	if err != nil {
		raw = ""
	}

	entries := make([]clip.Entry, 0, len(env.Vars))
	for _, v := range env.Vars {
		single := metadata.Env{IsBlock: false, Vars: []metadata.EnvVar{v}}
		entryRaw, err := metadata.Serialize(&metadata.Document{Env: &single})
		if err != nil {
			entryRaw = ""
		}
		entries = append(entries, clip.Entry{
			Content:    v.Key + "=" + v.Value,
			Type:       clip.TypeEnvVar,
			Confidence: 1.0,
			SourceApp:  input.SourceApp,
			Metadata:   entryRaw,
			CreatedAt:  input.Timestamp.Unix(),
		})
	}

	return Output{
		Type:         clip.TypeEnvVarBlock,
		Confidence:   block.Confidence,
		Metadata:     raw,
		Decoded:      decoded,
		SplitEntries: entries,
	}
}

// assembleDocument builds the metadata document from the merged detections.
// With extraction disabled only the primary family's own findings populate
// it; with extraction enabled every family contributes, in detection order.
func assembleDocument(byFamily map[clip.ContentType][]Detection, primary clip.ContentType, extract bool) *metadata.Document {
	doc := &metadata.Document{}
	for family, detections := range byFamily {
		if !extract && family != primary {
			continue
		}
		for _, d := range detections {
			addToDocument(doc, d)
		}
	}
	return doc
}

// addToDocument appends one detection's payload to its family list.
func addToDocument(doc *metadata.Document, d Detection) {
	switch payload := d.Payload.(type) {
	case metadata.Email:
		doc.Emails = append(doc.Emails, payload)
	case metadata.URL:
		doc.URLs = append(doc.URLs, payload)
	case metadata.PhoneNumber:
		doc.PhoneNumbers = append(doc.PhoneNumbers, payload)
	case metadata.IPAddress:
		doc.IPAddresses = append(doc.IPAddresses, payload)
	case metadata.UUID:
		doc.UUIDs = append(doc.UUIDs, payload)
	case metadata.Hash:
		doc.Hashes = append(doc.Hashes, payload)
	case metadata.APIKey:
		doc.APIKeys = append(doc.APIKeys, payload)
	case metadata.JWT:
		doc.JWTs = append(doc.JWTs, payload)
	case metadata.Env:
		merged := payload
		if doc.Env != nil {
			merged.Vars = append(doc.Env.Vars, merged.Vars...)
			merged.IsBlock = doc.Env.IsBlock || merged.IsBlock
		}
		doc.Env = &merged
	case metadata.FilePath:
		doc.FilePaths = append(doc.FilePaths, payload)
	case metadata.ShellCommand:
		doc.ShellCommands = append(doc.ShellCommands, payload)
	case metadata.CodeHint:
		doc.Code = append(doc.Code, payload)
	}
}

// extractChildren materializes child records for every concrete finding
// outside the primary family, bounded by maxExtractedItems. Families are
// visited in priority order so the cap is deterministic.
func extractChildren(input Input, byFamily map[clip.ContentType][]Detection, primary clip.ContentType) []clip.Entry {
	var children []clip.Entry
	parentID := input.EntryID

	add := func(e clip.Entry) bool {
		children = append(children, e)
		return len(children) < maxExtractedItems
	}

	for _, family := range priorityOrder {
		if family == primary || !childFamilies[family] {
			continue
		}
		for _, d := range byFamily[family] {
			// A below-threshold block never splits; its assignments
			// surface as individual envVar children instead.
			if family == clip.TypeEnvVarBlock || family == clip.TypeEnvVar {
				for _, e := range envVarChildren(input, d, parentID) {
					if !add(e) {
						return children
					}
				}
				continue
			}

			child := clip.Entry{
				Content:    d.Value,
				Type:       d.Type,
				Confidence: d.Confidence,
				SourceApp:  input.SourceApp,
				CreatedAt:  input.Timestamp.Unix(),
			}
			if parentID != "" {
				id := parentID
				child.ParentEntryID = &id
			}
			if doc := childDocument(d); doc != nil {
				if raw, err := metadata.Serialize(doc); err == nil {
					child.Metadata = raw
				}
			}
			if !add(child) {
				return children
			}
		}
	}
	return children
}

// childDocument wraps a single detection's payload in its own document.
func childDocument(d Detection) *metadata.Document {
	doc := &metadata.Document{}
	addToDocument(doc, d)
	if doc.IsEmpty() {
		return nil
	}
	return doc
}

// envVarChildren expands env assignments found inside non-env content.
func envVarChildren(input Input, d Detection, parentID string) []clip.Entry {
	env, ok := d.Payload.(metadata.Env)
	if !ok {
		return nil
	}
	entries := make([]clip.Entry, 0, len(env.Vars))
	for _, v := range env.Vars {
		entry := clip.Entry{
			Content:    fmt.Sprintf("%s=%s", v.Key, v.Value),
			Type:       clip.TypeEnvVar,
			Confidence: d.Confidence,
			SourceApp:  input.SourceApp,
			CreatedAt:  input.Timestamp.Unix(),
		}
		if parentID != "" {
			id := parentID
			entry.ParentEntryID = &id
		}
		entries = append(entries, entry)
	}
	return entries
}
