package ops

import (
	"strings"
	"testing"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/errors"
)

func TestCapture_URLWithExtractedChild(t *testing.T) {
	database, cfg := setupTest(t)

	out, err := Capture(database, cfg, CaptureInput{
		Content:   "See https://github.com/octo/repo and mail dev@example.com",
		SourceApp: "com.apple.Terminal",
		Timestamp: testTime,
	})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	if out.ID == "" {
		t.Fatal("primary ID is empty")
	}
	if out.Type != clip.TypeURL {
		t.Errorf("Type = %q, want url", out.Type)
	}
	if out.Metadata == "" {
		t.Error("Metadata is empty")
	}
	if len(out.ChildIDs) != 1 {
		t.Fatalf("ChildIDs = %v, want one email child", out.ChildIDs)
	}
	if out.SplitIDs != nil {
		t.Errorf("SplitIDs = %v, want none", out.SplitIDs)
	}

	fetched, err := Fetch(database, FetchInput{ID: out.ID, IncludeChildren: true})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Entry.SourceApp != "com.apple.Terminal" {
		t.Errorf("SourceApp = %q", fetched.Entry.SourceApp)
	}
	if fetched.Entry.CreatedAt != testTime.Unix() {
		t.Errorf("CreatedAt = %d, want %d", fetched.Entry.CreatedAt, testTime.Unix())
	}
	if len(fetched.Children) != 1 {
		t.Fatalf("fetched children = %d, want 1", len(fetched.Children))
	}
	child := fetched.Children[0]
	if child.Type != clip.TypeEmail || child.Content != "dev@example.com" {
		t.Errorf("child = %+v", child)
	}
	if child.ParentEntryID == nil || *child.ParentEntryID != out.ID {
		t.Errorf("child ParentEntryID = %v, want %q", child.ParentEntryID, out.ID)
	}
}

func TestCapture_EnvBlockSplits(t *testing.T) {
	database, cfg := setupTest(t)

	out, err := Capture(database, cfg, CaptureInput{
		Content:   "DB_HOST=localhost\nDB_PORT=5432",
		Timestamp: testTime,
	})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	if out.ID != "" {
		t.Errorf("ID = %q, want empty for a split capture", out.ID)
	}
	if out.Type != clip.TypeEnvVarBlock {
		t.Errorf("Type = %q, want envVarBlock", out.Type)
	}
	if len(out.SplitIDs) != 2 {
		t.Fatalf("SplitIDs = %v, want 2", out.SplitIDs)
	}
	if out.ChildIDs != nil {
		t.Errorf("ChildIDs = %v, want none", out.ChildIDs)
	}

	// Each split stands alone as an envVar entry; the block itself is not stored.
	list, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list.Pagination.Total != 2 {
		t.Fatalf("stored entries = %d, want 2", list.Pagination.Total)
	}
	for _, item := range list.Items {
		if item.Type != clip.TypeEnvVar {
			t.Errorf("split type = %q, want envVar", item.Type)
		}
		if item.ParentEntryID != nil {
			t.Errorf("split has ParentEntryID %v", item.ParentEntryID)
		}
	}
}

func TestCapture_SkipAPIKeysPolicy(t *testing.T) {
	database, cfg := setupTest(t)
	cfg.SkipAPIKeys = true

	token := "ghp_" + "A1b2C3d4E5f6G7h8I9j0K1l2M3n4O5p6Q7r8"
	out, err := Capture(database, cfg, CaptureInput{Content: token, Timestamp: testTime})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	// Classified but not stored.
	if !out.Skipped {
		t.Error("Skipped = false, want true")
	}
	if out.Type != clip.TypeAPIKey {
		t.Errorf("Type = %q, want apiKey", out.Type)
	}
	if out.ID != "" {
		t.Errorf("ID = %q, want empty", out.ID)
	}

	list, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list.Pagination.Total != 0 {
		t.Errorf("stored entries = %d, want 0", list.Pagination.Total)
	}
}

func TestCapture_PlainTextFallback(t *testing.T) {
	database, cfg := setupTest(t)

	out, err := Capture(database, cfg, CaptureInput{Content: "meeting notes v2", Timestamp: testTime})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if out.Type != clip.TypeText || out.Confidence != 0.5 {
		t.Errorf("got %q/%.2f, want text/0.50", out.Type, out.Confidence)
	}
	if len(out.ChildIDs) != 0 {
		t.Errorf("ChildIDs = %v, want none", out.ChildIDs)
	}
}

func TestCapture_ExtractDisabled(t *testing.T) {
	database, cfg := setupTest(t)
	cfg.ExtractContent = false

	out, err := Capture(database, cfg, CaptureInput{
		Content:   "See https://example.com and mail dev@example.com",
		Timestamp: testTime,
	})
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if out.Type != clip.TypeURL {
		t.Errorf("Type = %q, want url", out.Type)
	}
	if out.ChildIDs != nil {
		t.Errorf("ChildIDs = %v, want none with extraction off", out.ChildIDs)
	}
}

func TestCapture_Validation(t *testing.T) {
	database, cfg := setupTest(t)

	_, err := Capture(database, cfg, CaptureInput{Content: ""})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty content: err = %v, want INVALID_REQUEST", err)
	}

	cfg.MaxContentChars = 10
	_, err = Capture(database, cfg, CaptureInput{Content: strings.Repeat("a", 11)})
	if !errors.Is(err, errors.ErrEntryTooLarge) {
		t.Errorf("oversized content: err = %v, want ENTRY_TOO_LARGE", err)
	}
}

func TestCaptureBinary(t *testing.T) {
	database, cfg := setupTest(t)

	out, err := CaptureBinary(database, cfg, "com.apple.screencapture", true, testTime)
	if err != nil {
		t.Fatalf("CaptureBinary failed: %v", err)
	}
	if out.Type != clip.TypeScreenshot || out.Confidence != 1.0 {
		t.Errorf("got %q/%.2f, want screenshot/1.00", out.Type, out.Confidence)
	}

	fetched, err := Fetch(database, FetchInput{ID: out.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Entry.SourceApp != "com.apple.screencapture" {
		t.Errorf("SourceApp = %q", fetched.Entry.SourceApp)
	}

	out, err = CaptureBinary(database, cfg, "", false, testTime)
	if err != nil {
		t.Fatalf("CaptureBinary failed: %v", err)
	}
	if out.Type != clip.TypeImage {
		t.Errorf("Type = %q, want image", out.Type)
	}
}
