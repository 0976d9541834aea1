package ops

import (
	"testing"

	"github.com/crmitchelmore/pasta/internal/errors"
)

func TestDelete(t *testing.T) {
	database, cfg := setupTest(t)
	stored := capture(t, database, cfg, "https://example.com and dev@example.com")

	if err := Delete(database, stored.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := Fetch(database, FetchInput{ID: stored.ID}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("entry still fetchable after delete: %v", err)
	}

	// Children are independent records and survive their parent.
	for _, childID := range stored.ChildIDs {
		if _, err := Fetch(database, FetchInput{ID: childID}); err != nil {
			t.Errorf("child %s gone after parent delete: %v", childID, err)
		}
	}
}

func TestDelete_Validation(t *testing.T) {
	database, _ := setupTest(t)

	if err := Delete(database, "  "); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank id: err = %v, want INVALID_REQUEST", err)
	}
	if err := Delete(database, "01MISSING"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing id: err = %v, want NOT_FOUND", err)
	}
}

func TestPurge(t *testing.T) {
	database, cfg := setupTest(t)

	// Captured now, so nothing qualifies against the cutoff.
	if _, err := Capture(database, cfg, CaptureInput{Content: "fresh note"}); err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	out, err := Purge(database, PurgeInput{OlderThanDays: 30})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Removed != 0 {
		t.Errorf("Removed = %d, want 0", out.Removed)
	}

	list, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if list.Pagination.Total != 1 {
		t.Errorf("Total = %d, want 1", list.Pagination.Total)
	}
}

func TestPurge_RemovesOldEntries(t *testing.T) {
	database, cfg := setupTest(t)

	// testTime is well in the past relative to the purge cutoff.
	capture(t, database, cfg, "old note")

	out, err := Purge(database, PurgeInput{OlderThanDays: 1})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Removed != 1 {
		t.Errorf("Removed = %d, want 1", out.Removed)
	}
}

func TestPurge_Validation(t *testing.T) {
	database, _ := setupTest(t)

	for _, days := range []int{0, -3} {
		if _, err := Purge(database, PurgeInput{OlderThanDays: days}); !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("OlderThanDays=%d: err = %v, want INVALID_REQUEST", days, err)
		}
	}
}
