package ops

import (
	"database/sql"
	"testing"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/config"
	"github.com/crmitchelmore/pasta/internal/errors"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

func capture(t *testing.T, database *sql.DB, cfg *config.Config, content string) *CaptureOutput {
	t.Helper()
	out, err := Capture(database, cfg, CaptureInput{Content: content, Timestamp: testTime})
	if err != nil {
		t.Fatalf("Capture(%q) failed: %v", content, err)
	}
	return out
}

func TestList(t *testing.T) {
	database, cfg := setupTest(t)

	capture(t, database, cfg, "plain note one")
	capture(t, database, cfg, "https://example.com/docs")
	withChild := capture(t, database, cfg, "https://example.com and dev@example.com")

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	// Children are excluded by default.
	if out.Pagination.Total != 3 {
		t.Errorf("Total = %d, want 3", out.Pagination.Total)
	}
	if out.Pagination.Limit != DefaultListLimit {
		t.Errorf("Limit = %d, want default %d", out.Pagination.Limit, DefaultListLimit)
	}

	out, err = List(database, ListInput{IncludeChildren: true})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if want := 3 + len(withChild.ChildIDs); out.Pagination.Total != want {
		t.Errorf("Total with children = %d, want %d", out.Pagination.Total, want)
	}

	out, err = List(database, ListInput{Type: "url"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Total != 2 {
		t.Errorf("url Total = %d, want 2", out.Pagination.Total)
	}
	for _, item := range out.Items {
		if item.Type != clip.TypeURL {
			t.Errorf("filtered item type = %q", item.Type)
		}
	}

	out, err = List(database, ListInput{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 2 || !out.Pagination.HasMore {
		t.Errorf("page 1: len = %d, HasMore = %v", len(out.Items), out.Pagination.HasMore)
	}
	out, err = List(database, ListInput{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 1 || out.Pagination.HasMore {
		t.Errorf("page 2: len = %d, HasMore = %v", len(out.Items), out.Pagination.HasMore)
	}
}

func TestList_UnknownType(t *testing.T) {
	database, _ := setupTest(t)
	if _, err := List(database, ListInput{Type: "carrier-pigeon"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestList_ClampsLimit(t *testing.T) {
	database, _ := setupTest(t)
	out, err := List(database, ListInput{Limit: 100000})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Limit != MaxListLimit {
		t.Errorf("Limit = %d, want clamped to %d", out.Pagination.Limit, MaxListLimit)
	}
}

func TestFetch(t *testing.T) {
	database, cfg := setupTest(t)
	stored := capture(t, database, cfg, "https://example.com and dev@example.com")

	out, err := Fetch(database, FetchInput{ID: stored.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if out.Entry.ID != stored.ID || out.Children != nil {
		t.Errorf("Fetch without children = %+v", out)
	}

	out, err = Fetch(database, FetchInput{ID: "  " + stored.ID + "  ", IncludeChildren: true})
	if err != nil {
		t.Fatalf("Fetch with padded id failed: %v", err)
	}
	if len(out.Children) != len(stored.ChildIDs) {
		t.Errorf("children = %d, want %d", len(out.Children), len(stored.ChildIDs))
	}
}

func TestFetch_Errors(t *testing.T) {
	database, _ := setupTest(t)

	if _, err := Fetch(database, FetchInput{ID: "   "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank id: err = %v, want INVALID_REQUEST", err)
	}
	if _, err := Fetch(database, FetchInput{ID: "01MISSING"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing id: err = %v, want NOT_FOUND", err)
	}
}

func TestSearch(t *testing.T) {
	database, cfg := setupTest(t)
	codec := metadata.NewCodec(0)

	capture(t, database, cfg, "deploy checklist for the staging cluster")
	withEmail := capture(t, database, cfg, "staging contact is ops@example.com")

	out, err := Search(database, codec, SearchInput{Query: "staging"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(out.Items) != 2 {
		t.Fatalf("Items = %d, want 2", len(out.Items))
	}
	if out.Sort != "relevance" {
		t.Errorf("Sort = %q", out.Sort)
	}

	// The family filter keeps only entries whose metadata carries that family.
	out, err = Search(database, codec, SearchInput{Query: "staging", Family: "email"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(out.Items) != 1 || out.Items[0].ID != withEmail.ID {
		t.Errorf("family-filtered Items = %+v", out.Items)
	}

	out, err = Search(database, codec, SearchInput{Query: "nothing-matches-this"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(out.Items) != 0 {
		t.Errorf("Items = %+v, want empty", out.Items)
	}
}

func TestSearch_Validation(t *testing.T) {
	database, _ := setupTest(t)
	codec := metadata.NewCodec(0)

	if _, err := Search(database, codec, SearchInput{Query: "  "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank query: err = %v, want INVALID_REQUEST", err)
	}
	if _, err := Search(database, codec, SearchInput{Query: "x", Family: "bogus"}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("bad family: err = %v, want INVALID_REQUEST", err)
	}
}
