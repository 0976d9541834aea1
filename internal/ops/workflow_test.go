package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/crmitchelmore/pasta/internal/clip"
	"github.com/crmitchelmore/pasta/internal/errors"
	"github.com/crmitchelmore/pasta/internal/metadata"
)

// Exercises the full lifecycle of a capture: classify, store, list, fetch,
// search, delete, purge.
func TestWorkflow_CaptureLifecycle(t *testing.T) {
	database, cfg := setupTest(t)
	codec := metadata.NewCodec(cfg.CodecCacheSize)

	// A dry run first; nothing should be stored yet.
	preview, err := Classify(cfg, ClassifyInput{
		Content:   "Release notes at https://github.com/octo/repo, questions to dev@example.com",
		Timestamp: testTime,
	})
	require.NoError(t, err)
	require.Equal(t, clip.TypeURL, preview.Type)
	require.Len(t, preview.Extracted, 1)

	list, err := List(database, ListInput{})
	require.NoError(t, err)
	require.Equal(t, 0, list.Pagination.Total)

	// Capture for real.
	captured, err := Capture(database, cfg, CaptureInput{
		Content:   "Release notes at https://github.com/octo/repo, questions to dev@example.com",
		SourceApp: "com.tinyspeck.slackmacgap",
		Timestamp: testTime,
	})
	require.NoError(t, err)
	require.NotEmpty(t, captured.ID)
	require.Equal(t, clip.TypeURL, captured.Type)
	require.Len(t, captured.ChildIDs, 1)

	// The capture and its child are visible.
	list, err = List(database, ListInput{IncludeChildren: true})
	require.NoError(t, err)
	require.Equal(t, 2, list.Pagination.Total)

	fetched, err := Fetch(database, FetchInput{ID: captured.ID, IncludeChildren: true})
	require.NoError(t, err)
	require.Equal(t, "com.tinyspeck.slackmacgap", fetched.Entry.SourceApp)
	require.Len(t, fetched.Children, 1)
	require.Equal(t, clip.TypeEmail, fetched.Children[0].Type)

	// Full-text search finds it, and the family filter narrows on metadata.
	found, err := Search(database, codec, SearchInput{Query: "release notes"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	require.Equal(t, captured.ID, found.Items[0].ID)

	found, err = Search(database, codec, SearchInput{Query: "release notes", Family: "email"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	found, err = Search(database, codec, SearchInput{Query: "release notes", Family: "uuid"})
	require.NoError(t, err)
	require.Empty(t, found.Items)

	// Delete the parent; the extracted child is untouched.
	require.NoError(t, Delete(database, captured.ID))
	_, err = Fetch(database, FetchInput{ID: captured.ID})
	require.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = Fetch(database, FetchInput{ID: captured.ChildIDs[0]})
	require.NoError(t, err)

	// Purge sweeps the remaining old child.
	purged, err := Purge(database, PurgeInput{OlderThanDays: 1})
	require.NoError(t, err)
	require.Equal(t, 1, purged.Removed)

	list, err = List(database, ListInput{IncludeChildren: true})
	require.NoError(t, err)
	require.Equal(t, 0, list.Pagination.Total)
}
