package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChamsBouzaiene/harvest/internal/session"
)

var base = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func sampleRecords() []session.RecommendationRecord {
	return []session.RecommendationRecord{
		{ID: "r1", Kind: session.KindCropPlanner, Title: "Crop Recommendations for March",
			Body: "Plant drought tolerant sorghum and cowpeas. Mulch heavily.", CreatedAt: base},
		{ID: "r2", Kind: session.KindSoilOptimizer, Title: "Soil Health Analysis",
			Body: "Add lime to raise the pH. Grow cover crops such as clover.", CreatedAt: base.Add(time.Hour)},
		{ID: "r3", Kind: session.KindPestIdentifier, Title: "Pest Identification for Tomatoes",
			Body: "Likely tomato hornworms. Hand-pick caterpillars and encourage parasitic wasps.", CreatedAt: base.Add(2 * time.Hour)},
	}
}

func newIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func ids(hits []Hit) []string {
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.ID)
	}
	return out
}

func TestSearch_MatchesTitleAndBody(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Sync(sampleRecords()))
	assert.Equal(t, 3, idx.Len())

	hits, err := idx.Search("lime clover", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, ids(hits))

	hits, err = idx.Search("soil", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, ids(hits), "titles are searched")

	hits, err = idx.Search("tomato", "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r3"}, ids(hits), "stemming matches tomatoes")

	hits, err = idx.Search("blockchain", "", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_KindFilter(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Sync(sampleRecords()))

	hits, err := idx.Search("crops", session.KindCropPlanner, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, ids(hits))
}

func TestSearch_EmptyQuery(t *testing.T) {
	idx := newIndex(t)
	require.NoError(t, idx.Sync(sampleRecords()))

	hits, err := idx.Search("   ", "", 0)
	require.NoError(t, err)
	assert.Nil(t, hits)
}

func TestSync_TracksDeletes(t *testing.T) {
	idx := newIndex(t)
	recs := sampleRecords()
	require.NoError(t, idx.Sync(recs))

	require.NoError(t, idx.Sync(recs[:2]))
	assert.Equal(t, 2, idx.Len())

	hits, err := idx.Search("hornworms", "", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)

	require.NoError(t, idx.Sync(nil))
	assert.Equal(t, 0, idx.Len())
}

func TestRemove_UnknownIsNoop(t *testing.T) {
	idx := newIndex(t)
	assert.NoError(t, idx.Remove("nope"))
}
