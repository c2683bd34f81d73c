// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegraph/pkg/types"
)

func defaultConfig() types.MatchConfig {
	return types.MatchConfig{Threshold: types.DefaultThreshold, YearLookahead: types.DefaultYearLookahead}
}

func citedIDs(results []types.MatchResult) []string {
	var ids []string
	for _, r := range results {
		ids = append(ids, r.CitedID)
	}
	return ids
}

var plausibleCases = []struct {
	name   string
	citing string
	cited  string
	want   bool
}{
	{"older cited", "2001.00010", "1706.00030", true},
	{"same month", "2001.00010", "2001.00011", true},
	{"within lookahead", "2001.00010", "2004.00001", true},
	{"beyond lookahead", "2001.00010", "2005.00001", false},
	{"cited years later", "1706.00031", "2001.00010", false},
	{"unparseable citing", "hep-th", "2001.00010", true},
	{"unparseable cited", "2001.00010", "old-id", true},
}

func TestPlausible(t *testing.T) {
	for _, tt := range plausibleCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Plausible(tt.citing, tt.cited, 3))
		})
	}
}

func TestMatchAppliesTemporalFilter(t *testing.T) {
	cfg := defaultConfig()
	cfg.YearLookahead = 3
	for _, tt := range plausibleCases {
		t.Run(tt.name, func(t *testing.T) {
			m := New(cfg, []types.CandidateTitle{{ID: tt.cited, Title: "attention is all you need"}})
			blob := types.Blob{ID: tt.citing, Text: "attention is all you need"}

			results, err := m.Match(context.Background(), blob)
			require.NoError(t, err)
			assert.Equal(t, tt.want, len(results) == 1)
		})
	}
}

func TestMatchFindsTitleInBibliography(t *testing.T) {
	m := New(defaultConfig(), []types.CandidateTitle{
		{ID: "1706.00030", Title: "attention is all you need"},
		{ID: "1512.03385", Title: "deep residual learning for image recognition"},
		{ID: "2001.00010", Title: "a survey of efficient transformers"},
	})

	blob := types.Blob{
		ID:   "2001.00010",
		Text: " a vaswani n shazeer\n attention is all you need\n in neurips 2017\n",
	}
	results, err := m.Match(context.Background(), blob)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2001.00010", results[0].CitingID)
	assert.Equal(t, "1706.00030", results[0].CitedID)
	assert.Equal(t, "attention is all you need", results[0].Title)
	assert.InDelta(t, 100, results[0].Score, 1e-9)
}

func TestMatchNeverCitesTheFuture(t *testing.T) {
	m := New(defaultConfig(), []types.CandidateTitle{
		{ID: "2001.00010", Title: "reformer the efficient transformer"},
	})
	blob := types.Blob{ID: "1706.00031", Text: "reformer the efficient transformer"}

	results, err := m.Match(context.Background(), blob)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchSkipsSelf(t *testing.T) {
	m := New(defaultConfig(), []types.CandidateTitle{
		{ID: "2001.00010", Title: "reformer the efficient transformer"},
	})
	blob := types.Blob{ID: "2001.00010", Text: "reformer the efficient transformer"}

	results, err := m.Match(context.Background(), blob)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchThresholdIsStrict(t *testing.T) {
	// "attention is all you ned" against the 25-byte title scores 96.
	titles := []types.CandidateTitle{{ID: "1706.00030", Title: "attention is all you need"}}
	blob := types.Blob{ID: "2001.00010", Text: "x attention is all you ned y"}

	results, err := New(types.MatchConfig{Threshold: 95, YearLookahead: 3}, titles).Match(context.Background(), blob)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	results, err = New(types.MatchConfig{Threshold: 96, YearLookahead: 3}, titles).Match(context.Background(), blob)
	require.NoError(t, err)
	assert.Empty(t, results, "a score equal to the threshold is not a match")
}

func TestMatchMultipleCitations(t *testing.T) {
	m := New(defaultConfig(), []types.CandidateTitle{
		{ID: "1409.00473", Title: "neural machine translation by jointly learning to align and translate"},
		{ID: "1512.03385", Title: "deep residual learning for image recognition"},
		{ID: "1706.00030", Title: "attention is all you need"},
		{ID: "1810.04805", Title: "pretraining of deep bidirectional transformers for language understanding"},
	})
	blob := types.Blob{
		ID: "1901.00001",
		Text: " bahdanau neural machine translation by jointly learning to align and translate iclr\n" +
			" he deep residual learning for image recognition cvpr\n" +
			" devlin bert pretraining of deep bidirectional transformers for language understanding\n",
	}

	results, err := m.Match(context.Background(), blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"1409.00473", "1512.03385", "1810.04805"}, citedIDs(results))
}

func TestMatchEmptyBlob(t *testing.T) {
	m := New(defaultConfig(), []types.CandidateTitle{{ID: "1706.00030", Title: "attention is all you need"}})
	results, err := m.Match(context.Background(), types.Blob{ID: "2001.00010"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNewSkipsEmptyTitles(t *testing.T) {
	m := New(defaultConfig(), []types.CandidateTitle{
		{ID: "1706.00030", Title: ""},
		{ID: "1706.00031", Title: "graph attention networks"},
	})
	assert.Equal(t, 1, m.Candidates())
}

func TestMatchCancelled(t *testing.T) {
	m := New(defaultConfig(), []types.CandidateTitle{{ID: "1706.00030", Title: "attention is all you need"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Match(ctx, types.Blob{ID: "2001.00010", Text: "attention is all you need"})
	assert.ErrorIs(t, err, context.Canceled)
}
