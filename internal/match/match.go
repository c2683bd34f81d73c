// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match finds, for one citing paper, every corpus paper whose title
// occurs in the citing paper's bibliography text.
package match

import (
	"context"
	"fmt"

	"github.com/pdiddy/citegraph/internal/corpus"
	"github.com/pdiddy/citegraph/internal/fuzzy"
	"github.com/pdiddy/citegraph/pkg/types"
)

// cancelCheckEvery is how many candidates are scored between context checks.
const cancelCheckEvery = 256

type candidate struct {
	id      types.PaperID
	key     int
	hasKey  bool
	pattern *fuzzy.Pattern
}

// Matcher scores candidate titles against bibliography blobs. It is built
// once per run and is safe for concurrent use: all of its state is
// read-only after New returns.
type Matcher struct {
	threshold  float64
	lookahead  int
	candidates []candidate
}

// New compiles the candidate titles for matching under cfg.
func New(cfg types.MatchConfig, titles []types.CandidateTitle) *Matcher {
	m := &Matcher{
		threshold:  cfg.Threshold,
		lookahead:  cfg.YearLookahead,
		candidates: make([]candidate, 0, len(titles)),
	}
	for _, t := range titles {
		if t.Title == "" {
			continue
		}
		key, ok := corpus.PublicationKey(t.ID)
		m.candidates = append(m.candidates, candidate{
			id:      t.ID,
			key:     key,
			hasKey:  ok,
			pattern: fuzzy.Compile(t.Title),
		})
	}
	return m
}

// Candidates returns the number of titles the matcher scores.
func (m *Matcher) Candidates() int { return len(m.candidates) }

// Plausible reports whether citing could cite cited in time: the cited
// paper's publication key may exceed the citing paper's by at most
// lookahead. Ids without a parseable key are always plausible.
func Plausible(citing, cited types.PaperID, lookahead int) bool {
	citingKey, citingOK := corpus.PublicationKey(citing)
	citedKey, citedOK := corpus.PublicationKey(cited)
	return plausibleKeys(citingKey, citingOK, citedKey, citedOK, lookahead)
}

func plausibleKeys(citing int, citingOK bool, cited int, citedOK bool, lookahead int) bool {
	if !citingOK || !citedOK {
		return true
	}
	return cited <= citing+lookahead
}

// Match returns a result for every candidate other than blob.ID whose title
// scores strictly above the threshold against blob.Text, in candidate
// order. It stops early with the context's error if ctx is done.
func (m *Matcher) Match(ctx context.Context, blob types.Blob) ([]types.MatchResult, error) {
	if blob.Text == "" {
		return nil, nil
	}
	citingKey, citingHasKey := corpus.PublicationKey(blob.ID)
	hay := fuzzy.NewHaystack(blob.Text)

	var results []types.MatchResult
	for i, c := range m.candidates {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("matching %s: %w", blob.ID, err)
			}
		}
		if c.id == blob.ID {
			continue
		}
		if !plausibleKeys(citingKey, citingHasKey, c.key, c.hasKey, m.lookahead) {
			continue
		}
		s := c.pattern.PartialRatio(hay, m.threshold)
		if s > m.threshold {
			results = append(results, types.MatchResult{
				CitingID: blob.ID,
				CitedID:  c.id,
				Title:    c.pattern.Text(),
				Score:    s,
			})
		}
	}
	return results, nil
}
