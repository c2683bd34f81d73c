// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph merges match results into the canonical record mapping and
// persists the resulting citation graph.
package graph

import (
	"errors"
	"fmt"

	"github.com/pdiddy/citegraph/pkg/types"
)

// Validation errors.
var (
	ErrSelfCitation   = errors.New("paper cites itself")
	ErrUnknownCited   = errors.New("reference to a paper outside the corpus")
	ErrMismatchedKeys = errors.New("record id differs from its key")
)

// AssembleSummary holds counts from merging match results.
type AssembleSummary struct {
	Applied    int
	Duplicates int
	Dropped    int
}

// Total returns the number of results seen.
func (s AssembleSummary) Total() int {
	return s.Applied + s.Duplicates + s.Dropped
}

// Assemble adds every match result to the references of its citing record.
// References are a set, so applying the same results twice changes nothing;
// repeats are counted as duplicates. Results naming the citing paper itself,
// or an id missing from the corpus, are dropped.
func Assemble(corpus types.Corpus, batches [][]types.MatchResult) AssembleSummary {
	var summary AssembleSummary
	for _, batch := range batches {
		for _, r := range batch {
			rec, ok := corpus[r.CitingID]
			if !ok || r.CitingID == r.CitedID {
				summary.Dropped++
				continue
			}
			if _, ok := corpus[r.CitedID]; !ok {
				summary.Dropped++
				continue
			}
			if rec.AddReference(r.CitedID) {
				summary.Applied++
			} else {
				summary.Duplicates++
			}
		}
	}
	return summary
}

// Violation describes one record that breaks a graph invariant.
type Violation struct {
	PaperID types.PaperID
	Err     error
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %v", v.PaperID, v.Err)
}

// Unwrap returns the underlying validation error.
func (v Violation) Unwrap() error { return v.Err }

// Validate checks that no record cites itself, that every reference names
// a record in the corpus, and that every record is stored under its own id.
// It returns all violations found, ordered by paper id.
func Validate(corpus types.Corpus) []Violation {
	var out []Violation
	for _, id := range corpus.IDs() {
		rec := corpus[id]
		if rec.ID != id {
			out = append(out, Violation{PaperID: id, Err: ErrMismatchedKeys})
		}
		for _, ref := range rec.SortedReferences() {
			switch {
			case ref == id:
				out = append(out, Violation{PaperID: id, Err: ErrSelfCitation})
			case corpus[ref] == nil:
				out = append(out, Violation{PaperID: id, Err: fmt.Errorf("%w: %s", ErrUnknownCited, ref)})
			}
		}
	}
	return out
}
