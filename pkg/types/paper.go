// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the citegraph pipeline:
// paper records, bibliography blobs, candidate titles, match results, and
// the pipeline configuration.
package types

import "sort"

// PaperID is an arXiv-style identifier such as "2001.00001". Before version
// resolution it may carry a trailing "vN" suffix.
type PaperID = string

// PaperRecord is the canonical record for one paper in the corpus.
type PaperRecord struct {
	// ID is the canonical (unversioned) identifier.
	ID PaperID `json:"-" yaml:"id"`

	// Title is the paper title with surrounding whitespace trimmed.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract with surrounding whitespace trimmed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// References holds the ids of corpus papers this paper cites.
	// It never contains ID itself.
	References map[PaperID]struct{} `json:"-" yaml:"-"`
}

// NewPaperRecord returns a record with an empty reference set.
func NewPaperRecord(id PaperID, title, abstract string) *PaperRecord {
	return &PaperRecord{
		ID:         id,
		Title:      title,
		Abstract:   abstract,
		References: make(map[PaperID]struct{}),
	}
}

// AddReference adds cited to the reference set. It reports whether the set
// changed. Self references are ignored.
func (p *PaperRecord) AddReference(cited PaperID) bool {
	if cited == p.ID {
		return false
	}
	if p.References == nil {
		p.References = make(map[PaperID]struct{})
	}
	if _, ok := p.References[cited]; ok {
		return false
	}
	p.References[cited] = struct{}{}
	return true
}

// SortedReferences returns the reference set as a sorted slice.
func (p *PaperRecord) SortedReferences() []PaperID {
	refs := make([]PaperID, 0, len(p.References))
	for id := range p.References {
		refs = append(refs, id)
	}
	sort.Strings(refs)
	return refs
}

// Corpus maps canonical ids to their records. The pipeline coordinator owns
// the single authoritative instance.
type Corpus map[PaperID]*PaperRecord

// IDs returns the corpus ids in ascending order.
func (c Corpus) IDs() []PaperID {
	ids := make([]PaperID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EdgeCount returns the total number of references across all records.
func (c Corpus) EdgeCount() int {
	n := 0
	for _, p := range c {
		n += len(p.References)
	}
	return n
}

// Blob is the normalized bibliography text of one paper: lowercase, with
// markup and punctuation stripped. Text is empty when the paper has no
// bibliography files.
type Blob struct {
	ID   PaperID
	Text string
}

// CandidateTitle is a normalized title used as a match candidate against
// every other paper's bibliography blob.
type CandidateTitle struct {
	ID    PaperID
	Title string
}

// MatchResult records that CitingID's bibliography contains Title, the
// normalized title of CitedID, with the given similarity Score in [0,100].
type MatchResult struct {
	CitingID PaperID `json:"citing_id" yaml:"citing_id"`
	CitedID  PaperID `json:"cited_id" yaml:"cited_id"`
	Title    string  `json:"title" yaml:"title"`
	Score    float64 `json:"score" yaml:"score"`
}
