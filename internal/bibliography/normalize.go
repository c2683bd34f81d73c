// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibliography turns the raw reference files of each paper into a
// single normalized text blob and caches it inside the paper directory, so
// reruns only rebuild papers that have no cache yet.
package bibliography

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/citegraph/internal/corpus"
	"github.com/pdiddy/citegraph/internal/logging"
	"github.com/pdiddy/citegraph/internal/textnorm"
	"github.com/pdiddy/citegraph/pkg/types"
)

// CacheFile is the name of the cached plain-text bibliography.
const CacheFile = "super_simple_refs.txt"

// sourceExts lists the bibliography-bearing file extensions.
var sourceExts = map[string]bool{
	".bbl": true,
	".bib": true,
}

// Source records whether a blob came from the cache or was rebuilt.
type Source int

const (
	SourceCache Source = iota
	SourceBuilt
)

// Normalizer builds bibliography blobs for paper directories.
type Normalizer struct {
	log logging.Logger
}

// NewNormalizer returns a Normalizer that reports through log.
func NewNormalizer(log logging.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize returns the bibliography blob of the paper in dir. An existing
// cache file is returned as-is. Otherwise every .bbl and .bib file is read,
// normalized, and concatenated in name order, and the result is written to
// the cache. Unreadable files contribute nothing; a failed cache write is
// logged and the blob is still returned.
func (n *Normalizer) Normalize(dir string) (string, Source) {
	cachePath := filepath.Join(dir, CacheFile)
	if text, err := textnorm.ReadFile(cachePath); err == nil {
		return text, SourceCache
	} else if !os.IsNotExist(err) {
		n.log.Warn("cache unreadable, rebuilding", "path", cachePath, "error", err)
	}

	var b strings.Builder
	for _, path := range sourceFiles(dir, n.log) {
		raw, err := textnorm.ReadFile(path)
		if err != nil {
			n.log.Warn("skipping unreadable bibliography file", "path", path, "error", err)
			continue
		}
		b.WriteString(textnorm.Bibliography(raw))
	}
	text := b.String()

	// Truncate, never append: the cache holds exactly one copy of the blob.
	if err := os.WriteFile(cachePath, []byte(text), 0o644); err != nil {
		n.log.Warn("writing bibliography cache failed", "path", cachePath, "error", err)
	}
	return text, SourceBuilt
}

func sourceFiles(dir string, log logging.Logger) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("paper directory unreadable", "path", dir, "error", err)
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !sourceExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths
}

// NormalizeSummary holds counts from a batch normalization run.
type NormalizeSummary struct {
	Cached int
	Built  int
	Empty  int
}

// Total returns the number of papers processed.
func (s NormalizeSummary) Total() int {
	return s.Cached + s.Built
}

// NormalizeAll normalizes every paper directory under root, printing one
// status line per paper to w. Blobs are returned in descending id order.
// Only an unreadable root or a cancelled context is an error.
func (n *Normalizer) NormalizeAll(ctx context.Context, root string, w io.Writer) ([]types.Blob, NormalizeSummary, error) {
	names, err := corpus.PaperDirs(root)
	if err != nil {
		return nil, NormalizeSummary{}, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var summary NormalizeSummary
	blobs := make([]types.Blob, 0, len(names))
	for _, id := range names {
		select {
		case <-ctx.Done():
			return blobs, summary, fmt.Errorf("normalizing bibliographies: %w", ctx.Err())
		default:
		}

		text, src := n.Normalize(filepath.Join(root, id))
		switch src {
		case SourceCache:
			summary.Cached++
			fmt.Fprintf(w, "cached  %s\n", id)
		default:
			summary.Built++
			fmt.Fprintf(w, "built   %s (%d bytes)\n", id, len(text))
		}
		if text == "" {
			summary.Empty++
		}
		blobs = append(blobs, types.Blob{ID: id, Text: text})
	}

	fmt.Fprintf(w, "\nbibliographies: %d cached, %d built, %d empty (total: %d)\n",
		summary.Cached, summary.Built, summary.Empty, summary.Total())
	return blobs, summary, nil
}
