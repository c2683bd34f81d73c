// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the citation extraction stages in order: version
// resolution, bibliography normalization, title indexing, parallel
// matching, and graph assembly. The coordinator goroutine owns the record
// mapping; only the matching stage runs concurrently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pdiddy/citegraph/internal/bibliography"
	"github.com/pdiddy/citegraph/internal/corpus"
	"github.com/pdiddy/citegraph/internal/dataset"
	"github.com/pdiddy/citegraph/internal/dispatch"
	"github.com/pdiddy/citegraph/internal/graph"
	"github.com/pdiddy/citegraph/internal/logging"
	"github.com/pdiddy/citegraph/internal/match"
	"github.com/pdiddy/citegraph/pkg/types"
)

// ErrNotDirectory is returned when the corpus root is missing or is not a
// directory.
var ErrNotDirectory = errors.New("corpus root is not a directory")

// Result collects the output and per-stage summaries of a run. Corpus is
// nil for clean-only and preprocess-only runs.
type Result struct {
	Corpus     types.Corpus
	Resolve    corpus.ResolveSummary
	Normalize  bibliography.NormalizeSummary
	Candidates int
	Dispatch   dispatch.Summary
	Assemble   graph.AssembleSummary
}

// Run executes the pipeline on cfg.CorpusDir, stopping early according to
// cfg.Mode. Progress lines go to w. Per-paper problems are logged and
// degrade only that paper; a bad corpus root, an invalid configuration, or
// cancellation of ctx is returned as an error.
func Run(ctx context.Context, cfg types.PipelineConfig, log logging.Logger, w io.Writer) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	root := cfg.CorpusDir
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	res := &Result{}

	log.Info("resolving paper versions", "root", root)
	res.Resolve, err = corpus.Resolve(root, log)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "versions: %d papers, %d removed, %d renamed, %d failed\n",
		res.Resolve.Groups, res.Resolve.Removed, res.Resolve.Renamed, res.Resolve.Failed)
	if cfg.Mode == types.ModeCleanOnly {
		return res, nil
	}

	log.Info("normalizing bibliographies")
	blobs, normSummary, err := bibliography.NewNormalizer(log).NormalizeAll(ctx, root, w)
	res.Normalize = normSummary
	if err != nil {
		return nil, err
	}
	if cfg.Mode == types.ModePreprocessOnly {
		return res, nil
	}

	log.Info("building title index")
	idx, err := corpus.BuildIndex(root, log)
	if err != nil {
		return nil, err
	}
	matcher := match.New(cfg.Match, idx.Candidates)
	res.Candidates = matcher.Candidates()

	tasks := make([]dispatch.Task, 0, len(blobs))
	for _, b := range blobs {
		b := b
		tasks = append(tasks, dispatch.Task{
			ID: b.ID,
			Run: func(ctx context.Context) ([]types.MatchResult, error) {
				return matcher.Match(ctx, b)
			},
		})
	}

	pool := dispatch.New(cfg.Dispatch, log)
	log.Info("matching titles", "papers", len(tasks), "candidates", res.Candidates, "workers", pool.Workers())
	start := time.Now()
	batches, dispSummary, err := pool.Run(ctx, tasks, w)
	res.Dispatch = dispSummary
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "matching: %d papers, %d failed, %d matches (%s)\n",
		dispSummary.Total(), dispSummary.Failed, dispSummary.Matches, time.Since(start).Round(time.Millisecond))

	res.Assemble = graph.Assemble(idx.Records, batches)
	res.Corpus = idx.Records
	for _, v := range graph.Validate(res.Corpus) {
		log.Error("graph invariant violated", "paper", v.PaperID, "error", v.Err)
	}
	log.Info("graph assembled",
		"papers", len(res.Corpus),
		"edges", res.Corpus.EdgeCount(),
		"duplicates", res.Assemble.Duplicates,
		"dropped", res.Assemble.Dropped)
	return res, nil
}

// Export writes a full run's corpus to the configured outputs: the dataset
// with its manifest, and optionally a plain JSON copy and a SQLite graph.
func Export(ctx context.Context, cfg types.PipelineConfig, res *Result, w io.Writer) error {
	if res == nil || res.Corpus == nil {
		return errors.New("nothing to export: the run did not assemble a graph")
	}
	out := cfg.Output

	if err := dataset.Save(out.DatasetPath, res.Corpus); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", out.DatasetPath)

	if out.JSONPath != "" {
		if err := dataset.Save(out.JSONPath, res.Corpus); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s\n", out.JSONPath)
	}

	if out.DBPath != "" {
		store, err := graph.OpenStore(out.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, res.Corpus); err != nil {
			return fmt.Errorf("saving graph to %s: %w", out.DBPath, err)
		}
		fmt.Fprintf(w, "wrote %s\n", out.DBPath)
	}

	m := dataset.Manifest{
		CreatedAt:   time.Now().UTC(),
		CorpusDir:   cfg.CorpusDir,
		Dataset:     out.DatasetPath,
		Papers:      len(res.Corpus),
		Candidates:  res.Candidates,
		Edges:       res.Corpus.EdgeCount(),
		FailedTasks: res.Dispatch.Failed,
		Threshold:   cfg.Match.Threshold,
		Lookahead:   cfg.Match.YearLookahead,
		Workers:     cfg.Dispatch.Workers,
	}
	return dataset.WriteManifest(dataset.ManifestPath(out.DatasetPath), m)
}
