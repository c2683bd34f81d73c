// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegraph/internal/dataset"
	"github.com/pdiddy/citegraph/pkg/types"
)

// setFlag sets a stats flag for the duration of the test.
func setFlag(t *testing.T, name, value string) {
	t.Helper()
	f := statsCmd.Flags().Lookup(name)
	require.NotNil(t, f)
	old := f.Value.String()
	require.NoError(t, f.Value.Set(value))
	t.Cleanup(func() { _ = f.Value.Set(old) })
}

func writeDataset(t *testing.T, dir string) string {
	t.Helper()
	a := types.NewPaperRecord("2001.00010", "Reformer", "")
	a.AddReference("1706.00030")
	c := types.Corpus{"2001.00010": a, "1706.00030": types.NewPaperRecord("1706.00030", "Attention", "")}

	path := filepath.Join(dir, "dataset.json.gz")
	require.NoError(t, dataset.Save(path, c))
	return path
}

func runStatsCmd(t *testing.T, in, out string) string {
	t.Helper()
	setFlag(t, "dataset", in)
	setFlag(t, "output", out)
	var buf bytes.Buffer
	statsCmd.SetOut(&buf)
	t.Cleanup(func() { statsCmd.SetOut(nil) })

	require.NoError(t, runStats(statsCmd, nil))
	return buf.String()
}

func TestStatsReportsManifest(t *testing.T) {
	dir := t.TempDir()
	in := writeDataset(t, dir)
	require.NoError(t, dataset.WriteManifest(dataset.ManifestPath(in), dataset.Manifest{
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		CorpusDir:   "dataset_papers",
		Threshold:   95,
		Lookahead:   3,
		Workers:     6,
		FailedTasks: 2,
	}))

	got := runStatsCmd(t, in, filepath.Join(dir, "stats.json"))
	assert.Contains(t, got, "built:          2026-03-01 12:00 from dataset_papers")
	assert.Contains(t, got, "threshold 95.0, lookahead 3, 6 workers")
	assert.Contains(t, got, "failed tasks:   2")
	assert.Contains(t, got, "edges:          1")
}

func TestStatsWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	in := writeDataset(t, dir)

	got := runStatsCmd(t, in, filepath.Join(dir, "stats.json"))
	assert.NotContains(t, got, "built:")
	assert.Contains(t, got, "papers:         2")
	assert.FileExists(t, filepath.Join(dir, "stats.json"))
}
