// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset serializes the assembled citation graph: a gzipped JSON
// object keyed by paper id, an optional plain JSON copy, and a YAML
// manifest describing the run that produced it.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citegraph/pkg/types"
)

// Entry is the serialized form of one paper record.
type Entry struct {
	Title      string          `json:"title" yaml:"title"`
	Abstract   string          `json:"abstract" yaml:"abstract"`
	References []types.PaperID `json:"references" yaml:"references"`
}

// Entries converts a corpus to its serialized form with sorted references.
func Entries(c types.Corpus) map[types.PaperID]Entry {
	out := make(map[types.PaperID]Entry, len(c))
	for id, rec := range c {
		out[id] = Entry{
			Title:      rec.Title,
			Abstract:   rec.Abstract,
			References: rec.SortedReferences(),
		}
	}
	return out
}

// FromEntries rebuilds a corpus from its serialized form.
func FromEntries(entries map[types.PaperID]Entry) types.Corpus {
	c := make(types.Corpus, len(entries))
	for id, e := range entries {
		rec := types.NewPaperRecord(id, e.Title, e.Abstract)
		for _, ref := range e.References {
			rec.AddReference(ref)
		}
		c[id] = rec
	}
	return c
}

// Write encodes the corpus as JSON to w. encoding/json sorts map keys, so
// the output is deterministic.
func Write(w io.Writer, c types.Corpus) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(Entries(c)); err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	return nil
}

// Read decodes a corpus written by Write.
func Read(r io.Reader) (types.Corpus, error) {
	var entries map[types.PaperID]Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	return FromEntries(entries), nil
}

// Save writes the corpus to path, gzip-compressed when path ends in ".gz".
// The file is written to a temporary name and renamed into place.
func Save(path string, c types.Corpus) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating dataset file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeTo(tmp, path, c); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing dataset file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming dataset file: %w", err)
	}
	return nil
}

func writeTo(f *os.File, path string, c types.Corpus) error {
	if !isGzip(path) {
		return Write(f, c)
	}
	zw, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("creating gzip writer: %w", err)
	}
	if err := Write(zw, c); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flushing gzip stream: %w", err)
	}
	return nil
}

// Load reads a dataset written by Save.
func Load(path string) (types.Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	if !isGzip(path) {
		return Read(f)
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
	}
	defer zr.Close()
	return Read(zr)
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// Manifest describes one pipeline run and its output.
type Manifest struct {
	CreatedAt   time.Time `yaml:"created_at"`
	CorpusDir   string    `yaml:"corpus_dir"`
	Dataset     string    `yaml:"dataset"`
	Papers      int       `yaml:"papers"`
	Candidates  int       `yaml:"candidates"`
	Edges       int       `yaml:"edges"`
	FailedTasks int       `yaml:"failed_tasks"`
	Threshold   float64   `yaml:"threshold"`
	Lookahead   int       `yaml:"lookahead"`
	Workers     int       `yaml:"workers"`
}

// ManifestPath returns the manifest location for a dataset path:
// data/dataset.json.gz becomes data/dataset.manifest.yaml.
func ManifestPath(datasetPath string) string {
	base := filepath.Base(datasetPath)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return filepath.Join(filepath.Dir(datasetPath), base+".manifest.yaml")
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}
