// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/citegraph/internal/logging"
	"github.com/pdiddy/citegraph/internal/textnorm"
	"github.com/pdiddy/citegraph/pkg/types"
)

// File names inside a paper directory.
const (
	TitleFile    = "title.txt"
	AbstractFile = "abstract.txt"
)

// Index is the output of BuildIndex: one record per paper, plus the
// normalized titles that serve as match candidates.
type Index struct {
	Records    types.Corpus
	Candidates []types.CandidateTitle
}

// PaperDirs lists the paper directories under root in ascending order.
// Plain files are skipped. A root that cannot be read is an error.
func PaperDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", root, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// BuildIndex reads the title and abstract of every paper directory under
// root. Each paper gets a record with an empty reference set. A missing or
// unreadable title or abstract leaves that field empty and is logged; papers
// with an empty normalized title are kept as records but are not match
// candidates.
func BuildIndex(root string, log logging.Logger) (*Index, error) {
	names, err := PaperDirs(root)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		Records:    make(types.Corpus, len(names)),
		Candidates: make([]types.CandidateTitle, 0, len(names)),
	}

	for _, id := range names {
		dir := filepath.Join(root, id)

		title, err := textnorm.ReadFile(filepath.Join(dir, TitleFile))
		if err != nil {
			log.Warn("title unavailable", "paper", id, "error", err)
		}
		abstract, err := textnorm.ReadFile(filepath.Join(dir, AbstractFile))
		if err != nil {
			log.Warn("abstract unavailable", "paper", id, "error", err)
		}

		rec := types.NewPaperRecord(id, strings.TrimSpace(title), strings.TrimSpace(abstract))
		idx.Records[id] = rec

		norm := textnorm.Title(title)
		if norm == "" {
			log.Debug("no usable title, not a match candidate", "paper", id)
			continue
		}
		idx.Candidates = append(idx.Candidates, types.CandidateTitle{ID: id, Title: norm})
	}

	return idx, nil
}
