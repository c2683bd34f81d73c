// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus reads the on-disk paper corpus: it collapses versioned
// paper directories to one canonical directory per paper and builds the
// title index and initial paper records.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdiddy/citegraph/internal/logging"
	"github.com/pdiddy/citegraph/pkg/types"
)

// VersionedDir is one on-disk directory belonging to a version group.
type VersionedDir struct {
	Name    string
	Version int
}

// VersionGroup holds every directory that shares a base id.
type VersionGroup struct {
	Base types.PaperID
	Dirs []VersionedDir
}

// Latest returns the directory with the highest version. Ties are broken by
// name so the choice does not depend on directory listing order.
func (g VersionGroup) Latest() VersionedDir {
	best := g.Dirs[0]
	for _, d := range g.Dirs[1:] {
		if d.Version > best.Version || (d.Version == best.Version && d.Name > best.Name) {
			best = d
		}
	}
	return best
}

// ResolveSummary holds counts from a version resolution run.
type ResolveSummary struct {
	Groups  int
	Removed int
	Renamed int
	Failed  int
}

// GroupVersions groups directory names by base id. Names that are not paper
// directories are ignored. Groups are returned sorted by base id.
func GroupVersions(names []string) []VersionGroup {
	byBase := make(map[types.PaperID][]VersionedDir)
	for _, name := range names {
		base, version, ok := ParseDirName(name)
		if !ok {
			continue
		}
		byBase[base] = append(byBase[base], VersionedDir{Name: name, Version: version})
	}

	groups := make([]VersionGroup, 0, len(byBase))
	for base, dirs := range byBase {
		sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
		groups = append(groups, VersionGroup{Base: base, Dirs: dirs})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Base < groups[j].Base })
	return groups
}

// Resolve keeps only the latest version of each paper under root. Every
// other directory in a group is deleted and the survivor is renamed to the
// bare base id, clearing anything already at that path. Individual removal
// or rename failures are logged and counted; only an unreadable root is an
// error.
func Resolve(root string, log logging.Logger) (ResolveSummary, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return ResolveSummary{}, fmt.Errorf("reading corpus directory %s: %w", root, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}

	var summary ResolveSummary
	for _, g := range GroupVersions(names) {
		summary.Groups++
		chosen := g.Latest()

		for _, d := range g.Dirs {
			if d.Name == chosen.Name {
				continue
			}
			log.Info("removing superseded version", "path", d.Name, "kept", chosen.Name)
			if err := os.RemoveAll(filepath.Join(root, d.Name)); err != nil {
				log.Error("removing directory failed", "path", d.Name, "error", err)
				summary.Failed++
				continue
			}
			summary.Removed++
		}

		if chosen.Name == g.Base {
			continue
		}
		target := filepath.Join(root, g.Base)
		if err := os.RemoveAll(target); err != nil {
			log.Error("clearing rename target failed", "path", g.Base, "error", err)
			summary.Failed++
			continue
		}
		if err := os.Rename(filepath.Join(root, chosen.Name), target); err != nil {
			log.Error("renaming directory failed", "from", chosen.Name, "to", g.Base, "error", err)
			summary.Failed++
			continue
		}
		log.Debug("renamed", "from", chosen.Name, "to", g.Base)
		summary.Renamed++
	}

	return summary, nil
}
