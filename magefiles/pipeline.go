//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Clean collapses versioned paper directories in dataset_papers/.
func (Pipeline) Clean() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "build", "--clean")
}

// Preprocess collapses versions and caches normalized bibliographies.
func (Pipeline) Preprocess() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "build", "--preprocess")
}

// Graph runs the full pipeline and writes data/dataset.json.gz and data/citegraph.db.
func (Pipeline) Graph() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "build", "--db", "data/citegraph.db")
}

// Analyze writes graph statistics for the built dataset to output/stats.json.
func (Pipeline) Analyze() error {
	mg.Deps(Pipeline.Graph)
	return sh.RunV(binPath, "stats")
}
