// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citegraph/internal/dataset"
	"github.com/pdiddy/citegraph/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize a built citation graph",
	Long: `Stats loads a dataset written by build and reports the number of edges,
isolated papers, the average degree, the diameter of the largest strongly
connected component, and the in/out degree histograms. The full result is
written as JSON. When the dataset's manifest is present, the settings of the
build that produced it are reported too.`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("dataset")
	out, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()

	c, err := dataset.Load(in)
	if err != nil {
		return err
	}
	s := stats.Compute(c)
	if err := stats.WriteJSON(out, s); err != nil {
		return err
	}

	if m, err := dataset.ReadManifest(dataset.ManifestPath(in)); err == nil {
		fmt.Fprintf(w, "built:          %s from %s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.CorpusDir)
		fmt.Fprintf(w, "settings:       threshold %.1f, lookahead %d, %d workers\n", m.Threshold, m.Lookahead, m.Workers)
		if m.FailedTasks > 0 {
			fmt.Fprintf(w, "failed tasks:   %d\n", m.FailedTasks)
		}
	} else {
		log.Debug("no manifest for dataset", "dataset", in, "error", err)
	}

	fmt.Fprintf(w, "papers:         %d\n", s.Nodes)
	fmt.Fprintf(w, "edges:          %d\n", s.Edges)
	fmt.Fprintf(w, "isolated:       %d\n", s.IsolatedNodes)
	fmt.Fprintf(w, "average degree: %.3f\n", s.AvgDegree)
	fmt.Fprintf(w, "largest SCC:    %d (diameter %d)\n", s.LargestSCCSize, s.Diameter)
	fmt.Fprintf(w, "\nwrote %s\n", out)
	return nil
}

func init() {
	statsCmd.Flags().String("dataset", "data/dataset.json.gz", "dataset written by build")
	statsCmd.Flags().String("output", "output/stats.json", "where to write the statistics")

	rootCmd.AddCommand(statsCmd)
}
