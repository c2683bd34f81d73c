// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/pipeline"
	"github.com/pdiddy/citegraph/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Resolve versions, normalize bibliographies, and build the citation graph",
	Long: `Build runs the full pipeline over the corpus directory:

  1. collapse versioned paper directories (2101.00001v3) to one directory per paper
  2. normalize each paper's .bib/.bbl files into a cached plain-text bibliography
  3. match every paper title against every bibliography on a worker pool
  4. assemble the matches into reference sets and write the dataset

Use --clean to stop after step 1 and --preprocess to stop after step 2.
Every flag can also be set in citegraph.yaml or as a CITEGRAPH_ environment
variable (CITEGRAPH_WORKERS, CITEGRAPH_TASK_TIMEOUT, ...).`,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := pipeline.Run(ctx, cfg, log, os.Stdout)
	if err != nil {
		return err
	}
	if cfg.Mode != types.ModeFull {
		return nil
	}

	if err := pipeline.Export(ctx, cfg, res, os.Stdout); err != nil {
		return err
	}
	if res.Dispatch.HasFailures() {
		return fmt.Errorf("%d paper(s) failed matching", res.Dispatch.Failed)
	}
	return nil
}

// buildConfig assembles the pipeline configuration from flags, the config
// file, and the environment, in viper's precedence order.
func buildConfig() (types.PipelineConfig, error) {
	cfg := types.Defaults()
	cfg.CorpusDir = viper.GetString("data")
	switch {
	case viper.GetBool("clean"):
		cfg.Mode = types.ModeCleanOnly
	case viper.GetBool("preprocess"):
		cfg.Mode = types.ModePreprocessOnly
	}
	cfg.Match.Threshold = viper.GetFloat64("threshold")
	cfg.Match.YearLookahead = viper.GetInt("lookahead")
	cfg.Dispatch.Workers = viper.GetInt("workers")
	cfg.Dispatch.TaskTimeout = viper.GetDuration("task_timeout")
	cfg.Output = types.OutputConfig{
		DatasetPath: viper.GetString("output"),
		JSONPath:    viper.GetString("json"),
		DBPath:      viper.GetString("db"),
	}
	return cfg, cfg.Validate()
}

func init() {
	d := types.Defaults()
	f := buildCmd.Flags()
	f.String("data", d.CorpusDir, "corpus root; each subdirectory is one paper")
	f.String("output", d.Output.DatasetPath, "dataset path (gzip-compressed when it ends in .gz)")
	f.String("json", "", "also write an uncompressed JSON copy of the dataset to this path")
	f.String("db", "", "also write the graph to this SQLite database")
	f.Bool("clean", false, "only collapse versioned paper directories, then exit")
	f.Bool("preprocess", false, "only collapse versions and normalize bibliographies, then exit")
	f.Int("workers", d.Dispatch.Workers, "number of matching workers")
	f.Float64("threshold", d.Match.Threshold, "similarity a title must exceed to count as cited (0-100)")
	f.Int("lookahead", d.Match.YearLookahead, "how far past the citing paper's YYMM key a cited paper may be")
	f.Duration("task-timeout", 0, "per-paper matching timeout (0 disables)")
	buildCmd.MarkFlagsMutuallyExclusive("clean", "preprocess")

	for _, name := range []string{"data", "output", "json", "db", "clean", "preprocess", "workers", "threshold", "lookahead"} {
		mustBind(name, f.Lookup(name))
	}
	mustBind("task_timeout", f.Lookup("task-timeout"))

	rootCmd.AddCommand(buildCmd)
}
