package types

import (
	"fmt"
	"time"
)

// RunMode selects how far the pipeline proceeds.
type RunMode string

const (
	// ModeFull runs every stage and produces the citation graph.
	ModeFull RunMode = "full"
	// ModeCleanOnly stops after version resolution.
	ModeCleanOnly RunMode = "clean"
	// ModePreprocessOnly stops after bibliography normalization.
	ModePreprocessOnly RunMode = "preprocess"
)

// Defaults for the matching stage.
const (
	DefaultWorkers       = 6
	DefaultThreshold     = 95.0
	DefaultYearLookahead = 3
)

// MatchConfig holds the citation matcher parameters.
type MatchConfig struct {
	// Threshold is the similarity score a title must exceed to count as
	// cited (default 95).
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// YearLookahead bounds how far past the citing paper's publication key a
	// cited paper may be (default 3).
	YearLookahead int `json:"year_lookahead" yaml:"year_lookahead"`
}

// DispatchConfig holds the worker pool parameters.
type DispatchConfig struct {
	// Workers is the fixed worker pool size (default 6).
	Workers int `json:"workers" yaml:"workers"`

	// TaskTimeout bounds a single matching task. Zero disables the timeout.
	TaskTimeout time.Duration `json:"task_timeout" yaml:"task_timeout"`
}

// OutputConfig holds the paths the build command writes to.
type OutputConfig struct {
	// DatasetPath is the gzipped JSON dataset (e.g. "data/dataset.json.gz").
	DatasetPath string `json:"dataset_path" yaml:"dataset_path"`

	// JSONPath, when set, receives an uncompressed copy of the dataset.
	JSONPath string `json:"json_path,omitempty" yaml:"json_path,omitempty"`

	// DBPath, when set, receives the graph as a SQLite database.
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// PipelineConfig groups all settings for one pipeline run.
type PipelineConfig struct {
	// CorpusDir is the root directory whose children are paper directories.
	CorpusDir string `json:"corpus_dir" yaml:"corpus_dir"`

	// Mode selects full, clean-only, or preprocess-only runs.
	Mode RunMode `json:"mode" yaml:"mode"`

	Match    MatchConfig    `json:"match" yaml:"match"`
	Dispatch DispatchConfig `json:"dispatch" yaml:"dispatch"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}

// Defaults returns a configuration with the documented default values.
func Defaults() PipelineConfig {
	return PipelineConfig{
		CorpusDir: "dataset_papers",
		Mode:      ModeFull,
		Match: MatchConfig{
			Threshold:     DefaultThreshold,
			YearLookahead: DefaultYearLookahead,
		},
		Dispatch: DispatchConfig{
			Workers: DefaultWorkers,
		},
		Output: OutputConfig{
			DatasetPath: "data/dataset.json.gz",
		},
	}
}

// Validate reports the first invalid setting.
func (c PipelineConfig) Validate() error {
	if c.CorpusDir == "" {
		return fmt.Errorf("corpus directory is required")
	}
	switch c.Mode {
	case ModeFull, ModeCleanOnly, ModePreprocessOnly:
	default:
		return fmt.Errorf("unknown run mode %q", c.Mode)
	}
	if c.Match.Threshold < 0 || c.Match.Threshold > 100 {
		return fmt.Errorf("threshold %v out of range [0,100]", c.Match.Threshold)
	}
	if c.Match.YearLookahead < 0 {
		return fmt.Errorf("year lookahead must not be negative, got %d", c.Match.YearLookahead)
	}
	if c.Dispatch.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Dispatch.Workers)
	}
	if c.Dispatch.TaskTimeout < 0 {
		return fmt.Errorf("task timeout must not be negative, got %v", c.Dispatch.TaskTimeout)
	}
	return nil
}
