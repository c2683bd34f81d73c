// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citegraph CLI. It reconstructs a
// citation graph over a directory of papers by fuzzy-matching every paper's
// title against every other paper's bibliography.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the process logger, built from the persistent flags before any
// subcommand runs.
var log logging.Logger = logging.NewNop()

// rootCmd is the base command for the citegraph CLI.
var rootCmd = &cobra.Command{
	Use:   "citegraph",
	Short: "Extract a citation graph from a corpus of papers",
	Long: `citegraph reconstructs citation links in a corpus of academic papers that
carries none. Each paper is a directory holding title.txt, abstract.txt, and
its raw bibliography (.bib/.bbl files). A paper cites another when the other
paper's title occurs, up to small edits, in its bibliography.

Use build to run the pipeline, stats to summarize a built dataset, and store
to load a dataset into SQLite.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(logging.Options{
			Level: viper.GetString("log_level"),
			File:  viper.GetString("log"),
			Color: viper.GetBool("color"),
		})
		if err != nil {
			return err
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citegraph.yaml or ~/.config/citegraph/citegraph.yaml)")
	rootCmd.PersistentFlags().String("log", "", "write structured JSON logs to this file instead of stderr")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("color", false, "color console log levels even when stderr is not a terminal")

	mustBind("log", rootCmd.PersistentFlags().Lookup("log"))
	mustBind("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBind("color", rootCmd.PersistentFlags().Lookup("color"))
}

// mustBind binds a flag to a viper key so the value can also come from the
// config file or a CITEGRAPH_ environment variable.
func mustBind(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citegraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citegraph"))
		}
	}

	viper.SetEnvPrefix("CITEGRAPH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
