// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citegraph/internal/dataset"
	"github.com/pdiddy/citegraph/internal/graph"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Load a dataset into a SQLite graph database",
	Long: `Store reads a dataset written by build and writes its papers and
citations into a SQLite database. Rerunning replaces each paper's citations.`,
	RunE: runStore,
}

func runStore(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("dataset")
	dbPath, _ := cmd.Flags().GetString("db")

	c, err := dataset.Load(in)
	if err != nil {
		return err
	}
	if violations := graph.Validate(c); len(violations) > 0 {
		for _, v := range violations {
			log.Warn("invalid record", "paper", v.PaperID, "error", v.Err)
		}
		return fmt.Errorf("dataset %s has %d invalid record(s)", in, len(violations))
	}

	store, err := graph.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Save(ctx, c); err != nil {
		return err
	}
	papers, citations, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "stored %d papers, %d citations in %s\n", papers, citations, dbPath)
	return nil
}

var refsCmd = &cobra.Command{
	Use:   "refs <paper-id>",
	Short: "List the papers a paper cites, or is cited by",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefs,
}

func runRefs(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	citedBy, _ := cmd.Flags().GetBool("cited-by")

	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("graph database %s: %w (run citegraph store first)", dbPath, err)
	}
	store, err := graph.OpenStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	query := store.References
	if citedBy {
		query = store.CitedBy
	}
	ids, err := query(context.Background(), args[0])
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Println(strings.Join(ids, "\n"))
	return nil
}

func init() {
	storeCmd.Flags().String("dataset", "data/dataset.json.gz", "dataset written by build")
	storeCmd.Flags().String("db", "data/citegraph.db", "SQLite database path")

	refsCmd.Flags().String("db", "data/citegraph.db", "SQLite database path")
	refsCmd.Flags().Bool("cited-by", false, "list citing papers instead of cited ones")

	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(refsCmd)
}
