// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lit-miner/internal/miner"
	"github.com/pdiddy/lit-miner/internal/pipeline"
)

var mineCmd = &cobra.Command{
	Use:   "mine [topic]",
	Short: "Search PubMed for a topic and keep the best papers",
	Long: `Mine expands the topic into a PubMed query, fetches and scores the hits,
and selects up to 2 high-impact reviews, 4 recent top-journal papers and
4 data-rich papers. The selection is stored in the topic's collection for
later review writing, and the run is recorded in the query history.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMine,
}

func init() {
	mineCmd.Flags().Int("limit", 0, "number of search hits to fetch (default from config, capped by mining.max_limit)")
	mineCmd.Flags().Bool("no-ai", false, "use dictionary expansion only")
	mineCmd.Flags().StringSlice("tags", nil, "tags recorded with the history entry")
	mineCmd.Flags().Bool("no-store", false, "do not store the selection in the vector collection")
	mineCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(mineCmd)
}

func runMine(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	noAI, _ := cmd.Flags().GetBool("no-ai")
	tags, _ := cmd.Flags().GetStringSlice("tags")
	noStore, _ := cmd.Flags().GetBool("no-store")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	res, err := a.pipeline.Mine(cmd.Context(), strings.Join(args, " "), pipeline.MineOptions{
		Limit:   limit,
		UseAI:   a.cfg.Expansion.UseAI && !noAI,
		Tags:    tags,
		NoStore: noStore,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "Search term: %s\n\n", res.Expanded)
	miner.FormatTable(res.Papers, res.Stats, out)
	if res.Collection != "" {
		fmt.Fprintf(out, "\nStored %d new paper(s) in %s\n", res.Added, res.Collection)
	}
	if len(res.Papers) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Nothing selected: try a broader topic or a larger --limit.")
	}
	return nil
}
