// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var evidenceCmd = &cobra.Command{
	Use:   "evidence [topic]",
	Short: "Retrieve the stored papers closest to a topic",
	Long: `Evidence runs a nearest-neighbour query against the collection mined for
the topic. Use --search to rank by a different phrase than the topic itself.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		topic := strings.Join(args, " ")
		search, _ := cmd.Flags().GetString("search")
		if search == "" {
			search = topic
		}
		n, _ := cmd.Flags().GetInt("count")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		ev, err := a.pipeline.Evidence(cmd.Context(), topic, search, n)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(ev)
		}
		if ev.Len() == 0 {
			fmt.Fprintln(out, "No results found.")
			return nil
		}
		fmt.Fprintf(out, "%-4s  %-10s  %-8s  %s\n", "Rank", "PMID", "Distance", "Title")
		fmt.Fprintln(out, strings.Repeat("-", 90))
		for i := range ev.IDs {
			title, _ := ev.Metadatas[i]["title"].(string)
			fmt.Fprintf(out, "%-4d  %-10s  %-8.4f  %s\n", i+1, ev.IDs[i], ev.Distances[i], title)
		}
		return nil
	},
}

func init() {
	evidenceCmd.Flags().String("search", "", "phrase to rank by (default: the topic)")
	evidenceCmd.Flags().IntP("count", "n", 10, "number of papers to return")
	evidenceCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(evidenceCmd)
}
