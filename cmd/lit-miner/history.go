// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/lit-miner/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show and manage the query history",
	Long: `History keeps the last 100 mining runs, newest first. Use subcommands to
list, delete, or clear entries.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent mining runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		entries := openHistory().List(limit)

		out := cmd.OutOrStdout()
		if jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(out, "No history.")
			return nil
		}
		fmt.Fprintf(out, "%-36s  %-16s  %-6s  %s\n", "ID", "Time", "Papers", "Query")
		fmt.Fprintln(out, strings.Repeat("-", 100))
		for _, e := range entries {
			q := e.Query
			if len(e.Tags) > 0 {
				q += " [" + strings.Join(e.Tags, ", ") + "]"
			}
			fmt.Fprintf(out, "%-36s  %-16s  %-6d  %s\n",
				e.ID, e.Timestamp.Local().Format("2006-01-02 15:04"), e.PapersCount, q)
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete one history entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := openHistory().Delete(args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no history entry %q", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := openHistory().Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
		return nil
	},
}

// openHistory opens the history file without building the full app.
func openHistory() *history.History {
	return history.New(loadConfig(viper.GetViper()).DataDir, log())
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum entries to show (0 = all)")
	historyListCmd.Flags().Bool("json", false, "output entries as JSON")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.AddCommand(historyCmd)
}
