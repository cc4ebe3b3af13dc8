// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var expandCmd = &cobra.Command{
	Use:   "expand [topic]",
	Short: "Show the PubMed query a topic expands to",
	Long: `Expand prints the boolean PubMed query built for a topic without searching.
Chinese topics are translated; English topics are optimized. With --no-ai
only the built-in dictionary is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		noAI, _ := cmd.Flags().GetBool("no-ai")
		q := a.expander.Expand(cmd.Context(), strings.Join(args, " "), a.cfg.Expansion.UseAI && !noAI)
		fmt.Fprintln(cmd.OutOrStdout(), q)
		return nil
	},
}

func init() {
	expandCmd.Flags().Bool("no-ai", false, "use dictionary expansion only")

	rootCmd.AddCommand(expandCmd)
}
