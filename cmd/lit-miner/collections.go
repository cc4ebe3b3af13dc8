// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lit-miner/internal/memory"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "Inspect, export and delete topic collections",
	Long: `Each mined topic has one collection in the local vector store holding the
selected papers. Use subcommands to list them, export one to YAML or JSON,
or delete one.`,
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topic collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		topics, err := memory.ListTopics(cmd.Context(), a.db)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(topics)
		}
		if len(topics) == 0 {
			fmt.Fprintln(out, "No collections.")
			return nil
		}
		fmt.Fprintf(out, "%-30s  %-6s  %-5s  %-28s  %s\n", "Collection", "Papers", "Dim", "Embedding", "Topic")
		fmt.Fprintln(out, strings.Repeat("-", 100))
		for _, t := range topics {
			fmt.Fprintf(out, "%-30s  %-6d  %-5d  %-28s  %s\n", t.Collection, t.Papers, t.Dimension, t.Embedding, t.Query)
		}
		fmt.Fprintf(out, "\nCurrent embedding: %s (%d dimensions)\n", a.embedder.Name(), a.embedder.Dimension())
		return nil
	},
}

var collectionsExportCmd = &cobra.Command{
	Use:   "export [topic]",
	Short: "Export a topic collection to YAML or JSON",
	Long: `Export writes every stored paper of a topic (id, abstract and metadata,
without vectors). Output goes to stdout unless --out is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		name, err := memory.FindCollection(ctx, a.db, strings.Join(args, " "))
		if err != nil {
			return err
		}
		store, err := memory.Open(ctx, a.db, name, a.embedder, log())
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		path, _ := cmd.Flags().GetString("out")
		var w io.Writer = cmd.OutOrStdout()
		if path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			defer f.Close()
			w = f
		}
		if err := store.Export(ctx, w, format); err != nil {
			return err
		}
		if path != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", name, path)
		}
		return nil
	},
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete [topic]",
	Short: "Delete a topic collection",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		name, err := memory.FindCollection(ctx, a.db, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := a.db.DeleteCollection(ctx, name); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Deleted", name)
		return nil
	},
}

func init() {
	collectionsListCmd.Flags().Bool("json", false, "output collections as JSON")

	collectionsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	collectionsExportCmd.Flags().String("out", "", "output file (default: stdout)")

	collectionsCmd.AddCommand(collectionsListCmd)
	collectionsCmd.AddCommand(collectionsExportCmd)
	collectionsCmd.AddCommand(collectionsDeleteCmd)

	rootCmd.AddCommand(collectionsCmd)
}
