// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lit-miner/internal/memory"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [topic]",
	Short: "Re-embed collections built with a different embedding model",
	Long: `Migrate checks each topic collection (or only the named topic) against the
current embedding provider. Collections whose vectors have a different
length are re-embedded from their stored abstracts; the original is kept
until the new copy is complete. With --dry-run nothing is changed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		out := cmd.OutOrStdout()

		topics, err := memory.ListTopics(ctx, a.db)
		if err != nil {
			return err
		}
		var only string
		if len(args) > 0 {
			if only, err = memory.FindCollection(ctx, a.db, strings.Join(args, " ")); err != nil {
				return err
			}
		}

		dim := a.embedder.Dimension()
		migrated := 0
		for _, t := range topics {
			if only != "" && t.Collection != only {
				continue
			}
			if t.Papers == 0 || t.Dimension == dim {
				continue
			}
			fmt.Fprintf(out, "%s: %d papers, %d -> %d dimensions\n", t.Collection, t.Papers, t.Dimension, dim)
			if dryRun {
				continue
			}
			// Open migrates a collection whose dimension differs.
			if _, err := memory.Open(ctx, a.db, t.Collection, a.embedder, log()); err != nil {
				return fmt.Errorf("migrating %s: %w", t.Collection, err)
			}
			migrated++
		}

		switch {
		case dryRun:
		case migrated == 0:
			fmt.Fprintf(out, "All collections match %s (%d dimensions)\n", a.embedder.Name(), dim)
		default:
			fmt.Fprintf(out, "Migrated %d collection(s) to %s\n", migrated, a.embedder.Name())
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().Bool("dry-run", false, "only report collections that need migration")

	rootCmd.AddCommand(migrateCmd)
}
