// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/lit-miner/internal/pipeline"
	"github.com/pdiddy/lit-miner/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review [topic]",
	Short: "Write a literature review from a mined topic",
	Long: `Review retrieves the papers stored for a previously mined topic, asks the
configured language model for a cited review, and writes it as Markdown
(and optionally HTML) to the review output directory. Citation markers
that do not match a retrieved paper are reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().String("topic", "", "review title and retrieval phrase (default: generated)")
	reviewCmd.Flags().IntP("count", "n", 0, "number of papers to cite (default from review.evidence_count)")
	reviewCmd.Flags().Bool("html", false, "also write an HTML rendering")
	reviewCmd.Flags().String("out", "", "output directory (default from review.output_dir)")
	reviewCmd.Flags().Bool("print", false, "print the review to stdout instead of saving it")

	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	topic, _ := cmd.Flags().GetString("topic")
	n, _ := cmd.Flags().GetInt("count")
	if n <= 0 {
		n = a.cfg.Review.EvidenceCount
	}
	html, _ := cmd.Flags().GetBool("html")
	dir, _ := cmd.Flags().GetString("out")
	if dir == "" {
		dir = a.cfg.Review.OutputDir
	}
	printOnly, _ := cmd.Flags().GetBool("print")

	r, err := a.pipeline.Review(cmd.Context(), strings.Join(args, " "), pipeline.ReviewOptions{Topic: topic, N: n})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	if len(r.InvalidCitations) > 0 {
		fmt.Fprintf(errOut, "warning: citations without a source: %v\n", r.InvalidCitations)
	}

	if printOnly {
		fmt.Fprintln(out, r.Markdown)
		return nil
	}

	paths, err := review.Save(dir, r, html)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Review %q written by %s from %d source(s):\n", r.Topic, r.Provider, r.Sources)
	for _, p := range paths {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}
