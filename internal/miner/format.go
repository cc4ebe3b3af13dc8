// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package miner

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/lit-miner/pkg/types"
)

// FormatTable writes a selection as a human-readable table to w.
func FormatTable(papers []types.ScoredPaper, stats RunStats, w io.Writer) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "No papers selected.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-10s  %-50s  %-24s  %-4s  %-5s  %-11s  %s\n",
		"Rank", "PMID", "Title", "Journal", "Year", "Score", "Category", "Reasons")
	fmt.Fprintln(w, strings.Repeat("-", 140))

	for i, p := range papers {
		fmt.Fprintf(w, "%-4d  %-10s  %-50s  %-24s  %-4d  %-5d  %-11s  %s\n",
			i+1, p.ID, truncate(p.Title, 50), truncate(p.Journal, 24),
			p.Year, p.Score, p.Category, p.ReasonString())
	}

	fmt.Fprintf(w, "\n%d selected of %d scored (%d found", stats.Selected, stats.Scored, stats.Found)
	if stats.DroppedRetracted > 0 {
		fmt.Fprintf(w, ", %d retracted", stats.DroppedRetracted)
	}
	if stats.DroppedNoAbstract > 0 {
		fmt.Fprintf(w, ", %d without abstract", stats.DroppedNoAbstract)
	}
	fmt.Fprintln(w, ")")
}

// FormatJSON writes a selection as indented JSON to w.
func FormatJSON(papers []types.ScoredPaper, w io.Writer) error {
	if papers == nil {
		papers = []types.ScoredPaper{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(papers)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
