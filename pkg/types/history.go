// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HistoryStatus records how a mining run ended.
type HistoryStatus string

const (
	HistoryCompleted HistoryStatus = "completed"
)

// HistoryEntry records one completed mining query.
type HistoryEntry struct {
	ID          string        `json:"id" yaml:"id"`
	Timestamp   time.Time     `json:"timestamp" yaml:"timestamp"`
	Query       string        `json:"query" yaml:"query"`
	PapersCount int           `json:"papers_count" yaml:"papers_count"`
	Tags        []string      `json:"tags" yaml:"tags"`
	Status      HistoryStatus `json:"status" yaml:"status"`
}
