// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records completed mining queries in a JSON file, newest
// first, keeping at most the last 100.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/lit-miner/pkg/types"
)

// MaxEntries is the number of entries kept.
const MaxEntries = 100

// FileName is the history file name inside the data directory.
const FileName = "query_history.json"

// History is a file-backed query log. Methods are safe for concurrent use
// within one process.
type History struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger

	// Now returns the entry timestamp; nil means time.Now.
	Now func() time.Time
}

// New returns the history stored at dataDir/query_history.json.
func New(dataDir string, log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	return &History{path: filepath.Join(dataDir, FileName), log: log}
}

// Path returns the history file path.
func (h *History) Path() string { return h.path }

// Add prepends a completed entry and trims the log to MaxEntries.
func (h *History) Add(query string, papersCount int, tags []string) (types.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	if tags == nil {
		tags = []string{}
	}
	entry := types.HistoryEntry{
		ID:          uuid.NewString(),
		Timestamp:   now(),
		Query:       query,
		PapersCount: papersCount,
		Tags:        tags,
		Status:      types.HistoryCompleted,
	}

	entries := append([]types.HistoryEntry{entry}, h.load()...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	if err := h.save(entries); err != nil {
		return types.HistoryEntry{}, err
	}
	return entry, nil
}

// List returns up to limit entries, newest first; limit <= 0 returns all.
func (h *History) List(limit int) []types.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.load()
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// Delete removes the entry with id and reports whether it existed.
func (h *History) Delete(id string) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.load()
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return false, nil
	}
	return true, h.save(kept)
}

// Clear removes every entry.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.save(nil)
}

// load reads the file; a missing or unreadable file is an empty history.
func (h *History) load() []types.HistoryEntry {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		h.log.Warn("reading history", zap.String("path", h.path), zap.Error(err))
		return nil
	}
	var entries []types.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		h.log.Warn("history file is corrupt, starting empty", zap.String("path", h.path), zap.Error(err))
		return nil
	}
	return entries
}

// save replaces the file through a temporary file and rename.
func (h *History) save(entries []types.HistoryEntry) error {
	if entries == nil {
		entries = []types.HistoryEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	if err := os.Rename(tmp, h.path); err != nil {
		return fmt.Errorf("replacing history: %w", err)
	}
	return nil
}
