// Package history implements the bounded generation history.
//
// The store keeps the last domain.MaxHistory results, newest first, in a
// single durable slot. Every Add and Clear is written through immediately.
// A single logical writer is assumed; concurrent writers race and the last
// write wins.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"aivideogen/internal/core/domain"
	"aivideogen/internal/core/ports"
)

// storageKey is the fixed durable slot holding the JSON-encoded history.
const storageKey = "ai-video-history"

// Store implements ports.HistoryStore over a key-value slot.
type Store struct {
	kv     ports.KeyValue
	logger *zap.Logger
}

// NewStore creates a history store on top of the given key-value store.
func NewStore(kv ports.KeyValue, logger *zap.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Load returns the persisted history, newest first. Missing or corrupt
// persisted data is treated as an empty history.
func (s *Store) Load(ctx context.Context) []domain.HistoryEntry {
	raw, err := s.kv.Get(ctx, storageKey)
	if err != nil {
		s.logger.Warn("could not read history slot, starting empty", zap.Error(err))
		return nil
	}
	if raw == nil {
		return nil
	}

	var entries []domain.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("history slot unreadable, starting empty", zap.Error(err))
		return nil
	}
	return entries
}

// Add prepends a new entry, truncates to domain.MaxHistory, persists the
// result, and returns it. The returned sequence is valid even when the
// persistence error is non-nil.
func (s *Store) Add(ctx context.Context, prompt, mediaURL string) ([]domain.HistoryEntry, error) {
	now := time.Now()
	entry := domain.HistoryEntry{
		ID:        strconv.FormatInt(now.UnixNano(), 10),
		Prompt:    prompt,
		URL:       mediaURL,
		Timestamp: now.UnixMilli(),
	}

	entries := append([]domain.HistoryEntry{entry}, s.Load(ctx)...)
	if len(entries) > domain.MaxHistory {
		entries = entries[:domain.MaxHistory]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return entries, fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Put(ctx, storageKey, raw); err != nil {
		return entries, fmt.Errorf("persist history: %w", err)
	}
	return entries, nil
}

// Clear erases the durable slot and returns an empty sequence.
func (s *Store) Clear(ctx context.Context) ([]domain.HistoryEntry, error) {
	if err := s.kv.Delete(ctx, storageKey); err != nil {
		return []domain.HistoryEntry{}, fmt.Errorf("clear history: %w", err)
	}
	return []domain.HistoryEntry{}, nil
}
