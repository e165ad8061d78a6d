package ports

import (
	"context"

	"aivideogen/internal/core/domain"
)

// Generator defines the contract for the external video generation service.
type Generator interface {
	// Submit runs one request/response cycle for the given prompt.
	// Returns domain.ErrGenerationFailed for any remote-side problem.
	Submit(ctx context.Context, promptText string) (*domain.GenerationResult, error)
}

// KeyValue is a durable single-slot store backing local persistence.
type KeyValue interface {
	// Get retrieves the value for a key. Returns (nil, nil) if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores a value under a key (upsert).
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close shuts down the store.
	Close() error
}

// HistoryStore maintains the bounded, most-recent-first generation history.
type HistoryStore interface {
	// Load returns the persisted history, newest first. Missing or
	// unreadable persisted data yields an empty sequence, never an error.
	Load(ctx context.Context) []domain.HistoryEntry

	// Add records a new generation, evicting the oldest entry beyond
	// capacity, and returns the resulting sequence. The sequence is valid
	// even when the persistence error is non-nil.
	Add(ctx context.Context, prompt, mediaURL string) ([]domain.HistoryEntry, error)

	// Clear erases the durable slot and returns an empty sequence.
	Clear(ctx context.Context) ([]domain.HistoryEntry, error)
}

// ExportStrategy is one way of materializing remote media for the user.
type ExportStrategy interface {
	Name() string

	// Attempt tries to export the media at mediaURL. A non-nil error means
	// the resolver should fall through to the next strategy.
	Attempt(ctx context.Context, mediaURL string) (*domain.ExportResult, error)
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}
