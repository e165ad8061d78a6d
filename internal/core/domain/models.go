package domain

// MaxHistory is the capacity of the bounded history store.
const MaxHistory = 3

// GenerationRequest is a user-submitted prompt. Ephemeral; it is never
// persisted on its own.
type GenerationRequest struct {
	PromptText string `json:"prompt"`
}

// GenerationResult is a successful response from the generation service.
// Immutable once created.
type GenerationResult struct {
	MediaURL   string `json:"media_url"`
	PromptText string `json:"prompt"`
	CreatedAt  int64  `json:"created_at"` // epoch milliseconds
}

// HistoryEntry is one recorded generation in the bounded history.
type HistoryEntry struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// JobProgress is the user-visible percent of an in-flight generation.
type JobProgress struct {
	Percent int `json:"percent"`
}

// ExportOutcome is the terminal state of a download/export attempt.
type ExportOutcome string

const (
	// ExportDownloaded means the media was fetched and saved locally.
	ExportDownloaded ExportOutcome = "downloaded"
	// ExportOpenedForManualSave means the media URL was handed to the user
	// (or the platform opener) to save by hand.
	ExportOpenedForManualSave ExportOutcome = "opened_for_manual_save"
)

// ExportResult describes how a media URL was materialized for the user.
type ExportResult struct {
	Outcome   ExportOutcome `json:"outcome"`
	MediaURL  string        `json:"media_url"`
	LocalPath string        `json:"local_path,omitempty"`
}
