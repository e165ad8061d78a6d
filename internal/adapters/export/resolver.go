// Package export materializes remote media for the user.
//
// The resolver tries strategies in a fixed priority order: fetch the media
// and save it to disk, then fall back to opening the URL for a manual save.
// A failing strategy is logged and skipped; the resolver always terminates in
// one of the two terminal outcomes.
package export

import (
	"context"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"aivideogen/internal/core/domain"
	"aivideogen/internal/core/ports"
)

// Resolver runs the export strategy chain.
type Resolver struct {
	strategies []ports.ExportStrategy
	clipboard  ports.Clipboard
	logger     *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrategies replaces the default strategy chain.
func WithStrategies(strategies ...ports.ExportStrategy) Option {
	return func(r *Resolver) { r.strategies = strategies }
}

// WithClipboard overrides the system clipboard.
func WithClipboard(cb ports.Clipboard) Option {
	return func(r *Resolver) { r.clipboard = cb }
}

// NewResolver creates a resolver saving downloads under downloadDir.
func NewResolver(downloadDir string, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		strategies: []ports.ExportStrategy{
			NewFetchSaveStrategy(downloadDir),
			NewOpenStrategy(),
		},
		clipboard: systemClipboard{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve tries each strategy in order and returns the first terminal result.
// Strategy failures are logged, never propagated; even if every strategy
// fails, the user is left with the URL for a manual save.
func (r *Resolver) Resolve(ctx context.Context, mediaURL string) *domain.ExportResult {
	for _, strategy := range r.strategies {
		result, err := strategy.Attempt(ctx, mediaURL)
		if err != nil {
			r.logger.Warn("export strategy failed",
				zap.String("strategy", strategy.Name()),
				zap.Error(err))
			continue
		}
		r.logger.Info("export resolved",
			zap.String("strategy", strategy.Name()),
			zap.String("outcome", string(result.Outcome)))
		return result
	}

	return &domain.ExportResult{
		Outcome:  domain.ExportOpenedForManualSave,
		MediaURL: mediaURL,
	}
}

// Share copies the media URL to the system clipboard. No file transfer is
// attempted.
func (r *Resolver) Share(mediaURL string) error {
	return r.clipboard.WriteAll(mediaURL)
}

// systemClipboard writes through the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
