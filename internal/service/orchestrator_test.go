package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"aivideogen/internal/adapters/history"
	"aivideogen/internal/adapters/kvstore"
	"aivideogen/internal/core/domain"
	"aivideogen/internal/quota"
)

type stubGenerator struct {
	result *domain.GenerationResult
	err    error
	calls  int
	block  chan struct{} // when set, Submit blocks until closed
	inside chan struct{} // when set, closed once Submit is entered
}

func (g *stubGenerator) Submit(ctx context.Context, promptText string) (*domain.GenerationResult, error) {
	g.calls++
	if g.inside != nil {
		close(g.inside)
	}
	if g.block != nil {
		<-g.block
	}
	return g.result, g.err
}

func newTestOrchestrator(t *testing.T, gen *stubGenerator, q *quota.Counter) (*Orchestrator, *history.Store) {
	t.Helper()
	store := history.NewStore(kvstore.NewMemoryStore(), zap.NewNop())
	return NewOrchestrator(gen, store, q, zap.NewNop()), store
}

func TestOrchestrator_Generate_Success(t *testing.T) {
	gen := &stubGenerator{result: &domain.GenerationResult{
		MediaURL:   "https://x/y.mp4",
		PromptText: "a cat in space",
		CreatedAt:  time.Now().UnixMilli(),
	}}
	o, store := newTestOrchestrator(t, gen, nil)
	ctx := context.Background()

	result, err := o.Generate(ctx, "a cat in space")
	require.NoError(t, err)
	assert.Equal(t, "https://x/y.mp4", result.MediaURL)
	assert.Equal(t, result, o.Current())

	entries := store.Load(ctx)
	require.Len(t, entries, 1, "a success pushes exactly one history entry")
	assert.Equal(t, "a cat in space", entries[0].Prompt)
	assert.Equal(t, "https://x/y.mp4", entries[0].URL)
}

func TestOrchestrator_Generate_Failure_NoSideEffects(t *testing.T) {
	gen := &stubGenerator{err: domain.ErrGenerationFailed}
	o, store := newTestOrchestrator(t, gen, nil)
	ctx := context.Background()

	_, err := o.Generate(ctx, "anything")
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Nil(t, o.Current(), "no current result on failure")
	assert.Empty(t, store.Load(ctx), "no history entry on failure")
}

func TestOrchestrator_Generate_EmptyPrompt(t *testing.T) {
	gen := &stubGenerator{}
	o, _ := newTestOrchestrator(t, gen, nil)

	for _, prompt := range []string{"", "  \t\n "} {
		_, err := o.Generate(context.Background(), prompt)
		assert.ErrorIs(t, err, domain.ErrEmptyPrompt)
	}
	assert.Zero(t, gen.calls, "validation failures never reach the generator")
}

func TestOrchestrator_Generate_QuotaExceeded(t *testing.T) {
	gen := &stubGenerator{}
	counter := quota.NewCounter(1)
	counter.Record() // Limit already consumed.
	o, _ := newTestOrchestrator(t, gen, counter)

	_, err := o.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Zero(t, gen.calls, "quota rejections never reach the generator")
}

func TestOrchestrator_Generate_RecordsQuotaOnSuccess(t *testing.T) {
	gen := &stubGenerator{result: &domain.GenerationResult{MediaURL: "https://x/y.mp4", PromptText: "p"}}
	counter := quota.NewCounter(5)
	o, _ := newTestOrchestrator(t, gen, counter)

	_, err := o.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, 1, counter.Used())
}

func TestOrchestrator_Generate_RejectsOverlap(t *testing.T) {
	gen := &stubGenerator{
		result: &domain.GenerationResult{MediaURL: "https://x/y.mp4", PromptText: "p"},
		block:  make(chan struct{}),
		inside: make(chan struct{}),
	}
	o, _ := newTestOrchestrator(t, gen, nil)

	done := make(chan error, 1)
	go func() {
		_, err := o.Generate(context.Background(), "first")
		done <- err
	}()

	<-gen.inside // First submission is now in flight.
	_, err := o.Generate(context.Background(), "second")
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(gen.block)
	require.NoError(t, <-done)
}
