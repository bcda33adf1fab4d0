package watch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mvp-joe/adapta-compat/internal/pipeline"
)

// Generator produces the compat header. *pipeline.Pipeline satisfies it.
type Generator interface {
	Generate(ctx context.Context) (*pipeline.Result, error)
}

// Loop regenerates the compat header on every batch of header changes.
type Loop struct {
	watcher   HeaderWatcher
	generator Generator
	onResult  func(*pipeline.Result, error)
}

// NewLoop creates a loop. onResult, if not nil, sees the outcome of every run.
func NewLoop(watcher HeaderWatcher, generator Generator, onResult func(*pipeline.Result, error)) *Loop {
	return &Loop{
		watcher:   watcher,
		generator: generator,
		onResult:  onResult,
	}
}

// Run generates once, then again after each change, until ctx is cancelled.
// Generation failures are reported and do not stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	l.regenerate(ctx, nil)

	// Batches are handled one at a time on the watcher goroutine.
	if err := l.watcher.Start(ctx, func(files []string) {
		l.regenerate(ctx, files)
	}); err != nil {
		if stopErr := l.watcher.Stop(); stopErr != nil {
			log.Warn().Err(stopErr).Msg("Header watcher stop failed")
		}
		return err
	}

	<-ctx.Done()

	if err := l.watcher.Stop(); err != nil {
		log.Warn().Err(err).Msg("Header watcher stop failed")
	}
	return ctx.Err()
}

func (l *Loop) regenerate(ctx context.Context, changed []string) {
	if len(changed) > 0 {
		log.Info().Int("files", len(changed)).Strs("changed", changed).Msg("Headers changed, regenerating")
	}

	result, err := l.generator.Generate(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Generation failed")
	}
	if l.onResult != nil {
		l.onResult(result, err)
	}
}
