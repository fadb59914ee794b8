package pipeline

import (
	"context"
	"time"

	"ember/internal/failure"
	"ember/internal/observ"
	"ember/internal/trace"
)

// Run executes fn as stage st: a stage span on the context tracer and, when
// timer is non-nil, a timer phase. A failing stage notes its failure kind on
// both.
func Run(ctx context.Context, timer *observ.Timer, st Stage, fn func() error) error {
	sp, _ := trace.StartSpan(ctx, trace.ScopeStage, string(st))
	idx := -1
	if timer != nil {
		idx = timer.Begin(string(st))
	}
	start := time.Now()

	err := fn()

	note := ""
	if err != nil {
		note = failure.KindOf(err).String()
	}
	if idx >= 0 {
		timer.End(idx, note)
	}
	sp.WithExtra("elapsed", time.Since(start).String()).End(note)
	return err
}
