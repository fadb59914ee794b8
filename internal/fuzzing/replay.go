package fuzzing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"ember/internal/check"
	"ember/internal/corpus"
	"ember/internal/desc"
	"ember/internal/pipeline"
	"ember/internal/trace"
)

type ReplayOptions struct {
	// Harness runs every entry; nil uses New(Options{}).
	Harness *Harness
	// Jobs bounds parallel entries; values below 2 replay sequentially.
	Jobs int
	Sink pipeline.ProgressSink
	// Load defaults to corpus.Load.
	Load func(path string) (*desc.Program, error)
}

// Result is the outcome of one corpus entry.
type Result struct {
	Path    string
	Verdict Verdict
	Outcome int
	Err     error
	Elapsed time.Duration
}

type Summary struct {
	Results []Result // in input order
	Counts  map[Verdict]int
}

func (s Summary) Total() int { return len(s.Results) }

// Replay runs ParseAndExecute over every entry in paths. A corpus entry that
// cannot be loaded stops the replay with an error; pipeline failures are
// verdicts, not errors. A failed check in a worker is re-raised on the
// calling goroutine once the workers have stopped.
func Replay(ctx context.Context, paths []string, opts ReplayOptions) (Summary, error) {
	h := opts.Harness
	if h == nil {
		h = New(Options{})
	}
	load := opts.Load
	if load == nil {
		load = corpus.Load
	}
	sink := opts.Sink
	if sink == nil {
		sink = pipeline.SinkFunc(nil)
	}

	for _, p := range paths {
		sink.OnEvent(pipeline.Event{File: p, Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
	}

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	g.SetLimit(jobs)
	if jobs > 1 && h.opts.Timer != nil {
		shared := *h
		shared.opts.Timer = nil
		h = &shared
	}

	var (
		abortOnce sync.Once
		aborted   *check.Failure
	)
	for i, p := range paths {
		g.Go(func() (err error) {
			defer func() {
				if f := check.Recover(recover()); f != nil {
					abortOnce.Do(func() { aborted = f })
					err = fmt.Errorf("%s: aborted", p)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			sink.OnEvent(pipeline.Event{File: p, Stage: pipeline.StageLoad, Status: pipeline.StatusWorking})
			prog, err := load(p)
			if err != nil {
				sink.OnEvent(pipeline.Event{File: p, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
				return fmt.Errorf("load %s: %w", p, err)
			}

			sink.OnEvent(pipeline.Event{File: p, Stage: pipeline.StageExecute, Status: pipeline.StatusWorking})
			out, err := h.ParseAndExecute(trace.WithEntry(gctx, p), prog)
			v := Classify(err)
			results[i] = Result{Path: p, Verdict: v, Outcome: out, Err: err, Elapsed: time.Since(start)}

			status := pipeline.StatusDone
			if err != nil {
				status = pipeline.StatusError
			}
			sink.OnEvent(pipeline.Event{
				File:    p,
				Stage:   pipeline.StageExecute,
				Status:  status,
				Verdict: string(v),
				Err:     err,
				Elapsed: results[i].Elapsed,
			})
			return nil
		})
	}
	err := g.Wait()
	if aborted != nil {
		panic(aborted)
	}
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{Results: results, Counts: make(map[Verdict]int, len(Verdicts))}
	for _, r := range results {
		sum.Counts[r.Verdict]++
	}
	return sum, nil
}
