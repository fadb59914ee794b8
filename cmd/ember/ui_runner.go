package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ember/internal/check"
	"ember/internal/fuzzing"
	"ember/internal/pipeline"
	"ember/internal/ui"
)

type replayOutcome struct {
	summary fuzzing.Summary
	err     error
	abort   *check.Failure
}

func runReplayWithUI(ctx context.Context, title string, files []string, opts fuzzing.ReplayOptions) (fuzzing.Summary, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan replayOutcome, 1)

	go func() {
		var out replayOutcome
		defer func() {
			out.abort = check.Recover(recover())
			close(events)
			outcomeCh <- out
		}()
		opts.Sink = pipeline.ChannelSink{Ch: events}
		out.summary, out.err = fuzzing.Replay(ctx, files, opts)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the model stops reading once the user quits
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if outcome.abort != nil {
		// re-raised here so main's ExitOnFailure sees it
		panic(outcome.abort)
	}
	if uiErr != nil {
		return outcome.summary, uiErr
	}
	return outcome.summary, outcome.err
}
