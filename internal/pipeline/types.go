// Package pipeline names the stages of one ParseAndExecute invocation and
// carries progress events between the harness and its observers.
package pipeline

import "time"

// Stage describes one step of the execution pipeline, in order.
type Stage string

const (
	StageLoad    Stage = "load" // corpus entry decode, replay only
	StageRender  Stage = "render"
	StageParse   Stage = "parse"
	StagePrelude Stage = "prelude" // resolve and attach
	StageAnalyze Stage = "analyze"
	StageExecute Stage = "execute"
)

// Stages lists the pipeline stages in execution order.
var Stages = []Stage{StageRender, StageParse, StagePrelude, StageAnalyze, StageExecute}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one corpus entry (or for the whole run when
// File is empty). Verdict is set on the final event of an entry.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Verdict string
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use when replay runs with more than one job.
type ProgressSink interface {
	OnEvent(Event)
}
