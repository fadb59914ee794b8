// Package trace records what the ember pipeline is doing.
//
// Tracing is opt-in: the default tracer is Nop and costs nothing. The CLI
// builds a real tracer from --trace/--trace-level/--trace-mode and attaches it
// to the context; pipeline stages open spans on it.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartSpan(ctx, trace.ScopeStage, "parse")
//	defer span.End("")
//
// Tracers:
//
//   - Nop: disabled tracing
//   - StreamTracer: writes each event immediately (text or ndjson)
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// Scopes, coarse to fine: ScopeDriver (one command or pipeline invocation),
// ScopeStage (render, parse, prelude, analyze, execute), ScopeFunc (one
// function analyzed or called), ScopeNode (individual statements).
package trace
