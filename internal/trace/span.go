package trace

import (
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global sequence number. Tracers stamp events that
// arrive without one.
func NextSeq() uint64 { return seqCounter.Add(1) }

func nextSpanID() uint64 { return spanCounter.Add(1) }

func emits(t Tracer, scope Scope) bool {
	return t != nil && t.Enabled() && t.Level().ShouldEmit(scope)
}

// Span is an open begin/end pair. The zero-cost span returned for disabled
// scopes ignores every call.
type Span struct {
	tracer  Tracer
	head    Event // fields shared by the begin and end events
	started time.Time
	extra   map[string]string
}

// Begin opens a span under parent (0 for a root span).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	return begin(t, scope, name, SpanContext{SpanID: parent})
}

func begin(t Tracer, scope Scope, name string, parent SpanContext) *Span {
	if !emits(t, scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:  t,
		started: time.Now(),
		head: Event{
			Scope:    scope,
			SpanID:   nextSpanID(),
			ParentID: parent.SpanID,
			Entry:    parent.Entry,
			Name:     name,
		},
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	ev := s.head
	ev.Time, ev.Seq, ev.Kind, ev.Detail = at, NextSeq(), kind, detail
	return &ev
}

// End closes the span and returns its duration; extras set so far ride on
// the end event.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.head.SpanID == 0 {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now, detail)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return now.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.head.SpanID == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.head.SpanID
}

// Point emits an instant event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if !emits(t, scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		Name:     name,
		Detail:   detail,
	})
}
