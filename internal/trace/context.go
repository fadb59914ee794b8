package trace

import "context"

type ctxKey struct{}

// FromContext extracts the Tracer from context, Nop when absent.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}

// SpanContext is what child spans inherit from the context.
type SpanContext struct {
	SpanID uint64
	Entry  string
}

type spanCtxKey struct{}

// CurrentSpan retrieves the active span context, zero when absent.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	if sc, ok := ctx.Value(spanCtxKey{}).(SpanContext); ok {
		return sc
	}
	return SpanContext{}
}

// WithSpanContext attaches span context.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, spanCtxKey{}, sc)
}

// StartSpan begins a span on the context tracer, parented to the context's
// current span, and returns a context carrying the new span.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	parent := CurrentSpan(ctx)
	sp := begin(FromContext(ctx), scope, name, parent)
	if sp.ID() == 0 {
		return sp, ctx
	}
	return sp, WithSpanContext(ctx, SpanContext{SpanID: sp.ID(), Entry: parent.Entry})
}

// WithEntry tags every span started below ctx with a corpus entry, so events
// from parallel replays can be told apart.
func WithEntry(ctx context.Context, entry string) context.Context {
	sc := CurrentSpan(ctx)
	sc.Entry = entry
	return WithSpanContext(ctx, sc)
}
