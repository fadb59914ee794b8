package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Tracer receives events. Implementations must be safe for concurrent use:
// parallel replays share one tracer.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	// Close flushes and releases the output.
	Close() error
	Level() Level
	// Enabled reports Level() > LevelOff.
	Enabled() bool
}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory for a post-mortem dump
	ModeBoth
)

var modeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

func ParseMode(s string) (StorageMode, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == want {
			return m, nil
		}
	}
	return ModeStream, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer built by New.
type Config struct {
	Level  Level
	Mode   StorageMode
	Format Format // FormatAuto: ndjson for .ndjson/.jsonl paths, text otherwise
	// Output wins over OutputPath. An empty OutputPath or "-" is stderr.
	Output     io.Writer
	OutputPath string
	RingSize   int // 0 means 4096
}

func (c Config) format() Format {
	if c.Format != FormatAuto {
		return c.Format
	}
	for _, ext := range []string{".ndjson", ".jsonl"} {
		if strings.HasSuffix(c.OutputPath, ext) {
			return FormatNDJSON
		}
	}
	return FormatText
}

func (c Config) stream() (*StreamTracer, error) {
	w := c.Output
	switch {
	case w != nil:
	case c.OutputPath == "" || c.OutputPath == "-":
		w = uncloseable{os.Stderr}
	default:
		f, err := os.Create(c.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open trace output: %w", err)
		}
		w = f
	}
	return NewStreamTracer(w, c.Level, c.format()), nil
}

// New builds the tracer described by cfg; LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	switch cfg.Mode {
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeStream:
		return cfg.stream()
	case ModeBoth:
		st, err := cfg.stream()
		if err != nil {
			return nil, err
		}
		return NewMultiTracer(cfg.Level, st, NewRingTracer(cfg.RingSize, cfg.Level)), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

// uncloseable hides Close so the tracer never closes stderr.
type uncloseable struct{ io.Writer }

// Ring returns the ring buffer behind t, if any.
func Ring(t Tracer) (*RingTracer, bool) {
	switch v := t.(type) {
	case *RingTracer:
		return v, true
	case *MultiTracer:
		for _, inner := range v.tracers {
			if r, ok := Ring(inner); ok {
				return r, true
			}
		}
	}
	return nil, false
}
