package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ember/internal/check"
	"ember/internal/config"
	"ember/internal/fuzzing"
	"ember/internal/observ"
	"ember/internal/runfiles"
	"ember/internal/trace"
)

// appState is what every command shares after PersistentPreRunE.
type appState struct {
	cfg      *config.Config
	log      *log.Logger
	tracer   trace.Tracer
	quiet    bool
	timings  bool
	cleanups []func()
}

var app = &appState{}

func (a *appState) logger() *log.Logger {
	if a.log == nil {
		a.log = newLogger(log.InfoLevel)
	}
	return a.log
}

func (a *appState) close() {
	// cleanups run once, last registered first
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "ember",
		Level:  level,
	})
}

func setupApp(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	if err := setupColor(flags.Lookup("color").Value.String()); err != nil {
		return err
	}

	cfgPath, _ := flags.GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return err
	}
	if dir, _ := flags.GetString("runfiles-dir"); dir != "" {
		cfg.Runfiles.Dir, cfg.Runfiles.Manifest = dir, ""
	}
	if m, _ := flags.GetString("runfiles-manifest"); m != "" {
		cfg.Runfiles.Manifest, cfg.Runfiles.Dir = m, ""
	}
	app.cfg = cfg

	levelName := cfg.Log.Level
	if v, _ := flags.GetString("log-level"); v != "" {
		levelName = v
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	app.quiet, _ = flags.GetBool("quiet")
	if app.quiet && level < log.WarnLevel {
		level = log.WarnLevel
	}
	app.log = newLogger(level)
	if cfg.Path != "" {
		app.log.Debug("loaded config", "path", cfg.Path)
	}

	app.timings, _ = flags.GetBool("timings")

	cleanupTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	app.cleanups = append(app.cleanups, cleanupTrace)

	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	app.cleanups = append(app.cleanups, cleanupProf)
	return nil
}

func setupColor(mode string) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout) || os.Getenv("NO_COLOR") != ""
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

func (a *appState) runfilesOptions() runfiles.Options {
	if a.cfg == nil {
		return runfiles.Options{}
	}
	return runfiles.Options{Dir: a.cfg.Runfiles.Dir, Manifest: a.cfg.Runfiles.Manifest}
}

func (a *appState) preludeID() string {
	if a.cfg == nil {
		return ""
	}
	return a.cfg.Fuzz.Prelude
}

func (a *appState) harnessOptions() fuzzing.Options {
	opts := fuzzing.Options{
		Runfiles:  a.runfilesOptions(),
		PreludeID: a.preludeID(),
	}
	if a.cfg != nil {
		opts.MaxCallDepth = a.cfg.Fuzz.MaxCallDepth
		opts.MaxSteps = a.cfg.Fuzz.MaxSteps
	}
	if a.timings {
		opts.Timer = observ.NewTimer()
	}
	return opts
}

// reportAbort logs a failed check and dumps the trace ring, if any, so the
// operator sees which stage was running.
func reportAbort(f *check.Failure) {
	l := app.logger()
	l.Error("aborting: harness environment is broken", "check", f.Msg, "at", fmt.Sprintf("%s:%d", f.File, f.Line))
	if ring, ok := trace.Ring(app.tracer); ok {
		fmt.Fprintln(os.Stderr, "last trace events:")
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	app.close()
}
