package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ember/internal/check"
	"ember/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "ember",
	Short:         "Ember fuzz pipeline and interpreter",
	Long:          `Ember renders structured program descriptions, runs them against the prelude and classifies the outcome.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupApp(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		app.close()
	},
}

func main() {
	// провал проверки (нет прелюдии) завершает процесс здесь
	defer check.ExitOnFailure(reportAbort)

	rootCmd.Version = version.Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(fuzzCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to ember.toml (default: search upward from the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.String("log-level", "", "log level (debug|info|warn|error); overrides [log].level")
	pf.Bool("timings", false, "show per-stage timings")
	pf.String("trace", "", "trace output file ('-' for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|stage|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 disables)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
	pf.String("runfiles-dir", "", "runfiles directory (overrides $EMBER_RUNFILES_DIR and [runfiles].dir)")
	pf.String("runfiles-manifest", "", "runfiles manifest (overrides $EMBER_RUNFILES_MANIFEST and [runfiles].manifest)")

	err := rootCmd.Execute()
	app.close()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			app.logger().Error(ee.err.Error())
		}
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
