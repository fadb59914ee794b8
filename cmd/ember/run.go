package main

import (
	"errors"
	"fmt"
	"os"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ember/internal/diagfmt"
	"ember/internal/driver"
	"ember/internal/failure"
	"ember/internal/interp"
	"ember/internal/observ"
	"ember/internal/source"
)

var runCmd = &cobra.Command{
	Use:   "run <file.em>",
	Short: "Analyze and execute an ember source file",
	Long: `Parses the file, attaches the prelude found through runfiles, analyzes it and runs Main.
The process exit code is the value returned by Main.`,
	Args: cobra.ExactArgs(1),
	RunE: runExecution,
}

func init() {
	runCmd.Flags().String("prelude", "", "use this prelude file instead of the runfiles lookup")
	runCmd.Flags().Int("max-diagnostics", 0, "stop after this many diagnostics (0 uses the parser default)")
	runCmd.Flags().String("path-mode", "auto", "diagnostic paths (auto|absolute|basename)")
	runCmd.Flags().Bool("notes", true, "print diagnostic notes")
	runCmd.Flags().String("timings-json", "", "write stage timings as JSON to this file")
}

func runExecution(cmd *cobra.Command, args []string) error {
	path := args[0]
	preludePath, _ := cmd.Flags().GetString("prelude")
	maxDiag, _ := cmd.Flags().GetInt("max-diagnostics")
	pathModeStr, _ := cmd.Flags().GetString("path-mode")
	showNotes, _ := cmd.Flags().GetBool("notes")
	timingsJSON, _ := cmd.Flags().GetString("timings-json")

	pathMode, err := readPathMode(pathModeStr)
	if err != nil {
		return err
	}

	opts := driver.Options{
		Runfiles:    app.runfilesOptions(),
		PreludeID:   app.preludeID(),
		PreludePath: preludePath,
		Stdout:      cmd.OutOrStdout(),
		Tracer:      app.tracer,
		MaxErrors:   maxDiag,
	}
	if app.cfg != nil {
		opts.MaxCallDepth = app.cfg.Fuzz.MaxCallDepth
		opts.MaxSteps = app.cfg.Fuzz.MaxSteps
	}
	if app.timings || timingsJSON != "" {
		opts.Timer = observ.NewTimer()
	}
	defer reportTimings(opts.Timer, path, timingsJSON)

	var files *source.FileSet
	opts.Report = func(res *driver.Result) {
		files = res.Files
		if res.Bag.Len() > 0 {
			diagfmt.Pretty(os.Stderr, res.Bag, res.Files, diagfmt.PrettyOpts{
				Color:     !color.NoColor,
				PathMode:  pathMode,
				ShowNotes: showNotes,
			})
		}
	}

	out, err := driver.RunFile(cmd.Context(), path, opts)
	if err != nil {
		// diagnostics were already printed by Report
		if failure.Is(err, failure.Syntax) || failure.Is(err, failure.Semantic) {
			return &exitError{code: 1}
		}
		var rt *interp.Error
		if errors.As(err, &rt) {
			fmt.Fprintln(os.Stderr, color.RedString("runtime error:"), rt.FormatWithFiles(files))
			return &exitError{code: 1}
		}
		return err
	}
	app.logger().Debug("program finished", "path", path, "result", out)
	if code := exitCodeOf(out); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// exitCodeOf maps Main's result onto a process status; values that do not
// fit a byte become 1.
func exitCodeOf(v int) int {
	code, err := safecast.Conv[uint8](v)
	if err != nil {
		return 1
	}
	return int(code)
}

func readPathMode(s string) (diagfmt.PathMode, error) {
	switch s {
	case "", "auto":
		return diagfmt.PathModeAuto, nil
	case "absolute":
		return diagfmt.PathModeAbsolute, nil
	case "basename":
		return diagfmt.PathModeBasename, nil
	default:
		return diagfmt.PathModeAuto, fmt.Errorf("invalid --path-mode %q (expected auto|absolute|basename)", s)
	}
}

func reportTimings(timer *observ.Timer, path, jsonPath string) {
	if timer == nil {
		return
	}
	if app.timings && !app.quiet {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if jsonPath == "" {
		return
	}
	f, err := os.Create(jsonPath)
	if err != nil {
		app.logger().Warn("timings", "err", err)
		return
	}
	defer f.Close()
	if err := timer.WriteJSON(f, path); err != nil {
		app.logger().Warn("timings", "err", err)
	}
}
