package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"ember/internal/corpus"
	"ember/internal/fuzzing"
	"ember/internal/render"
)

var fuzzCmd = &cobra.Command{
	Use:   "fuzz",
	Short: "Run and maintain fuzz corpus entries",
}

var fuzzExecCmd = &cobra.Command{
	Use:   "exec <entry>",
	Short: "Run one corpus entry through the pipeline and print its verdict",
	Args:  cobra.ExactArgs(1),
	RunE:  runFuzzExec,
}

var fuzzReplayCmd = &cobra.Command{
	Use:   "replay <dir|entry>...",
	Short: "Replay corpus entries and summarize their verdicts",
	Long: `Replays every entry found under the given paths. Entries whose file name starts with
"<verdict>_" can be checked against that verdict with --strict.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFuzzReplay,
}

var fuzzRenderCmd = &cobra.Command{
	Use:   "render <entry>",
	Short: "Print the source rendered from a corpus entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runFuzzRender,
}

var fuzzConvertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Re-encode a corpus entry (toml, yaml, msgpack by extension)",
	Args:  cobra.ExactArgs(2),
	RunE:  runFuzzConvert,
}

func init() {
	fuzzReplayCmd.Flags().Int("jobs", 0, "entries replayed in parallel (0 uses [fuzz].jobs)")
	fuzzReplayCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	fuzzReplayCmd.Flags().Bool("strict", false, "fail when a verdict differs from the one in the entry's file name")
	fuzzReplayCmd.Flags().BoolP("verbose", "v", false, "print every entry, not only the summary")
	fuzzRenderCmd.Flags().Bool("no-main", false, "do not synthesize Main")

	fuzzCmd.AddCommand(fuzzExecCmd, fuzzReplayCmd, fuzzRenderCmd, fuzzConvertCmd)
}

func runFuzzExec(cmd *cobra.Command, args []string) error {
	prog, err := corpus.Load(args[0])
	if err != nil {
		return err
	}
	opts := app.harnessOptions()
	h := fuzzing.New(opts)

	out, err := h.ParseAndExecute(cmd.Context(), prog)
	v := fuzzing.Classify(err)
	w := cmd.OutOrStdout()
	if err != nil {
		fmt.Fprintf(w, "%s: %v\n", v.Colored(), err)
	} else {
		fmt.Fprintf(w, "%s: %d\n", v.Colored(), out)
	}
	if opts.Timer != nil && !app.quiet {
		fmt.Fprint(os.Stderr, opts.Timer.Summary())
	}
	// an error verdict means the harness, not the program, is at fault
	if v == fuzzing.VerdictError {
		return &exitError{code: 2}
	}
	return nil
}

func runFuzzReplay(cmd *cobra.Command, args []string) error {
	jobs, _ := cmd.Flags().GetInt("jobs")
	uiFlag, _ := cmd.Flags().GetString("ui")
	strict, _ := cmd.Flags().GetBool("strict")
	verbose, _ := cmd.Flags().GetBool("verbose")

	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	if jobs <= 0 && app.cfg != nil {
		jobs = app.cfg.Fuzz.Jobs
	}

	var paths []string
	for _, arg := range args {
		found, err := corpus.List(arg)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no corpus entries under %s", strings.Join(args, ", "))
	}
	app.logger().Debug("replaying corpus", "entries", len(paths), "jobs", jobs)

	opts := app.harnessOptions()
	ropts := fuzzing.ReplayOptions{Harness: fuzzing.New(opts), Jobs: jobs}

	var sum fuzzing.Summary
	if shouldUseTUI(mode) && !app.quiet {
		sum, err = runReplayWithUI(cmd.Context(), "ember fuzz replay", paths, ropts)
	} else {
		sum, err = fuzzing.Replay(cmd.Context(), paths, ropts)
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	mismatches := printReplay(w, sum, verbose, strict)
	if opts.Timer != nil && !app.quiet {
		fmt.Fprint(os.Stderr, opts.Timer.Summary())
	}
	if mismatches > 0 {
		return &exitError{code: 1, err: fmt.Errorf("%d of %d entries changed verdict", mismatches, sum.Total())}
	}
	return nil
}

// printReplay writes the per-entry table and the verdict counts, and returns
// how many entries disagree with their file name when strict is set.
func printReplay(w io.Writer, sum fuzzing.Summary, verbose, strict bool) int {
	mismatches := 0
	tbl := table.New().
		Headers("ENTRY", "VERDICT", "DETAIL").
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(2)
		})
	rows := 0
	for _, r := range sum.Results {
		want, named := namedVerdict(r.Path)
		bad := strict && named && want != r.Verdict
		if bad {
			mismatches++
		}
		if !verbose && !bad {
			continue
		}
		detail := fmt.Sprintf("%d", r.Outcome)
		if r.Err != nil {
			detail = firstLine(r.Err.Error())
		}
		mark := ""
		if bad {
			mark = fmt.Sprintf("  (expected %s)", want)
		}
		tbl.Row(r.Path, r.Verdict.Colored(), detail+mark)
		rows++
	}
	if rows > 0 {
		fmt.Fprintln(w, tbl.Render())
	}

	parts := make([]string, 0, len(fuzzing.Verdicts))
	for _, v := range fuzzing.Verdicts {
		if n := sum.Counts[v]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", v.Colored(), n))
		}
	}
	fmt.Fprintf(w, "%d entries: %s\n", sum.Total(), strings.Join(parts, ", "))
	return mismatches
}

// namedVerdict reads the verdict prefix of a corpus file name, as in
// "runtime_overflow.toml".
func namedVerdict(path string) (fuzzing.Verdict, bool) {
	prefix, _, ok := strings.Cut(filepath.Base(path), "_")
	if !ok {
		return "", false
	}
	for _, v := range fuzzing.Verdicts {
		if string(v) == prefix {
			return v, true
		}
	}
	return "", false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func runFuzzRender(cmd *cobra.Command, args []string) error {
	noMain, _ := cmd.Flags().GetBool("no-main")
	prog, err := corpus.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), render.Source(prog, !noMain))
	return nil
}

func runFuzzConvert(cmd *cobra.Command, args []string) error {
	prog, err := corpus.Load(args[0])
	if err != nil {
		return err
	}
	if err := corpus.Save(args[1], prog); err != nil {
		return err
	}
	app.logger().Info("converted", "from", args[0], "to", args[1])
	return nil
}
