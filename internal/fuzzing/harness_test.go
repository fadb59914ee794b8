package fuzzing

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ember/data"
	"ember/internal/check"
	"ember/internal/desc"
	"ember/internal/failure"
	"ember/internal/interp"
	"ember/internal/observ"
	"ember/internal/runfiles"
	"ember/internal/trace"
)

// installPrelude points the locator at a fresh runfiles tree holding the
// shipped prelude.
func installPrelude(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := runfiles.Install(dir, data.PreludeID, data.Prelude); err != nil {
		t.Fatalf("install prelude: %v", err)
	}
	t.Setenv(runfiles.EnvManifest, "")
	t.Setenv(runfiles.EnvDir, dir)
	return dir
}

// expectAbort runs fn and returns the check failure it raised.
func expectAbort(t *testing.T, fn func()) (f *check.Failure) {
	t.Helper()
	defer func() {
		f = check.Recover(recover())
		if f == nil {
			t.Fatalf("expected abort, pipeline returned normally")
		}
	}()
	fn()
	return nil
}

func TestScenarioTrivialProgramReturnsZero(t *testing.T) {
	installPrelude(t)
	got, err := ParseAndExecute(context.Background(), &desc.Program{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("outcome = %d, want 0", got)
	}
}

func TestScenarioUndefinedNameIsSemantic(t *testing.T) {
	installPrelude(t)
	prog := &desc.Program{Decls: []desc.Decl{desc.MainReturning(desc.Name("Undefined"))}}
	_, err := ParseAndExecute(context.Background(), prog)
	if !failure.Is(err, failure.Semantic) {
		t.Fatalf("err = %v, want Semantic", err)
	}
	if !strings.Contains(err.Error(), SourceName) {
		t.Fatalf("error %q does not locate the problem in %s", err, SourceName)
	}
}

func TestScenarioUnparsableIsSyntax(t *testing.T) {
	installPrelude(t)
	prog := &desc.Program{Decls: []desc.Decl{desc.MainReturning(desc.Bin("", desc.I32(1), desc.I32(2)))}}
	_, err := ParseAndExecute(context.Background(), prog)
	if !failure.Is(err, failure.Syntax) {
		t.Fatalf("err = %v, want Syntax", err)
	}
	var fe *failure.Error
	if !errors.As(err, &fe) || fe.Path != SourceName || len(fe.Diags) == 0 {
		t.Fatalf("syntax failure = %+v", fe)
	}
}

func TestScenarioMissingPreludeAborts(t *testing.T) {
	t.Setenv(runfiles.EnvManifest, "")
	t.Setenv(runfiles.EnvDir, t.TempDir()) // exists, but holds no prelude

	f := expectAbort(t, func() {
		_, _ = ParseAndExecute(context.Background(), &desc.Program{})
	})
	if !strings.Contains(f.Msg, data.PreludeID) {
		t.Fatalf("abort message %q does not name the prelude", f.Msg)
	}
}

func TestMissingRunfilesAbortsToo(t *testing.T) {
	h := New(Options{Runfiles: runfiles.Options{
		Executable: filepath.Join(t.TempDir(), "nowhere"),
		Getenv:     func(string) string { return "" },
	}})
	expectAbort(t, func() {
		_, _ = h.ParseAndExecute(context.Background(), &desc.Program{})
	})
}

func TestPreludeLookupOnlyAfterParse(t *testing.T) {
	calls := 0
	h := New(Options{Locate: func(string) (string, error) {
		calls++
		return "", failure.Missing("/absent/prelude.em")
	}})
	// a syntax error wins: the candidate never reaches prelude resolution
	prog := &desc.Program{Decls: []desc.Decl{desc.MainReturning(desc.Bin("", nil, nil))}}
	if _, err := h.ParseAndExecute(context.Background(), prog); !failure.Is(err, failure.Syntax) {
		t.Fatalf("err = %v, want Syntax", err)
	}
	if calls != 0 {
		t.Fatalf("locator called %d times for unparsable input", calls)
	}
}

func TestExactlyOneLocatorCall(t *testing.T) {
	dir := installPrelude(t)
	var ids []string
	h := New(Options{Locate: func(id string) (string, error) {
		ids = append(ids, id)
		return runfiles.Locate(id, runfiles.Options{Dir: dir})
	}})
	if _, err := h.ParseAndExecute(context.Background(), &desc.Program{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 || ids[0] != data.PreludeID {
		t.Fatalf("locator calls = %v, want exactly [%s]", ids, data.PreludeID)
	}
}

func TestRuntimeFailure(t *testing.T) {
	installPrelude(t)
	prog := &desc.Program{Decls: []desc.Decl{
		desc.MainReturning(desc.Bin("/", desc.I32(1), desc.I32(0))),
	}}
	_, err := ParseAndExecute(context.Background(), prog)
	if !failure.Is(err, failure.Runtime) {
		t.Fatalf("err = %v, want Runtime", err)
	}
	var rtErr *interp.Error
	if !errors.As(err, &rtErr) || rtErr.Code != interp.PanicDivisionByZero {
		t.Fatalf("runtime cause = %v", err)
	}
}

func TestPrintOutputIsDiscarded(t *testing.T) {
	installPrelude(t)
	prog := &desc.Program{Decls: []desc.Decl{
		desc.MainReturning(desc.I32(3), desc.Eval(desc.CallOf("Print", desc.Str("noise")))),
	}}

	// nothing may reach the harness's own stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	got, runErr := ParseAndExecute(context.Background(), prog)
	os.Stdout = orig
	_ = w.Close()
	var captured bytes.Buffer
	_, _ = captured.ReadFrom(r)

	if runErr != nil || got != 3 {
		t.Fatalf("ParseAndExecute = %d, %v", got, runErr)
	}
	if captured.Len() != 0 {
		t.Fatalf("program output leaked: %q", captured.String())
	}

	// a capturing sink sees it
	var out bytes.Buffer
	if _, err := New(Options{Print: &out}).ParseAndExecute(context.Background(), prog); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "noise\n" {
		t.Fatalf("captured %q", out.String())
	}
}

func TestClassificationIsStable(t *testing.T) {
	installPrelude(t)
	progs := []*desc.Program{
		{},
		{Decls: []desc.Decl{desc.MainReturning(desc.Name("nope"))}},
		{Decls: []desc.Decl{desc.MainReturning(desc.Bin("", nil, nil))}},
		{Decls: []desc.Decl{desc.MainReturning(desc.Bin("+", desc.Name("INT_MAX"), desc.I32(1)))}},
	}
	want := []Verdict{VerdictOK, VerdictSemantic, VerdictSyntax, VerdictRuntime}
	h := New(Options{})
	for i, p := range progs {
		for range 2 {
			_, err := h.ParseAndExecute(context.Background(), p)
			if got := Classify(err); got != want[i] {
				t.Fatalf("program %d: verdict %s, want %s (%v)", i, got, want[i], err)
			}
		}
	}
}

func TestStagesAreTracedAndTimed(t *testing.T) {
	installPrelude(t)
	ring := trace.NewRingTracer(128, trace.LevelStage)
	ctx := trace.WithTracer(context.Background(), ring)
	timer := observ.NewTimer()

	if _, err := New(Options{Timer: timer}).ParseAndExecute(ctx, &desc.Program{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[string]bool{}
	for _, ev := range ring.Snapshot() {
		seen[ev.Name] = true
	}
	for _, name := range []string{"fuzz:parse_and_execute", "render", "parse", "prelude", "analyze", "execute"} {
		if !seen[name] {
			t.Fatalf("span %q missing; got %v", name, seen)
		}
	}
	if n := len(timer.Report().Phases); n != 5 {
		t.Fatalf("timer phases = %d, want 5", n)
	}
}

func TestCorruptPreludeIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	if _, err := runfiles.Install(dir, data.PreludeID, []byte("fn {")); err != nil {
		t.Fatal(err)
	}
	h := New(Options{Runfiles: runfiles.Options{Dir: dir}})
	_, err := h.ParseAndExecute(context.Background(), &desc.Program{})
	if !failure.Is(err, failure.Syntax) {
		t.Fatalf("err = %v, want Syntax from the prelude", err)
	}
}
