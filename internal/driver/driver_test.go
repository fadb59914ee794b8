package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ember/data"
	"ember/internal/failure"
	"ember/internal/interp"
	"ember/internal/observ"
	"ember/internal/pipeline"
	"ember/internal/runfiles"
)

func writeProgram(t *testing.T, src string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "main.em")
	if err := os.WriteFile(p, []byte(src), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func testOptions(t *testing.T, out *bytes.Buffer) Options {
	t.Helper()
	dir := t.TempDir()
	if _, err := runfiles.Install(dir, data.PreludeID, data.Prelude); err != nil {
		t.Fatalf("install prelude: %v", err)
	}
	return Options{Runfiles: runfiles.Options{Dir: dir}, Stdout: out}
}

func TestRunFilePrintsToStdout(t *testing.T) {
	var out bytes.Buffer
	p := writeProgram(t, `
fn Main() -> i32 {
	Print("hello");
	PrintInt(Max(2, 9));
	return 42;
}
`)
	timer := observ.NewTimer()
	opts := testOptions(t, &out)
	opts.Timer = timer
	got, err := RunFile(context.Background(), p, opts)
	if err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	if got != 42 {
		t.Fatalf("result = %d, want 42", got)
	}
	if out.String() != "hello\n9\n" {
		t.Fatalf("stdout = %q", out.String())
	}
	if n := len(timer.Report().Phases); n != 4 {
		t.Fatalf("phases = %d, want parse, prelude, analyze, execute", n)
	}
}

func TestDiagnoseReportsSyntaxInBag(t *testing.T) {
	var out bytes.Buffer
	p := writeProgram(t, "fn Main() -> i32 { return ; ")
	res, err := Diagnose(context.Background(), p, testOptions(t, &out))
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !res.Bag.HasErrors() || res.Failed != pipeline.StageParse || res.Program != nil {
		t.Fatalf("result = %+v", res)
	}
	if !failure.Is(BagError(res), failure.Syntax) {
		t.Fatalf("BagError = %v, want Syntax", BagError(res))
	}
}

func TestRunFileSemanticAndRuntime(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)

	_, err := RunFile(context.Background(), writeProgram(t, "fn Main() -> i32 { return true; }"), opts)
	if !failure.Is(err, failure.Semantic) {
		t.Fatalf("err = %v, want Semantic", err)
	}

	_, err = RunFile(context.Background(), writeProgram(t, `fn Main() -> i32 { Assert(false, "nope"); return 0; }`), opts)
	if !failure.Is(err, failure.Runtime) {
		t.Fatalf("err = %v, want Runtime", err)
	}
	var rtErr *interp.Error
	if !errors.As(err, &rtErr) || rtErr.Code != interp.PanicAssertFailed {
		t.Fatalf("cause = %v", err)
	}
}

func TestMissingPreludeIsAnOrdinaryError(t *testing.T) {
	var out bytes.Buffer
	opts := Options{Runfiles: runfiles.Options{Dir: t.TempDir()}, Stdout: &out}
	_, err := RunFile(context.Background(), writeProgram(t, "fn Main() -> i32 { return 0; }"), opts)
	if !failure.Is(err, failure.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestExplicitPreludePath(t *testing.T) {
	var out bytes.Buffer
	pre := filepath.Join(t.TempDir(), "mini.em")
	if err := os.WriteFile(pre, []byte("fn Seven() -> i32 { return 7; }\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	opts := Options{PreludePath: pre, Stdout: &out}
	got, err := RunFile(context.Background(), writeProgram(t, "fn Main() -> i32 { return Seven(); }"), opts)
	if err != nil || got != 7 {
		t.Fatalf("RunFile = %d, %v", got, err)
	}
}

func TestMissingSourceFile(t *testing.T) {
	_, err := RunFile(context.Background(), filepath.Join(t.TempDir(), "absent.em"), Options{})
	if !failure.Is(err, failure.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestRunFileReportsBeforeDeciding(t *testing.T) {
	var out bytes.Buffer
	opts := testOptions(t, &out)
	var seen []*Result
	opts.Report = func(res *Result) { seen = append(seen, res) }

	_, err := RunFile(context.Background(), writeProgram(t, "fn Main() -> i32 { return true; }"), opts)
	if !failure.Is(err, failure.Semantic) {
		t.Fatalf("err = %v, want Semantic", err)
	}
	if len(seen) != 1 || seen[0].Failed != pipeline.StageAnalyze || seen[0].Bag.Len() == 0 {
		t.Fatalf("reported results = %+v", seen)
	}

	seen = nil
	if got, err := RunFile(context.Background(), writeProgram(t, "fn Main() -> i32 { return 3; }"), opts); err != nil || got != 3 {
		t.Fatalf("RunFile = %d, %v", got, err)
	}
	if len(seen) != 1 || seen[0].Program == nil || seen[0].Files == nil {
		t.Fatalf("clean program was not reported: %+v", seen)
	}

	// no Report for a file that never reached diagnosis
	seen = nil
	if _, err := RunFile(context.Background(), filepath.Join(t.TempDir(), "absent.em"), opts); !failure.Is(err, failure.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
	if len(seen) != 0 {
		t.Fatalf("missing file was reported")
	}
}
