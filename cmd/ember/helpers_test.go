package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"ember/internal/diagfmt"
	"ember/internal/failure"
	"ember/internal/fuzzing"
)

func TestExitCodeOf(t *testing.T) {
	cases := map[int]int{0: 0, 7: 7, 255: 255, 256: 1, -1: 1}
	for in, want := range cases {
		if got := exitCodeOf(in); got != want {
			t.Fatalf("exitCodeOf(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestNamedVerdict(t *testing.T) {
	if v, ok := namedVerdict("testdata/corpus/runtime_overflow.toml"); !ok || v != fuzzing.VerdictRuntime {
		t.Fatalf("got %q %v", v, ok)
	}
	if _, ok := namedVerdict("corpus/seed.yaml"); ok {
		t.Fatalf("name without a prefix must not carry a verdict")
	}
	if _, ok := namedVerdict("crash_1.yaml"); ok {
		t.Fatalf("unknown prefix must not carry a verdict")
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, " ON ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Fatalf("explicit modes must win over detection")
	}
}

func TestReadPathMode(t *testing.T) {
	if m, err := readPathMode("basename"); err != nil || m != diagfmt.PathModeBasename {
		t.Fatalf("got %v %v", m, err)
	}
	if _, err := readPathMode("relative"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPrintReplayStrict(t *testing.T) {
	color.NoColor = true
	sum := fuzzing.Summary{
		Results: []fuzzing.Result{
			{Path: "ok_one.toml", Verdict: fuzzing.VerdictOK, Outcome: 1},
			{Path: "semantic_two.yaml", Verdict: fuzzing.VerdictSyntax, Err: failure.New(failure.Syntax, "bad\nmore")},
			{Path: "seed.yaml", Verdict: fuzzing.VerdictRuntime, Err: errors.New("boom")},
		},
		Counts: map[fuzzing.Verdict]int{fuzzing.VerdictOK: 1, fuzzing.VerdictSyntax: 1, fuzzing.VerdictRuntime: 1},
	}

	var buf bytes.Buffer
	if n := printReplay(&buf, sum, false, true); n != 1 {
		t.Fatalf("mismatches = %d, want 1", n)
	}
	out := buf.String()
	if !strings.Contains(out, "semantic_two.yaml") || !strings.Contains(out, "(expected semantic)") {
		t.Fatalf("mismatch not reported:\n%s", out)
	}
	if strings.Contains(out, "ok_one.toml") || strings.Contains(out, "more") {
		t.Fatalf("non-verbose output lists matching entries or multi-line errors:\n%s", out)
	}
	if !strings.Contains(out, "3 entries: ok 1, syntax 1, runtime 1") {
		t.Fatalf("summary line missing:\n%s", out)
	}

	buf.Reset()
	if n := printReplay(&buf, sum, true, false); n != 0 {
		t.Fatalf("non-strict replay reported %d mismatches", n)
	}
	if !strings.Contains(buf.String(), "ok_one.toml") {
		t.Fatalf("verbose output misses entries:\n%s", buf.String())
	}
}

func TestPrintReplayTableLayout(t *testing.T) {
	color.NoColor = true
	sum := fuzzing.Summary{
		Results: []fuzzing.Result{
			{Path: "ok_one.toml", Verdict: fuzzing.VerdictOK, Outcome: 1},
			{Path: "runtime_two.yaml", Verdict: fuzzing.VerdictRuntime, Err: errors.New("boom")},
		},
		Counts: map[fuzzing.Verdict]int{fuzzing.VerdictOK: 1, fuzzing.VerdictRuntime: 1},
	}

	var buf bytes.Buffer
	printReplay(&buf, sum, false, true)
	if strings.Contains(buf.String(), "ENTRY") {
		t.Fatalf("clean strict replay printed a table:\n%s", buf.String())
	}

	buf.Reset()
	printReplay(&buf, sum, true, false)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("want header, rule, two rows and summary, got:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[0], "ENTRY") || !strings.Contains(lines[0], "VERDICT") {
		t.Fatalf("header = %q", lines[0])
	}
	// columns line up under the header
	col := strings.Index(lines[0], "VERDICT")
	if len(lines[3]) <= col || !strings.HasPrefix(lines[2][col:], "ok ") || !strings.HasPrefix(lines[3][col:], "runtime ") {
		t.Fatalf("misaligned rows:\n%s", buf.String())
	}
}
