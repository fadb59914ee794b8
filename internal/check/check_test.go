package check

import (
	"strings"
	"testing"
)

func catch(fn func()) (f *Failure) {
	defer func() { f = Recover(recover()) }()
	fn()
	return nil
}

func TestThatPassesSilently(t *testing.T) {
	if f := catch(func() { That(true, "unused") }); f != nil {
		t.Fatalf("unexpected failure %v", f)
	}
}

func TestFailfRecordsCaller(t *testing.T) {
	f := catch(func() { Failf("prelude %s missing", "x") })
	if f == nil {
		t.Fatalf("expected failure")
	}
	if f.Msg != "prelude x missing" {
		t.Fatalf("Msg = %q", f.Msg)
	}
	if !strings.HasSuffix(f.File, "check_test.go") || f.Line == 0 {
		t.Fatalf("caller not recorded: %s:%d", f.File, f.Line)
	}
	if !strings.Contains(f.String(), "CHECK failure at") {
		t.Fatalf("String() = %q", f.String())
	}
}

func TestRecoverRepanicsForeignValues(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v, want boom", r)
		}
	}()
	catch(func() { panic("boom") })
	t.Fatalf("foreign panic was swallowed")
}

func TestWriteFailure(t *testing.T) {
	var sb strings.Builder
	writeFailure(&sb, &Failure{Msg: "bad"})
	if sb.String() != "CHECK failure: bad\n" {
		t.Fatalf("got %q", sb.String())
	}
}
