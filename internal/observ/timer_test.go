package observ

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("parse")
	tm.End(a, "")
	b := tm.Begin("analyze")
	tm.End(b, "semantic")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[1].Note != "semantic" {
		t.Fatalf("report = %+v", r)
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "parse") || !strings.Contains(sum, "// semantic") || !strings.Contains(sum, "total") {
		t.Fatalf("summary:\n%s", sum)
	}

	var buf bytes.Buffer
	if err := tm.WriteJSON(&buf, "Fuzzer.em"); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var back Report
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if back.Path != "Fuzzer.em" || len(back.Phases) != 2 {
		t.Fatalf("decoded = %+v", back)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Fatalf("empty report = %+v", r)
	}
}
