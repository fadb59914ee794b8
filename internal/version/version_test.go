package version

import (
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origV, origC, origD := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origV, origC, origD })
}

func TestColoredKeepsText(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	for _, v := range []string{"0.1.0-dev", "1.2.3", "1.2.3-rc.1+build.123", "weird"} {
		withVersion(t, v, "", "")
		if got := Colored(); got != v {
			t.Fatalf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestLine(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	withVersion(t, "1.0.0", "1234567890abcdef", "2026-01-15")
	if got, want := Line(), "ember 1.0.0 (1234567890ab) built 2026-01-15"; got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
	withVersion(t, "1.0.0", "", "")
	if got := Line(); got != "ember 1.0.0" {
		t.Fatalf("Line() = %q", got)
	}
}
