package runfiles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ember/internal/failure"
)

const preludeID = "ember/data/prelude.em"

func noEnv(string) string { return "" }

func writeFile(t *testing.T, p, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
}

// fakeExe creates an "executable" anchor; the file only has to exist. The
// Bazel variables are cleared so an outer bazel test cannot leak in.
func fakeExe(t *testing.T) string {
	t.Helper()
	t.Setenv("RUNFILES_DIR", "")
	t.Setenv("RUNFILES_MANIFEST_FILE", "")
	dir := t.TempDir()
	exe := filepath.Join(dir, "ember_fuzzer")
	writeFile(t, exe, "")
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	return resolved
}

func TestLocateFromAnchorDirectory(t *testing.T) {
	exe := fakeExe(t)
	want := filepath.Join(exe+".runfiles", "ember", "data", "prelude.em")
	writeFile(t, want, "// prelude")

	got, err := Locate(preludeID, Options{Executable: exe, Getenv: noEnv})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != want {
		t.Fatalf("Locate = %s, want %s", got, want)
	}
	if !filepath.IsAbs(got) {
		t.Fatalf("%s is not absolute", got)
	}
}

func TestLocateIgnoresWorkingDirectory(t *testing.T) {
	exe := fakeExe(t)
	want := filepath.Join(exe+".runfiles", "ember", "data", "prelude.em")
	writeFile(t, want, "// prelude")

	// a decoy relative to the working directory must not be picked
	wd := t.TempDir()
	writeFile(t, filepath.Join(wd, "ember", "data", "prelude.em"), "// decoy")
	t.Chdir(wd)

	got, err := Locate(preludeID, Options{Executable: exe, Getenv: noEnv})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != want {
		t.Fatalf("Locate = %s, want %s", got, want)
	}
}

func TestLocateThroughSymlinkedExecutable(t *testing.T) {
	exe := fakeExe(t)
	want := filepath.Join(exe+".runfiles", "ember", "data", "prelude.em")
	writeFile(t, want, "// prelude")

	link := filepath.Join(t.TempDir(), "fuzzer-link")
	if err := os.Symlink(exe, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	got, err := Locate(preludeID, Options{Executable: link, Getenv: noEnv})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != want {
		t.Fatalf("Locate = %s, want %s", got, want)
	}
}

func TestLocateFromManifest(t *testing.T) {
	exe := fakeExe(t)
	target := filepath.Join(t.TempDir(), "somewhere", "prelude.em")
	writeFile(t, target, "// prelude")
	writeFile(t, exe+".runfiles_manifest", preludeID+" "+target+"\nother/file /nonexistent\n")

	got, err := Locate(preludeID, Options{Executable: exe, Getenv: noEnv})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != target {
		t.Fatalf("Locate = %s, want %s", got, target)
	}

	_, err = Locate("other/file", Options{Executable: exe, Getenv: noEnv})
	if !failure.Is(err, failure.NotFound) {
		t.Fatalf("listed but missing file: err = %v, want NotFound", err)
	}
	_, err = Locate("unlisted.em", Options{Executable: exe, Getenv: noEnv})
	if !failure.Is(err, failure.NotFound) {
		t.Fatalf("unlisted id: err = %v, want NotFound", err)
	}
}

func TestManifestInsideRunfilesDirWins(t *testing.T) {
	exe := fakeExe(t)
	target := filepath.Join(t.TempDir(), "prelude.em")
	writeFile(t, target, "// prelude")
	writeFile(t, filepath.Join(exe+".runfiles", "MANIFEST"), preludeID+" "+target+"\n")

	r, err := New(Options{Executable: exe, Getenv: noEnv})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if filepath.Base(r.Source()) != "MANIFEST" {
		t.Fatalf("source = %s, want the MANIFEST file", r.Source())
	}
	got, err := r.Locate(preludeID)
	if err != nil || got != target {
		t.Fatalf("Locate = %q, %v; want %s", got, err, target)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ember", "data", "prelude.em"), "// prelude")
	t.Setenv(EnvDir, dir)
	t.Setenv(EnvManifest, "")

	// the anchor has no runfiles at all; the environment decides
	got, err := Locate(preludeID, Options{Executable: fakeExe(t)})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !strings.HasPrefix(got, dir) {
		t.Fatalf("Locate = %s, want a path under %s", got, dir)
	}
}

func TestNoRunfilesIsConfigurationError(t *testing.T) {
	exe := fakeExe(t)
	_, err := Locate(preludeID, Options{Executable: exe, Getenv: noEnv})
	if !failure.Is(err, failure.Configuration) {
		t.Fatalf("err = %v, want Configuration", err)
	}
}

func TestBadOverridesAreConfigurationErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	if _, err := New(Options{Dir: missing, Getenv: noEnv}); !failure.Is(err, failure.Configuration) {
		t.Fatalf("missing dir: err = %v, want Configuration", err)
	}
	if _, err := New(Options{Manifest: missing, Getenv: noEnv}); !failure.Is(err, failure.Configuration) {
		t.Fatalf("missing manifest: err = %v, want Configuration", err)
	}

	bad := filepath.Join(t.TempDir(), "MANIFEST")
	writeFile(t, bad, "no-path-here\n")
	if _, err := New(Options{Manifest: bad, Getenv: noEnv}); !failure.Is(err, failure.Configuration) {
		t.Fatalf("malformed manifest: err = %v, want Configuration", err)
	}
}

func TestRelativeManifestTargetIsConfigurationError(t *testing.T) {
	m := filepath.Join(t.TempDir(), "MANIFEST")
	writeFile(t, m, preludeID+" relative/prelude.em\n")
	_, err := Locate(preludeID, Options{Manifest: m, Getenv: noEnv})
	if !failure.Is(err, failure.Configuration) {
		t.Fatalf("err = %v, want Configuration", err)
	}
}

func TestBazelEnvironmentIsAFallback(t *testing.T) {
	exe := fakeExe(t)
	dir := t.TempDir()
	want := filepath.Join(dir, "ember", "data", "prelude.em")
	writeFile(t, want, "// prelude")
	t.Setenv("RUNFILES_DIR", dir)

	r, err := New(Options{Executable: exe, Getenv: noEnv})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Source() != dir {
		t.Fatalf("source = %s, want %s", r.Source(), dir)
	}
	got, err := r.Locate(preludeID)
	if err != nil || got != want {
		t.Fatalf("Locate = %q, %v; want %s", got, err, want)
	}

	// the anchor's own runfiles still win over the Bazel variables
	own := filepath.Join(exe+".runfiles", "ember", "data", "prelude.em")
	writeFile(t, own, "// prelude")
	m := exe + ".runfiles_manifest"
	writeFile(t, m, preludeID+" "+own+"\n")
	if r, err = New(Options{Executable: exe, Getenv: noEnv}); err != nil || r.Source() != m {
		t.Fatalf("New = %v, %v; want the anchor manifest", r, err)
	}
}

func TestMissingCandidateNamesPath(t *testing.T) {
	dir := t.TempDir()
	_, err := Locate(preludeID, Options{Dir: dir, Getenv: noEnv})
	if !failure.Is(err, failure.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
	want := filepath.Join(dir, "ember", "data", "prelude.em")
	if !strings.Contains(err.Error(), want) {
		t.Fatalf("error %q does not name %s", err, want)
	}
}

func TestIdentifierCannotEscape(t *testing.T) {
	dir := t.TempDir()
	r, err := New(Options{Dir: dir, Getenv: noEnv})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, id := range []string{"", "../outside.em", "/etc/passwd"} {
		if _, err := r.Rlocation(id); !failure.Is(err, failure.NotFound) {
			t.Fatalf("Rlocation(%q) err = %v, want NotFound", id, err)
		}
	}
}

func TestInstallCreatesUsableTree(t *testing.T) {
	dir := t.TempDir()
	p, err := Install(dir, preludeID, []byte("// prelude"))
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	got, err := Locate(preludeID, Options{Dir: dir, Getenv: noEnv})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if got != p {
		t.Fatalf("Locate = %s, Install wrote %s", got, p)
	}
}
