package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	p := filepath.Join(dir, FileName)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestDiscoverWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
[runfiles]
dir = "bazel-bin/fuzzer.runfiles"

[fuzz]
max_call_depth = 256
max_steps = 100000
jobs = 4

[log]
level = "debug"
`)
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path == "" || filepath.Dir(cfg.Path) != cfg.Root {
		t.Fatalf("path/root = %q/%q", cfg.Path, cfg.Root)
	}
	if want := filepath.Join(cfg.Root, "bazel-bin", "fuzzer.runfiles"); cfg.Runfiles.Dir != want {
		t.Fatalf("runfiles dir = %s, want %s", cfg.Runfiles.Dir, want)
	}
	if cfg.Fuzz.MaxCallDepth != 256 || cfg.Fuzz.MaxSteps != 100000 || cfg.Fuzz.Jobs != 4 {
		t.Fatalf("fuzz = %+v", cfg.Fuzz)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
}

func TestDiscoverWithoutFileUsesDefaults(t *testing.T) {
	// TempDir lives under the system temp root, which has no ember.toml
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if cfg.Path != "" || cfg.Fuzz.Jobs != 1 || cfg.Log.Level != "info" {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestAbsolutePathsKept(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "MANIFEST")
	p := writeConfig(t, dir, "[runfiles]\nmanifest = \""+filepath.ToSlash(abs)+"\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Runfiles.Manifest != filepath.Clean(abs) {
		t.Fatalf("manifest = %s, want %s", cfg.Runfiles.Manifest, abs)
	}
}

func TestValidation(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "[fuzz]\njobz = 2\n",
		"bad toml":      "[fuzz\n",
		"zero jobs":     "[fuzz]\njobs = 0\n",
		"negative":      "[fuzz]\nmax_steps = -1\n",
		"empty prelude": "[fuzz]\nprelude = \" \"\n",
		"both runfiles": "[runfiles]\ndir = \"a\"\nmanifest = \"b\"\n",
		"bad level":     "[log]\nlevel = \"loud\"\n",
	}
	for name, body := range cases {
		p := writeConfig(t, t.TempDir(), body)
		if _, err := Load(p); err == nil {
			t.Fatalf("%s: expected an error", name)
		} else if !strings.Contains(err.Error(), FileName) {
			t.Fatalf("%s: error %q does not name the file", name, err)
		}
	}
}
