// Package runfiles maps logical resource identifiers to files shipped next
// to the running executable. Resolution is delegated to the Bazel runfiles
// library; this package picks where the context comes from and classifies
// failures.
//
// Discovery, first match wins:
//
//	Options.Manifest, Options.Dir
//	$EMBER_RUNFILES_MANIFEST, $EMBER_RUNFILES_DIR
//	<exe>.runfiles_manifest
//	<exe>.runfiles/MANIFEST
//	$RUNFILES_MANIFEST_FILE, $RUNFILES_DIR (bazel run / bazel test)
//	<exe>.runfiles/
//
// Manifests use the Bazel format: one "<id> <absolute path>" per line.
// The working directory never takes part in the lookup.
package runfiles

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	bazel "github.com/bazelbuild/rules_go/go/runfiles"

	"ember/internal/failure"
)

const (
	EnvDir      = "EMBER_RUNFILES_DIR"
	EnvManifest = "EMBER_RUNFILES_MANIFEST"
)

type Options struct {
	// Executable is the anchor; empty means the running binary.
	Executable string
	// Dir and Manifest take precedence over the environment and the anchor.
	Dir      string
	Manifest string
	// Getenv defaults to os.Getenv. It only reads the EMBER_ variables.
	Getenv func(string) string
}

// Runfiles is a resolution context.
type Runfiles struct {
	anchor string
	source string // manifest or directory the context was built from
	rf     *bazel.Runfiles
}

// Executable returns the absolute, symlink-free path of the running binary.
func Executable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return canonical(exe)
}

func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// New builds the resolution context. Every failure is a Configuration error.
func New(opts Options) (*Runfiles, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if opts.Manifest != "" {
		return fromManifest("", opts.Manifest)
	}
	if opts.Dir != "" {
		return fromDir("", opts.Dir)
	}
	if m := getenv(EnvManifest); m != "" {
		return fromManifest("", m)
	}
	if d := getenv(EnvDir); d != "" {
		return fromDir("", d)
	}

	anchor := opts.Executable
	var err error
	if anchor == "" {
		anchor, err = Executable()
	} else {
		anchor, err = canonical(anchor)
	}
	if err != nil {
		return nil, failure.Wrap(failure.Configuration, err, "cannot determine executable path")
	}

	// the library only looks for <exe>.runfiles_manifest and <exe>.runfiles/
	for _, m := range []string{anchor + ".runfiles_manifest", filepath.Join(anchor+".runfiles", "MANIFEST")} {
		if isFile(m) {
			return fromManifest(anchor, m)
		}
	}
	rf, err := bazel.New(bazel.ProgramName(anchor))
	if err != nil {
		e := failure.Wrap(failure.Configuration, err, "no runfiles found for %s (set %s or %s)", anchor, EnvDir, EnvManifest)
		e.Path = anchor + ".runfiles"
		return nil, e
	}
	return &Runfiles{anchor: anchor, source: sourceOf(rf), rf: rf}, nil
}

func fromDir(anchor, dir string) (*Runfiles, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, failure.Wrap(failure.Configuration, err, "runfiles directory %s", dir)
	}
	// bazel.Directory accepts any path; a missing tree is a setup error here
	if !isDir(abs) {
		e := failure.New(failure.Configuration, "runfiles directory %s does not exist", abs)
		e.Path = abs
		return nil, e
	}
	rf, err := bazel.New(bazel.Directory(abs))
	if err != nil {
		e := failure.Wrap(failure.Configuration, err, "runfiles directory %s", abs)
		e.Path = abs
		return nil, e
	}
	return &Runfiles{anchor: anchor, source: abs, rf: rf}, nil
}

func fromManifest(anchor, manifest string) (*Runfiles, error) {
	abs, err := filepath.Abs(manifest)
	if err != nil {
		return nil, failure.Wrap(failure.Configuration, err, "runfiles manifest %s", manifest)
	}
	rf, err := bazel.New(bazel.ManifestFile(abs))
	if err != nil {
		e := failure.Wrap(failure.Configuration, err, "cannot load runfiles manifest")
		e.Path = abs
		return nil, e
	}
	return &Runfiles{anchor: anchor, source: abs, rf: rf}, nil
}

// sourceOf reads back which manifest or directory the library settled on.
func sourceOf(rf *bazel.Runfiles) string {
	for _, kv := range rf.Env() {
		k, v, _ := strings.Cut(kv, "=")
		if k == "RUNFILES_MANIFEST_FILE" || k == "RUNFILES_DIR" {
			return v
		}
	}
	return ""
}

// Source is the manifest file or directory the context was built from.
func (r *Runfiles) Source() string { return r.source }

// Anchor is the executable path, empty when an override was used.
func (r *Runfiles) Anchor() string { return r.anchor }

// Rlocation maps id to its candidate absolute path without checking that
// the file exists. An id missing from a manifest is NotFound.
func (r *Runfiles) Rlocation(id string) (string, error) {
	clean, err := validID(id)
	if err != nil {
		return "", err
	}
	target, err := r.rf.Rlocation(clean)
	if err != nil {
		e := failure.Wrap(failure.NotFound, err, "%s is not listed in %s", clean, r.source)
		e.Path = clean
		return "", e
	}
	if !filepath.IsAbs(target) {
		e := failure.New(failure.Configuration, "%s maps %s to relative path %s", r.source, clean, target)
		e.Path = r.source
		return "", e
	}
	return target, nil
}

// Locate maps id and verifies that the result exists.
func (r *Runfiles) Locate(id string) (string, error) {
	candidate, err := r.Rlocation(id)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(candidate); err != nil {
		return "", failure.Missing(candidate)
	}
	return candidate, nil
}

// Locate resolves id to an absolute verified path in one call.
func Locate(id string, opts Options) (string, error) {
	r, err := New(opts)
	if err != nil {
		return "", err
	}
	return r.Locate(id)
}

func validID(id string) (string, error) {
	if id == "" {
		return "", failure.New(failure.NotFound, "empty runfile identifier")
	}
	clean := path.Clean(id)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		e := failure.New(failure.NotFound, "runfile identifier %q escapes the runfiles tree", id)
		e.Path = id
		return "", e
	}
	return clean, nil
}

func isFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
