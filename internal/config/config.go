// Package config loads ember.toml, the optional per-directory settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

const FileName = "ember.toml"

type Config struct {
	Path string `toml:"-"` // empty when no file was found
	Root string `toml:"-"`

	Runfiles RunfilesConfig `toml:"runfiles"`
	Fuzz     FuzzConfig     `toml:"fuzz"`
	Log      LogConfig      `toml:"log"`
}

type RunfilesConfig struct {
	// Relative paths are resolved against the directory holding ember.toml.
	Dir      string `toml:"dir"`
	Manifest string `toml:"manifest"`
}

type FuzzConfig struct {
	Prelude      string `toml:"prelude"` // logical runfiles id
	MaxCallDepth int    `toml:"max_call_depth"`
	MaxSteps     int64  `toml:"max_steps"`
	Jobs         int    `toml:"jobs"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default is the configuration used when no ember.toml exists.
func Default() *Config {
	return &Config{
		Fuzz: FuzzConfig{Jobs: 1},
		Log:  LogConfig{Level: "info"},
	}
}

// Find walks upward from startDir looking for ember.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads ember.toml above startDir, falling back to
// Default when there is none.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Load decodes and validates path. Unknown keys are errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)

	if meta.IsDefined("runfiles", "dir") && meta.IsDefined("runfiles", "manifest") {
		return nil, fmt.Errorf("%s: [runfiles] sets both dir and manifest", path)
	}
	cfg.Runfiles.Dir = cfg.resolve(cfg.Runfiles.Dir)
	cfg.Runfiles.Manifest = cfg.resolve(cfg.Runfiles.Manifest)

	if meta.IsDefined("fuzz", "prelude") && strings.TrimSpace(cfg.Fuzz.Prelude) == "" {
		return nil, fmt.Errorf("%s: [fuzz].prelude is empty", path)
	}
	if cfg.Fuzz.MaxCallDepth < 0 {
		return nil, fmt.Errorf("%s: [fuzz].max_call_depth must not be negative", path)
	}
	if cfg.Fuzz.MaxSteps < 0 {
		return nil, fmt.Errorf("%s: [fuzz].max_steps must not be negative", path)
	}
	if meta.IsDefined("fuzz", "jobs") && cfg.Fuzz.Jobs < 1 {
		return nil, fmt.Errorf("%s: [fuzz].jobs must be at least 1", path)
	}
	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("%s: [log].level: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}
