// Package corpus stores program descriptions on disk.
//
// Three encodings are supported, chosen by file extension: TOML and YAML for
// hand-written entries, msgpack (.mp) for fuzzer-generated ones.
package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"ember/internal/desc"
)

type Format string

const (
	FormatTOML    Format = "toml"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

var ErrUnknownFormat = errors.New("unknown corpus format")

// FormatOf picks the encoding from path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".mp", ".msgpack":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

func Decode(format Format, data []byte) (*desc.Program, error) {
	var p desc.Program
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &p); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			// an empty document is an empty program
			if errors.Is(err, io.EOF) {
				return &p, nil
			}
			return nil, err
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &p, nil
}

func Encode(format Format, p *desc.Program) ([]byte, error) {
	if p == nil {
		p = &desc.Program{}
	}
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return nil, err
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(p); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	case FormatMsgpack:
		enc := msgpack.NewEncoder(&buf)
		enc.SetOmitEmpty(true)
		if err := enc.Encode(p); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return buf.Bytes(), nil
}

// Load reads one entry.
func Load(path string) (*desc.Program, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- corpus paths are supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Decode(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p atomically: a temp file in the target directory, then rename.
func Save(path string, p *desc.Program) (err error) {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(format, p)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// List returns the corpus entries under root, sorted. A root that is itself
// an entry is returned alone.
func List(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if _, err := FormatOf(root); err != nil {
			return nil, err
		}
		return []string{root}, nil
	}
	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if _, ferr := FormatOf(path); ferr == nil {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
