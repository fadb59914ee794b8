package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ember/internal/desc"
	"ember/internal/render"
)

const testdataDir = "../../testdata/corpus"

func sample() *desc.Program {
	return &desc.Program{Decls: []desc.Decl{
		desc.Global("Limit", desc.I32Type, desc.I32(10)),
		desc.Func("Main", desc.I32Type, nil,
			desc.Local("i", desc.I32Type, desc.I32(0)),
			desc.Loop(desc.Bin("<", desc.Name("i"), desc.Name("Limit")),
				desc.Set("i", desc.Bin("+", desc.Name("i"), desc.I32(1))),
				desc.Cond(desc.Bin("==", desc.Name("i"), desc.I32(5)), []desc.Stmt{{Break: true}}, nil),
			),
			desc.Eval(desc.CallOf("Print", desc.Str("done \"quoted\"\n"))),
			desc.Ret(desc.Neg(desc.Name("i"))),
		),
	}}
}

func TestRoundTripPreservesRendering(t *testing.T) {
	want := render.Source(sample(), true)
	for _, format := range []Format{FormatTOML, FormatYAML, FormatMsgpack} {
		data, err := Encode(format, sample())
		if err != nil {
			t.Fatalf("%s encode: %v", format, err)
		}
		got, err := Decode(format, data)
		if err != nil {
			t.Fatalf("%s decode: %v\n%s", format, err, data)
		}
		if src := render.Source(got, true); src != want {
			t.Fatalf("%s round trip changed the program:\n%s\nwant:\n%s", format, src, want)
		}
	}
}

func TestSaveLoadAtomic(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.toml", "nested/b.yaml", "c.mp"} {
		p := filepath.Join(dir, name)
		if err := Save(p, sample()); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
		got, err := Load(p)
		if err != nil {
			t.Fatalf("Load %s: %v", name, err)
		}
		if !reflect.DeepEqual(render.Source(got, false), render.Source(sample(), false)) {
			t.Fatalf("%s: loaded program differs", name)
		}
	}
	// no temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Fatalf("stray file %s", e.Name())
		}
	}
}

func TestListSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"z.yaml", "a.toml", "sub/m.mp", "README.md", "sub/x.yml"} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	got, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.toml"),
		filepath.Join(dir, "sub", "m.mp"),
		filepath.Join(dir, "sub", "x.yml"),
		filepath.Join(dir, "z.yaml"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}

	single, err := List(filepath.Join(dir, "a.toml"))
	if err != nil || len(single) != 1 {
		t.Fatalf("List(file) = %v, %v", single, err)
	}
	if _, err := List(filepath.Join(dir, "README.md")); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("List(README.md) err = %v, want ErrUnknownFormat", err)
	}
}

func TestUnknownFormat(t *testing.T) {
	if _, err := FormatOf("entry.json"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Decode("json", nil); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("err = %v", err)
	}
}

func TestYAMLRejectsUnknownFields(t *testing.T) {
	if _, err := Decode(FormatYAML, []byte("decls:\n  - funktion: {name: Main}\n")); err == nil {
		t.Fatalf("typo in field name accepted")
	}
	p, err := Decode(FormatYAML, nil)
	if err != nil || len(p.Decls) != 0 {
		t.Fatalf("empty document = %+v, %v", p, err)
	}
}

func TestRepositoryCorpusLoads(t *testing.T) {
	paths, err := List(testdataDir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no entries in %s", testdataDir)
	}
	for _, p := range paths {
		if _, err := Load(p); err != nil {
			t.Fatalf("%v", err)
		}
	}
}
