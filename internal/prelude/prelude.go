// Package prelude attaches the standard prelude to a parsed unit.
package prelude

import (
	"ember/internal/ast"
	"ember/internal/failure"
	"ember/internal/parser"
	"ember/internal/source"
)

// Add parses the prelude at path into b and places its declarations ahead of
// unit's own. A prelude that fails to parse is a Syntax failure.
func Add(path string, b *ast.Builder, fs *source.FileSet, unit *ast.Unit) error {
	pu, bag, err := parser.ParseFile(b, fs, path)
	if err != nil {
		return failure.Wrap(failure.Configuration, err, "read prelude")
	}
	if bag.HasErrors() {
		fe := failure.FromBag(failure.Syntax, fs, bag)
		fe.Path = path
		return fe
	}
	unit.AddPrelude(pu.Decls)
	return nil
}
