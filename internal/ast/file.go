package ast

import (
	"ember/internal/source"
)

// File is one parsed source file: the program or the prelude.
type File struct {
	Source source.FileID
	Span   source.Span
	Items  []ItemID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(src source.FileID, sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Source: src,
		Span:   sp,
		Items:  make([]ItemID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
