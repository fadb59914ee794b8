// Package diagfmt renders diagnostics for terminals.
package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths as they were given to the FileSet.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	ShowNotes bool
	// TabWidth expands tabs in source excerpts; 0 means 4.
	TabWidth int
}
