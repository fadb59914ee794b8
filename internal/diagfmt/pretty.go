package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ember/internal/diag"
	"ember/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <sev> <CODE>: <message>
//	   3 | return x +;
//	     |          ^
//
// followed by notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = 4
	}
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			location(fs, d.Primary, opts.PathMode),
			pal.severity(d.Severity).Sprint(d.Severity.String()),
			pal.code.Sprint(d.Code.ID()),
			d.Message)
		excerpt(w, fs, d.Primary, pal, opts)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "%s: %s: %s\n", location(fs, n.Span, opts.PathMode), pal.note.Sprint("note"), n.Msg)
			excerpt(w, fs, n.Span, pal, opts)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) string {
	f := fs.Get(sp.File)
	if f == nil {
		return "<no-span>"
	}
	start, _ := fs.Resolve(sp)
	path := f.Path
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil && f.Flags&source.FileVirtual == 0 {
			path = abs
		}
	case PathModeBasename:
		path = f.BaseName()
	}
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// excerpt prints the first line of sp with a caret run under the span.
func excerpt(w io.Writer, fs *source.FileSet, sp source.Span, pal palette, opts PrettyOpts) {
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	line := f.GetLine(start.Line)
	if start.Line == 0 {
		return
	}

	col := min(int(start.Col)-1, len(line))
	stop := len(line)
	if end.Line == start.Line {
		stop = min(int(end.Col)-1, len(line))
	}
	stop = max(stop, col)

	tab := strings.Repeat(" ", opts.TabWidth)
	before := strings.ReplaceAll(line[:col], "\t", tab)
	marked := strings.ReplaceAll(line[col:stop], "\t", tab)
	shown := strings.ReplaceAll(line, "\t", tab)

	num := strconv.FormatUint(uint64(start.Line), 10)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(w, " %s %s %s\n", pal.gutter.Sprint(num), pal.gutter.Sprint("|"), shown)

	carets := max(runewidth.StringWidth(marked), 1)
	fmt.Fprintf(w, " %s %s %s%s\n", pad, pal.gutter.Sprint("|"),
		strings.Repeat(" ", runewidth.StringWidth(before)),
		pal.caret.Sprint(strings.Repeat("^", carets)))
}
