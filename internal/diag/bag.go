package diag

import "sort"

type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag that keeps at most max diagnostics (0 means unlimited).
func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 16)),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Returns false when the bag is full.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// Full reports whether the cap has been reached.
func (b *Bag) Full() bool {
	return b.max > 0 && len(b.items) >= b.max
}

// HasErrors reports whether any diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// Do not modify: it aliases the bag's storage.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// FirstError returns the first error-level diagnostic in bag order.
func (b *Bag) FirstError() (Diagnostic, bool) {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return d, true
		}
	}
	return Diagnostic{}, false
}

// Merge appends diagnostics from other, growing the cap if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	if b.max > 0 && len(b.items)+len(other.items) > b.max {
		b.max = len(b.items) + len(other.items)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders by file, start, end, severity (desc) and code
// for a stable, deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
