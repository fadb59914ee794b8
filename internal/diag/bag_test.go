package diag

import (
	"testing"

	"ember/internal/source"
)

func TestBagCapAndFirstError(t *testing.T) {
	bag := NewBag(2)
	r := BagReporter{Bag: bag}

	r.Report(SemaInfo, SevInfo, source.Span{Start: 1, End: 2}, "note", nil)
	Errorf(r, SemaUnresolvedSymbol, source.Span{Start: 5, End: 8}, "undefined name `%s`", "foo")
	Errorf(r, SemaTypeMismatch, source.Span{Start: 9, End: 10}, "dropped")

	if bag.Len() != 2 || !bag.Full() {
		t.Fatalf("bag len = %d, full = %v", bag.Len(), bag.Full())
	}
	d, ok := bag.FirstError()
	if !ok || d.Code != SemaUnresolvedSymbol || d.Message != "undefined name `foo`" {
		t.Fatalf("FirstError = %+v, %v", d, ok)
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SynUnexpectedToken, source.Span{Start: 10, End: 12}, "c"))
	bag.Add(NewError(SynUnexpectedToken, source.Span{Start: 3, End: 4}, "a"))
	bag.Add(NewError(SynUnexpectedToken, source.Span{Start: 3, End: 8}, "b"))

	bag.Sort()

	items := bag.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(items))
	}
	if items[0].Message != "a" || items[1].Message != "b" || items[2].Message != "c" {
		t.Fatalf("unexpected order: %q, %q, %q", items[0].Message, items[1].Message, items[2].Message)
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, SemaDuplicateSymbol, source.Span{}, "redeclaration of `x`").
		WithNote(source.Span{Start: 1, End: 2}, "previous declaration here")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	if len(bag.Items()[0].Notes) != 1 {
		t.Fatalf("note lost")
	}
}

func TestCodeID(t *testing.T) {
	if got := LexUnknownChar.ID(); got != "LEX1001" {
		t.Fatalf("LexUnknownChar.ID() = %q", got)
	}
	if got := SemaMissingReturn.String(); got != "SEM3010" {
		t.Fatalf("SemaMissingReturn.String() = %q", got)
	}
	if SemaMissingReturn.Title() != "Missing return" {
		t.Fatalf("unexpected title %q", SemaMissingReturn.Title())
	}
}
