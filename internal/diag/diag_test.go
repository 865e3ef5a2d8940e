package diag

import (
	"testing"

	"evergreen/internal/source"
)

func TestBagLimitCountsDropped(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 5; i++ {
		b.Add(New(SevInfo, PrsRecognitionGap, source.Span{Start: uint32(i)}, "gap"))
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if b.Dropped() != 3 {
		t.Fatalf("Dropped = %d, want 3", b.Dropped())
	}
	if b.HasErrors() {
		t.Fatalf("HasErrors = true for info-only bag")
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(10)
	r := NewDedupReporter(NewBagReporter(b))
	sp := source.Span{File: 1, Start: 4, End: 8}
	r.Report(TrnUnitMissing, SevInfo, sp, "nzzz not found", nil)
	r.Report(TrnUnitMissing, SevInfo, sp, "nzzz not found", nil)
	r.Report(TrnUnitMissing, SevInfo, sp, "nyyy not found", nil)
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
	if got := b.Count(TrnUnitMissing); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
}

func TestSortPutsErrorsFirstAtSameSpan(t *testing.T) {
	b := NewBag(10)
	sp := source.Span{File: 0, Start: 10, End: 12}
	b.Add(New(SevInfo, PrsRecognitionGap, sp, "gap"))
	b.Add(NewError(IRMalformedInteger, sp, "bad"))
	b.Add(New(SevInfo, PrsRecognitionGap, source.Span{Start: 1}, "early"))
	b.Sort()
	items := b.Items()
	if items[0].Message != "early" || items[1].Severity != SevError {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{PrsRecognitionGap, "PRS1001"},
		{IRMalformedInteger, "IR3001"},
		{TrnUnknownLocalType, "TRN4001"},
		{MrgMarkerCardinality, "MRG5002"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
