package strtable_test

import (
	"testing"

	"github.com/halvarsson/sdoc/internal/strtable"
)

func TestWriterInternAssignsMonotonicIDs(t *testing.T) {
	w := strtable.NewWriter()

	if _, ok := w.Lookup("hello"); ok {
		t.Fatalf("Lookup on empty table should miss")
	}

	id := w.Intern("hello")
	if id != 0 {
		t.Fatalf("first Intern id = %d, want 0", id)
	}

	gotID, ok := w.Lookup("hello")
	if !ok || gotID != 0 {
		t.Fatalf("Lookup(hello) = (%d, %v), want (0, true)", gotID, ok)
	}

	id2 := w.Intern("world")
	if id2 != 1 {
		t.Fatalf("second Intern id = %d, want 1", id2)
	}

	if w.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", w.Len())
	}
}

func TestReaderDefineThenLookup(t *testing.T) {
	r := strtable.NewReader()
	r.Define(0, "hello")
	r.Define(1, "world")

	s, err := r.Lookup(0)
	if err != nil || s != "hello" {
		t.Fatalf("Lookup(0) = (%q, %v), want (hello, nil)", s, err)
	}
	s, err = r.Lookup(1)
	if err != nil || s != "world" {
		t.Fatalf("Lookup(1) = (%q, %v), want (world, nil)", s, err)
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
}

func TestReaderLookupUnknownID(t *testing.T) {
	r := strtable.NewReader()
	r.Define(0, "hello")

	if _, err := r.Lookup(1); err == nil {
		t.Fatalf("Lookup(1) on a table with only id 0 defined should fail")
	}
	if _, err := r.Lookup(-1); err == nil {
		t.Fatalf("Lookup(-1) should fail")
	}
}
