// Package strtable implements the per-document string-interning table:
// a writer-side map from string content to a monotonic id, and a
// reader-side map from id back to an owned string, both keyed by
// first-occurrence order starting at 0.
package strtable

import "github.com/pkg/errors"

// ErrUnknownID is returned when a back-reference names an id that was
// never defined earlier in the same document.
var ErrUnknownID = errors.New("strtable: reference to undefined string id")

// Writer tracks strings already emitted into the current document and the
// id each was assigned.
type Writer struct {
	ids map[string]int
}

// NewWriter returns an empty writer-side string table.
func NewWriter() *Writer {
	return &Writer{ids: make(map[string]int)}
}

// Lookup reports the id previously assigned to s, if any.
func (w *Writer) Lookup(s string) (id int, ok bool) {
	id, ok = w.ids[s]
	return id, ok
}

// Intern assigns the next unused id to s and records it. Callers must only
// call this after Lookup reports a miss.
func (w *Writer) Intern(s string) int {
	id := len(w.ids)
	w.ids[s] = id
	return id
}

// Len reports how many strings have been interned so far.
func (w *Writer) Len() int {
	return len(w.ids)
}

// Reader maps ids back to the strings they were assigned to, in
// first-occurrence order.
type Reader struct {
	strings []string
	skipped map[int]bool
}

// NewReader returns an empty reader-side string table.
func NewReader() *Reader {
	return &Reader{}
}

// Define records a new string against the next id (must equal len(strings)
// for density invariant (a) to hold; the caller supplies the id it read off
// the wire so a corrupt document surfaces as ErrUnknownID on later lookup
// rather than silently desyncing the table).
func (r *Reader) Define(id int, s string) {
	if id != len(r.strings) {
		// A conforming writer never does this; pad so indices still line
		// up and let a later Lookup of the skipped ids fail loudly.
		for len(r.strings) < id {
			if r.skipped == nil {
				r.skipped = make(map[int]bool)
			}
			r.skipped[len(r.strings)] = true
			r.strings = append(r.strings, "")
		}
	}
	r.strings = append(r.strings, s)
}

// Lookup resolves a previously defined id to its string.
func (r *Reader) Lookup(id int) (string, error) {
	if id < 0 || id >= len(r.strings) || r.skipped[id] {
		return "", errors.Wrapf(ErrUnknownID, "id %d", id)
	}
	return r.strings[id], nil
}

// Len reports how many strings have been defined so far.
func (r *Reader) Len() int {
	return len(r.strings)
}
