package sdoc

import "github.com/halvarsson/sdoc/internal/strtable"

// stringReaderTable adapts strtable.Reader's generic ErrUnknownID into the
// package's own ErrInvalidStringRef, and lets the package's reader-side
// code drop a thin method name (lookup/define) distinct from the exported
// Reader type's method set.
type stringReaderTable struct {
	inner *strtable.Reader
}

func newStringReaderTable() *stringReaderTable {
	return &stringReaderTable{inner: strtable.NewReader()}
}

func (t *stringReaderTable) lookup(id int) (string, error) {
	s, err := t.inner.Lookup(id)
	if err != nil {
		return "", ErrInvalidStringRef
	}
	return s, nil
}

func (t *stringReaderTable) define(id int, s string) {
	t.inner.Define(id, s)
}
