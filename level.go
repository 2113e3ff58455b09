package sdoc

// levelTracker implements the monotonic depth counter shared by a Writer or
// Reader instance and borrowed, mutably, by every scaffold it hands out
// (spec.md §3 Levels, §9 design notes). Scaffolds themselves carry only the
// level value they were created at and delegate the discipline check here —
// there is no lexical lifetime tracking to lean on, so the check is a
// runtime one.
//
// cur is signed so the top-level value (level 0) can retire to -1 ("the one
// value has been written, the document is closed") without wrapping.
type levelTracker struct {
	cur      int
	deferred map[int]bool
}

// begin opens a new, deeper scaffold. The caller must currently be active
// at `at` (cur == at); the new scaffold's level is returned.
func (t *levelTracker) begin(at int) (int, error) {
	if t.cur != at {
		return 0, ErrScaffoldOutOfOrder
	}
	t.cur++
	return t.cur, nil
}

// active reports whether `level` is the currently usable scaffold.
func (t *levelTracker) active(level int) bool {
	return t.cur == level
}

// retire finishes `level`. If a deeper scaffold is still open (cur > level)
// the retirement is deferred: it takes effect transparently the next time
// a decrement would otherwise drop below `level`. If level is already the
// active one, it retires immediately and cascades through any levels
// sitting in the deferred set below it.
func (t *levelTracker) retire(level int) error {
	switch {
	case t.cur == level:
		t.cur--
		for t.deferred[t.cur] {
			delete(t.deferred, t.cur)
			t.cur--
		}
		return nil

	case t.cur > level:
		if t.deferred == nil {
			t.deferred = make(map[int]bool)
		}
		t.deferred[level] = true
		return nil

	default: // t.cur < level: retiring something not open at all
		return ErrScaffoldOutOfOrder
	}
}

// closed reports whether the top-level value (level 0) has been fully
// written and the document may no longer be appended to.
func (t *levelTracker) closed() bool {
	return t.cur < 0
}
