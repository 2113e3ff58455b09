package sdoc

import "testing"

func TestLevelTrackerBeginRequiresActiveLevel(t *testing.T) {
	var lt levelTracker

	if !lt.active(0) {
		t.Fatalf("fresh tracker should be active at level 0")
	}

	if _, err := lt.begin(1); err != ErrScaffoldOutOfOrder {
		t.Fatalf("begin at wrong level: got %v, want ErrScaffoldOutOfOrder", err)
	}

	child, err := lt.begin(0)
	if err != nil {
		t.Fatalf("begin(0): %v", err)
	}
	if child != 1 {
		t.Fatalf("child level = %d, want 1", child)
	}
	if lt.active(0) {
		t.Fatalf("level 0 should no longer be active once a child is open")
	}
}

func TestLevelTrackerRetireImmediate(t *testing.T) {
	var lt levelTracker
	child, _ := lt.begin(0)
	if err := lt.retire(child); err != nil {
		t.Fatalf("retire(child): %v", err)
	}
	if !lt.active(0) {
		t.Fatalf("level 0 should be active again after its only child retires")
	}
}

// TestLevelTrackerDeferredRetire exercises the "register deferred retirement
// at scaffold-creation time, retire own level at last-child-or-Finish time"
// pattern: a scaffold at level 0 opens a grandchild at level 2 while its own
// retirement (registered when level 1 was entered) is still pending.
func TestLevelTrackerDeferredRetire(t *testing.T) {
	var lt levelTracker

	l1, err := lt.begin(0) // enter level 1
	if err != nil {
		t.Fatalf("begin(0): %v", err)
	}
	if l1 != 1 {
		t.Fatalf("l1 = %d, want 1", l1)
	}

	// Defer level 0's retirement now, the way enterSizedTuple/WriteSeq do
	// immediately after opening their first child's level.
	if err := lt.retire(0); err != nil {
		t.Fatalf("retire(0) while level 1 is open: %v", err)
	}
	if lt.closed() {
		t.Fatalf("document should not be closed while level 1 is still open")
	}

	l2, err := lt.begin(1)
	if err != nil {
		t.Fatalf("begin(1): %v", err)
	}

	// Level 1 hands out its last child, so its own retirement is deferred
	// too, the way SizedTupleWriter.WriteValue does on its final child.
	if err := lt.retire(l1); err != nil {
		t.Fatalf("retire(l1) while level 2 is open: %v", err)
	}

	// Retiring the grandchild cascades through level 1 and the deferred
	// level 0, closing the document.
	if err := lt.retire(l2); err != nil {
		t.Fatalf("retire(l2): %v", err)
	}
	if !lt.closed() {
		t.Fatalf("document should be closed once every deferred level cascades")
	}
}

func TestLevelTrackerRetireNotOpenIsMisuse(t *testing.T) {
	var lt levelTracker
	if err := lt.retire(5); err != ErrScaffoldOutOfOrder {
		t.Fatalf("retiring a level never opened: got %v, want ErrScaffoldOutOfOrder", err)
	}
}

func TestLevelTrackerClosed(t *testing.T) {
	var lt levelTracker
	if lt.closed() {
		t.Fatalf("fresh tracker must not report closed")
	}
	if err := lt.retire(0); err != nil {
		t.Fatalf("retire(0): %v", err)
	}
	if !lt.closed() {
		t.Fatalf("tracker should be closed once level 0 retires")
	}
}
