package history

import (
	"testing"

	"github.com/winhop/winhop/internal/winapi"
)

func record(r *Ring, hs ...winapi.Handle) {
	for _, h := range hs {
		r.Record(h)
	}
}

func TestPrevWalksBackThroughActivations(t *testing.T) {
	r := New(10)
	record(r, 1, 2, 3)

	h, ok := r.Prev()
	if !ok || h != 2 {
		t.Fatalf("first prev = %d/%v, want 2", h, ok)
	}
	r.Record(h)

	h, ok = r.Prev()
	if !ok || h != 1 {
		t.Fatalf("second prev = %d/%v, want 1", h, ok)
	}
}

func TestPrevWrapsAtOldest(t *testing.T) {
	r := New(10)
	record(r, 1, 2, 3)

	r.Prev() // 2
	r.Prev() // 1
	h, ok := r.Prev()
	if !ok || h != 3 {
		t.Fatalf("wrapped prev = %d/%v, want 3", h, ok)
	}
}

func TestNextReversesPrev(t *testing.T) {
	r := New(10)
	record(r, 1, 2, 3)

	r.Prev() // cursor on 2
	h, ok := r.Next()
	if !ok || h != 3 {
		t.Fatalf("next = %d/%v, want 3", h, ok)
	}
}

func TestJumpActivationDoesNotReorder(t *testing.T) {
	r := New(10)
	record(r, 1, 2, 3)

	h, _ := r.Prev()
	r.Record(h) // the foreground event the jump itself caused

	if got := r.Snapshot(); len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("history after jump = %v, want [1 2 3]", got)
	}
}

func TestOrganicActivationResetsCursor(t *testing.T) {
	r := New(10)
	record(r, 1, 2, 3)

	r.Prev()    // cursor on 2, expects 2
	r.Record(4) // user switched somewhere else instead

	h, ok := r.Prev()
	if !ok || h != 3 {
		t.Fatalf("prev after organic activation = %d/%v, want 3", h, ok)
	}
	if got := r.Snapshot(); got[len(got)-1] != 4 {
		t.Fatalf("newest = %d, want 4", got[len(got)-1])
	}
}

func TestReactivationMovesEntryToFront(t *testing.T) {
	r := New(10)
	record(r, 1, 2, 3, 1)

	if got := r.Snapshot(); len(got) != 3 || got[2] != 1 {
		t.Fatalf("history = %v, want [2 3 1]", got)
	}
}

func TestDepthBoundsHistory(t *testing.T) {
	r := New(3)
	record(r, 1, 2, 3, 4, 5)

	got := r.Snapshot()
	if len(got) != 3 || got[0] != 3 || got[2] != 5 {
		t.Fatalf("history = %v, want [3 4 5]", got)
	}
}

func TestPruneDropsDeadWindows(t *testing.T) {
	r := New(10)
	record(r, 1, 2, 3)

	r.Prune(func(h winapi.Handle) bool { return h != 2 })

	if got := r.Snapshot(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("history after prune = %v, want [1 3]", got)
	}

	h, ok := r.Prev()
	if !ok || h != 1 {
		t.Fatalf("prev after prune = %d/%v, want 1", h, ok)
	}
}

func TestSingleEntryHasNoJumpTarget(t *testing.T) {
	r := New(10)
	record(r, 1)

	if _, ok := r.Prev(); ok {
		t.Fatal("prev with one entry should report nothing to jump to")
	}
	if _, ok := r.Next(); ok {
		t.Fatal("next with one entry should report nothing to jump to")
	}
}

func TestZeroHandleIgnored(t *testing.T) {
	r := New(10)
	record(r, 0, 1, 0)

	if got := r.Snapshot(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("history = %v, want [1]", got)
	}
}
