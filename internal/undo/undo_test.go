package undo

import (
	"errors"
	"testing"
)

// counterEdit is a reversible edit against a shared counter.
type counterEdit struct {
	target *int
	delta  int
}

func (e *counterEdit) Apply() error {
	*e.target += e.delta
	return nil
}

func (e *counterEdit) Revert() error {
	*e.target -= e.delta
	return nil
}

type failingEdit struct{ err error }

func (e *failingEdit) Apply() error  { return e.err }
func (e *failingEdit) Revert() error { return e.err }

// flakyRevert refuses its first fails reverts, then behaves.
type flakyRevert struct{ fails int }

func (e *flakyRevert) Apply() error { return nil }
func (e *flakyRevert) Revert() error {
	if e.fails > 0 {
		e.fails--
		return errors.New("revert refused")
	}
	return nil
}

func TestRecordNeedsOpenScope(t *testing.T) {
	m := NewManager(0)
	n := 0
	if err := m.Record(&counterEdit{&n, 1}); !errors.Is(err, ErrNoOpenScope) {
		t.Errorf("Record with no scope: %v, want ErrNoOpenScope", err)
	}
	if err := m.Execute(&counterEdit{&n, 1}); !errors.Is(err, ErrNoOpenScope) {
		t.Errorf("Execute with no scope: %v, want ErrNoOpenScope", err)
	}
	if n != 0 {
		t.Error("Execute without scope must not apply")
	}
}

func TestStackDiscipline(t *testing.T) {
	m := NewManager(0)

	h1 := m.Enter(Meta{Type: "outer"}, false)
	h2 := m.Enter(Meta{Type: "inner"}, true)

	if err := m.Exit(h1); !errors.Is(err, ErrScopeMismatch) {
		t.Fatalf("closing outer while inner open: %v, want ErrScopeMismatch", err)
	}
	if err := m.Exit(h2); err != nil {
		t.Fatalf("closing inner: %v", err)
	}
	if err := m.Exit(h1); err != nil {
		t.Fatalf("closing outer: %v", err)
	}
	if err := m.Exit(h1); !errors.Is(err, ErrNoOpenScope) {
		t.Errorf("closing twice: %v, want ErrNoOpenScope", err)
	}
}

func TestPartitionedScopeSeparateSteps(t *testing.T) {
	m := NewManager(0)
	n := 0

	h := m.Enter(Meta{Type: "external"}, true)
	for i := 0; i < 3; i++ {
		if err := m.Execute(&counterEdit{&n, 1}); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Exit(h); err != nil {
		t.Fatal(err)
	}

	if n != 3 {
		t.Fatalf("n = %d after three edits", n)
	}
	if m.UndoCount() != 3 {
		t.Fatalf("UndoCount = %d, want 3", m.UndoCount())
	}

	// Three undos needed to revert all three.
	for want := 2; want >= 0; want-- {
		if err := m.Undo(); err != nil {
			t.Fatal(err)
		}
		if n != want {
			t.Errorf("after undo, n = %d, want %d", n, want)
		}
	}
	if err := m.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("exhausted undo: %v, want ErrNothingToUndo", err)
	}
}

func TestCollapsedScopeSingleStep(t *testing.T) {
	m := NewManager(0)
	n := 0

	h := m.Enter(Meta{Type: "paste"}, false)
	for i := 0; i < 3; i++ {
		if err := m.Execute(&counterEdit{&n, 1}); err != nil {
			t.Fatal(err)
		}
	}
	if m.UndoCount() != 0 {
		t.Fatal("unpartitioned scope must not publish steps before close")
	}
	if err := m.Exit(h); err != nil {
		t.Fatal(err)
	}

	if m.UndoCount() != 1 {
		t.Fatalf("UndoCount = %d, want 1", m.UndoCount())
	}
	// One undo reverts all three atomically.
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("after single undo, n = %d, want 0", n)
	}
}

func TestNestedCollapsedInsidePartitioned(t *testing.T) {
	m := NewManager(0)
	n := 0

	root := m.Enter(Meta{Type: "external"}, true)

	// A paste-like gesture: several edits, one step.
	err := m.Transaction(Meta{Type: "paste"}, false, func() error {
		_ = m.Execute(&counterEdit{&n, 1})
		_ = m.Execute(&counterEdit{&n, 10})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	// An independent single edit: its own step.
	if err := m.Execute(&counterEdit{&n, 100}); err != nil {
		t.Fatal(err)
	}

	if m.UndoCount() != 2 {
		t.Fatalf("UndoCount = %d, want 2", m.UndoCount())
	}

	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if n != 11 {
		t.Errorf("after undoing single edit, n = %d, want 11", n)
	}
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("after undoing paste step, n = %d, want 0", n)
	}

	if err := m.Exit(root); err != nil {
		t.Fatal(err)
	}
}

func TestRedo(t *testing.T) {
	m := NewManager(0)
	n := 0

	h := m.Enter(Meta{Type: "external"}, true)
	_ = m.Execute(&counterEdit{&n, 5})
	_ = m.Exit(h)

	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if n != 0 || !m.CanRedo() {
		t.Fatalf("undo state wrong: n=%d canRedo=%v", n, m.CanRedo())
	}
	if err := m.Redo(); err != nil {
		t.Fatal(err)
	}
	if n != 5 || m.CanRedo() {
		t.Errorf("redo state wrong: n=%d canRedo=%v", n, m.CanRedo())
	}
	if err := m.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("exhausted redo: %v, want ErrNothingToRedo", err)
	}
}

func TestUndoRevertFailureRollsForward(t *testing.T) {
	m := NewManager(0)
	n := 0

	h := m.Enter(Meta{Type: "typing"}, false)
	_ = m.Execute(&counterEdit{&n, 1})
	_ = m.Execute(&flakyRevert{fails: 1})
	_ = m.Execute(&counterEdit{&n, 10})
	if err := m.Exit(h); err != nil {
		t.Fatal(err)
	}

	// The middle edit refuses the first revert; the already-reverted
	// tail must be reapplied so the step still matches the document.
	if err := m.Undo(); err == nil {
		t.Fatal("Undo with a refusing edit succeeded")
	}
	if n != 11 {
		t.Fatalf("n = %d after failed undo, want 11", n)
	}
	if got := m.UndoCount(); got != 1 {
		t.Fatalf("UndoCount = %d after failed undo, want 1", got)
	}

	// A retry now reverts the whole step.
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if n != 0 || m.UndoCount() != 0 || !m.CanRedo() {
		t.Errorf("retry state wrong: n=%d undo=%d canRedo=%v", n, m.UndoCount(), m.CanRedo())
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	m := NewManager(0)
	n := 0

	h := m.Enter(Meta{Type: "external"}, true)
	_ = m.Execute(&counterEdit{&n, 1})
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	_ = m.Execute(&counterEdit{&n, 2})
	if m.CanRedo() {
		t.Error("recording a new edit must clear the redo stack")
	}
	_ = m.Exit(h)
}

func TestTransactionCancelOnError(t *testing.T) {
	m := NewManager(0)
	n := 0
	boom := errors.New("boom")

	err := m.Transaction(Meta{Type: "paste"}, false, func() error {
		_ = m.Execute(&counterEdit{&n, 1})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction error = %v", err)
	}
	if m.UndoCount() != 0 {
		t.Error("cancelled transaction must not publish a step")
	}
	if m.Depth() != 0 {
		t.Error("cancelled transaction must close its scope")
	}
}

func TestExecuteFailureNotRecorded(t *testing.T) {
	m := NewManager(0)
	boom := errors.New("apply failed")

	h := m.Enter(Meta{Type: "external"}, true)
	if err := m.Execute(&failingEdit{boom}); !errors.Is(err, boom) {
		t.Fatalf("Execute = %v, want wrapped apply error", err)
	}
	if m.UndoCount() != 0 {
		t.Error("failed edit must not be recorded")
	}
	_ = m.Exit(h)
}

func TestMaxDepthTrimsOldest(t *testing.T) {
	m := NewManager(2)
	n := 0

	h := m.Enter(Meta{Type: "external"}, true)
	for i := 0; i < 5; i++ {
		_ = m.Execute(&counterEdit{&n, 1})
	}
	_ = m.Exit(h)

	if m.UndoCount() != 2 {
		t.Errorf("UndoCount = %d, want trimmed 2", m.UndoCount())
	}
}
