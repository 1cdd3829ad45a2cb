package order

import "testing"

func TestGestureCommit(t *testing.T) {
	dragged := task(1, 10, 1)
	ref := task(3, 10, 3)

	g := StartTaskDrag(dragged)
	if g.State() != GestureDragging {
		t.Fatalf("state = %v, want dragging", g.State())
	}

	// Hovering over several targets keeps only the last one.
	mid := task(2, 10, 2)
	g.OverTask(DropTarget{Task: &mid})
	g.OverTask(DropTarget{Task: &ref})

	move, ok := g.DropTask()
	if !ok {
		t.Fatal("expected a committed move")
	}
	if move.SectionID != 10 || move.SortOrder != 3 {
		t.Errorf("move = %+v, want {10 3}", move)
	}
	if g.State() != GestureCommitted {
		t.Errorf("state = %v, want committed", g.State())
	}

	// A finished gesture cannot produce a second move.
	if _, ok := g.DropTask(); ok {
		t.Error("finished gesture produced a second move")
	}
}

func TestGestureDropWithoutTargetCancels(t *testing.T) {
	g := StartTaskDrag(task(1, 10, 1))
	if _, ok := g.DropTask(); ok {
		t.Error("drop with no target produced a move")
	}
	if g.State() != GestureCancelled {
		t.Errorf("state = %v, want cancelled", g.State())
	}
}

func TestGestureNoOpDropCommitsWithoutMove(t *testing.T) {
	dragged := task(2, 10, 2)
	g := StartTaskDrag(dragged)
	g.OverTask(DropTarget{Task: &dragged})

	if _, ok := g.DropTask(); ok {
		t.Error("no-op drop produced a move")
	}
	if g.State() != GestureCommitted {
		t.Errorf("state = %v, want committed", g.State())
	}
}

func TestGestureCancel(t *testing.T) {
	ref := task(3, 10, 3)
	g := StartTaskDrag(task(1, 10, 1))
	g.OverTask(DropTarget{Task: &ref})
	g.Cancel()

	if g.State() != GestureCancelled {
		t.Fatalf("state = %v, want cancelled", g.State())
	}
	if _, ok := g.DropTask(); ok {
		t.Error("cancelled gesture produced a move")
	}
}

func TestSectionGesture(t *testing.T) {
	dragged := section(1, 10, 1)
	ref := section(5, 20, 2)

	g := StartSectionDrag(dragged)
	g.OverSection(SectionDropTarget{Section: &ref})

	move, ok := g.DropSection()
	if !ok {
		t.Fatal("expected a committed move")
	}
	if move.BlockID != 20 || move.SortOrder != 2 {
		t.Errorf("move = %+v, want {20 2}", move)
	}
}

func TestGestureIgnoresMismatchedTargets(t *testing.T) {
	ref := section(5, 20, 2)
	g := StartTaskDrag(task(1, 10, 1))

	// Section targets are not valid for a task drag.
	g.OverSection(SectionDropTarget{Section: &ref})

	if _, ok := g.DropTask(); ok {
		t.Error("task drag committed from a section hover")
	}
	if g.State() != GestureCancelled {
		t.Errorf("state = %v, want cancelled", g.State())
	}
}
