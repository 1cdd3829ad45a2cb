package order

import (
	"testing"

	"github.com/dkoval85/rdm/internal/models"
)

func task(id, sectionID int64, sortOrder int) models.Task {
	return models.Task{ID: id, SectionID: sectionID, SortOrder: sortOrder}
}

func section(id, blockID int64, sortOrder int) models.Section {
	return models.Section{ID: id, BlockID: blockID, SortOrder: sortOrder}
}

func TestComputeTaskMove(t *testing.T) {
	a := task(1, 10, 1)
	b := task(2, 10, 2)
	c := task(3, 10, 3)
	other := task(4, 20, 1)
	targetSection := section(20, 100, 1)

	tests := []struct {
		name    string
		dragged models.Task
		target  DropTarget
		want    TaskMove
		wantOK  bool
	}{
		{
			name:    "drop on later sibling inserts at its order",
			dragged: a,
			target:  DropTarget{Task: &c},
			want:    TaskMove{SectionID: 10, SortOrder: 3},
			wantOK:  true,
		},
		{
			name:    "drop on earlier sibling inserts at its order",
			dragged: c,
			target:  DropTarget{Task: &a},
			want:    TaskMove{SectionID: 10, SortOrder: 1},
			wantOK:  true,
		},
		{
			name:    "drop on task in another section reparents",
			dragged: b,
			target:  DropTarget{Task: &other},
			want:    TaskMove{SectionID: 20, SortOrder: 1},
			wantOK:  true,
		},
		{
			name:    "drop on section header appends",
			dragged: a,
			target:  DropTarget{Section: &targetSection, SectionTaskCount: 4},
			want:    TaskMove{SectionID: 20, SortOrder: 5},
			wantOK:  true,
		},
		{
			name:    "drop on itself is a no-op",
			dragged: b,
			target:  DropTarget{Task: &b},
			wantOK:  false,
		},
		{
			name:    "drop resolving to current position is a no-op",
			dragged: task(5, 20, 5),
			target:  DropTarget{Section: &targetSection, SectionTaskCount: 4},
			wantOK:  false,
		},
		{
			name:    "unrecognized target is a no-op",
			dragged: a,
			target:  DropTarget{},
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeTaskMove(tt.dragged, tt.target)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("move = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeTaskMoveAppendIgnoresPriorPosition(t *testing.T) {
	// Append lands after the last task no matter where the dragged
	// task came from.
	target := section(20, 100, 1)
	for _, prior := range []int{1, 2, 9} {
		dragged := task(1, 10, prior)
		got, ok := ComputeTaskMove(dragged, DropTarget{Section: &target, SectionTaskCount: 2})
		if !ok {
			t.Fatalf("prior order %d: expected a move", prior)
		}
		if got.SortOrder != 3 {
			t.Errorf("prior order %d: sort order = %d, want 3", prior, got.SortOrder)
		}
	}
}

func TestComputeSectionMove(t *testing.T) {
	s1 := section(1, 10, 1)
	s2 := section(2, 10, 2)
	otherBlock := models.Block{ID: 20, ProjectID: 1, Number: 2}

	tests := []struct {
		name    string
		dragged models.Section
		target  SectionDropTarget
		want    SectionMove
		wantOK  bool
	}{
		{
			name:    "drop on sibling section",
			dragged: s1,
			target:  SectionDropTarget{Section: &s2},
			want:    SectionMove{BlockID: 10, SortOrder: 2},
			wantOK:  true,
		},
		{
			name:    "drop on block header appends",
			dragged: s1,
			target:  SectionDropTarget{Block: &otherBlock, BlockSectionCount: 3},
			want:    SectionMove{BlockID: 20, SortOrder: 4},
			wantOK:  true,
		},
		{
			name:    "drop on itself is a no-op",
			dragged: s2,
			target:  SectionDropTarget{Section: &s2},
			wantOK:  false,
		},
		{
			name:    "unrecognized target is a no-op",
			dragged: s1,
			target:  SectionDropTarget{},
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeSectionMove(tt.dragged, tt.target)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("move = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRenumber(t *testing.T) {
	got := Renumber(4)
	want := []int{1, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("orders[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if out := Renumber(0); len(out) != 0 {
		t.Errorf("Renumber(0) = %v, want empty", out)
	}
}

func TestTaskIDs(t *testing.T) {
	tasks := []models.Task{task(3, 1, 1), task(1, 1, 2), task(2, 1, 3)}
	ids := TaskIDs(tasks)
	want := []int64{3, 1, 2}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}
