package filter

import (
	"testing"

	"github.com/dkoval85/rdm/internal/models"
)

func taggedTask(id int64, status models.Status, tags ...models.Tag) models.Task {
	return models.Task{ID: id, Status: status, Tags: tags}
}

var (
	tagDesign  = models.Tag{ID: 1, Name: "design", Color: "#bb9af7"}
	tagBackend = models.Tag{ID: 2, Name: "backend", Color: "#7aa2f7"}
	tagUrgent  = models.Tag{ID: 3, Name: "urgent", Color: "#f7768e"}
)

func TestTasksAllWithNoTagFilterReturnsInput(t *testing.T) {
	tasks := []models.Task{
		taggedTask(1, models.StatusNotStarted, tagDesign),
		taggedTask(2, models.StatusInProgress),
		taggedTask(3, models.StatusCompleted, tagBackend, tagUrgent),
	}

	got := Tasks(tasks, NewState(), nil)
	if len(got) != len(tasks) {
		t.Fatalf("len = %d, want %d", len(got), len(tasks))
	}
	for i := range tasks {
		if got[i].ID != tasks[i].ID {
			t.Errorf("order changed at %d: got id %d, want %d", i, got[i].ID, tasks[i].ID)
		}
	}
}

func TestTasksStatusFilter(t *testing.T) {
	tasks := []models.Task{
		taggedTask(1, models.StatusNotStarted),
		taggedTask(2, models.StatusInProgress),
		taggedTask(3, models.StatusCompleted),
	}

	tests := []struct {
		filter  Filter
		wantIDs []int64
	}{
		{FilterNotStarted, []int64{1}},
		{FilterInProgress, []int64{2}},
		{FilterCompleted, []int64{3}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			state := NewState()
			state.Active = tt.filter
			got := Tasks(tasks, state, nil)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestTasksOverdueIsBlockLevel(t *testing.T) {
	inProgress := taggedTask(1, models.StatusInProgress)
	completed := taggedTask(2, models.StatusCompleted)
	notStarted := taggedTask(3, models.StatusNotStarted)

	state := NewState()
	state.Active = FilterOverdue

	// Every task's parent block is past its deadline.
	allOverdue := func(models.Task) bool { return true }

	got := Tasks([]models.Task{inProgress, completed, notStarted}, state, allOverdue)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, task := range got {
		if task.Status == models.StatusCompleted {
			t.Error("completed task passed the overdue filter")
		}
	}

	// No block overdue: nothing passes, regardless of task deadlines.
	if got := Tasks([]models.Task{inProgress, notStarted}, state, nil); len(got) != 0 {
		t.Errorf("len = %d, want 0 with no overdue blocks", len(got))
	}
}

func TestTasksTagFilter(t *testing.T) {
	both := taggedTask(1, models.StatusNotStarted, tagDesign, tagBackend)
	designOnly := taggedTask(2, models.StatusNotStarted, tagDesign)
	bare := taggedTask(3, models.StatusNotStarted)
	tasks := []models.Task{both, designOnly, bare}

	tests := []struct {
		name     string
		selected []int64
		mode     TagMode
		wantIDs  []int64
	}{
		{"no selection passes everything", nil, TagAny, []int64{1, 2, 3}},
		{"any mode", []int64{tagBackend.ID}, TagAny, []int64{1}},
		{"any mode multiple", []int64{tagDesign.ID, tagBackend.ID}, TagAny, []int64{1, 2}},
		{"all mode", []int64{tagDesign.ID, tagBackend.ID}, TagAll, []int64{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewState()
			state.TagMode = tt.mode
			for _, id := range tt.selected {
				state.SelectedTags[id] = true
			}
			got := Tasks(tasks, state, nil)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestCount(t *testing.T) {
	tasks := []models.Task{
		taggedTask(1, models.StatusNotStarted),
		taggedTask(2, models.StatusNotStarted),
		taggedTask(3, models.StatusInProgress),
		taggedTask(4, models.StatusCompleted),
	}

	overdue := func(t models.Task) bool { return t.ID >= 3 }
	c := Count(tasks, overdue)

	if c.All != len(tasks) {
		t.Errorf("All = %d, want %d", c.All, len(tasks))
	}
	if sum := c.NotStarted + c.InProgress + c.Completed; sum != len(tasks) {
		t.Errorf("status buckets sum to %d, want %d", sum, len(tasks))
	}
	if c.NotStarted != 2 || c.InProgress != 1 || c.Completed != 1 {
		t.Errorf("buckets = %+v", c)
	}
	// Task 3 is overdue and not completed; task 4 is overdue but completed.
	if c.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", c.Overdue)
	}
}

func TestCountEmpty(t *testing.T) {
	c := Count(nil, nil)
	if c != (Counts{}) {
		t.Errorf("Count(nil) = %+v, want zero", c)
	}
}

func TestParseGroupBy(t *testing.T) {
	cases := map[string]GroupBy{
		"tag":      GroupByTag,
		"status":   GroupByStatus,
		"priority": GroupByPrio,
		"none":     GroupNone,
		"bogus":    GroupNone,
		"":         GroupNone,
	}
	for in, want := range cases {
		if got := ParseGroupBy(in); got != want {
			t.Errorf("ParseGroupBy(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTagModeNext(t *testing.T) {
	cases := map[TagMode]TagMode{
		TagAny:        TagAll,
		TagAll:        TagAny,
		TagMode("??"): TagAny,
	}
	for in, want := range cases {
		if got := in.Next(); got != want {
			t.Errorf("%q.Next() = %q, want %q", in, got, want)
		}
	}
}
