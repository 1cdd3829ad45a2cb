package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dkoval85/rdm/internal/models"
)

// openTestDB returns a throwaway database backed by a temp file.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// seedSection creates project -> block -> section and returns the section.
func seedSection(t *testing.T, database *DB) *models.Section {
	t.Helper()
	project, err := database.CreateProject("Roadmap", "")
	if err != nil {
		t.Fatal(err)
	}
	block, err := database.CreateBlock(project.ID, "Phase 1")
	if err != nil {
		t.Fatal(err)
	}
	section, err := database.CreateSection(block.ID, "Backend")
	if err != nil {
		t.Fatal(err)
	}
	return section
}

func TestCreateTaskAppendsSortOrder(t *testing.T) {
	database := openTestDB(t)
	section := seedSection(t, database)

	for i, title := range []string{"a", "b", "c"} {
		task, err := database.CreateTask(section.ID, title, models.PriorityNone)
		if err != nil {
			t.Fatal(err)
		}
		if task.SortOrder != i+1 {
			t.Errorf("%s: sort order = %d, want %d", title, task.SortOrder, i+1)
		}
		if task.UUID == "" {
			t.Errorf("%s: missing uuid", title)
		}
	}
}

func TestMoveTaskIsTransactional(t *testing.T) {
	database := openTestDB(t)
	source := seedSection(t, database)

	block, err := database.GetBlock(source.BlockID)
	if err != nil {
		t.Fatal(err)
	}
	target, err := database.CreateSection(block.ID, "Frontend")
	if err != nil {
		t.Fatal(err)
	}

	task, err := database.CreateTask(source.ID, "migrate schema", models.PriorityHigh)
	if err != nil {
		t.Fatal(err)
	}
	sub, err := database.CreateSubtask(task.ID, "write migration")
	if err != nil {
		t.Fatal(err)
	}

	if err := database.MoveTask(task.ID, target.ID, 1); err != nil {
		t.Fatal(err)
	}

	moved, err := database.GetTask(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if moved.SectionID != target.ID || moved.SortOrder != 1 {
		t.Errorf("moved task = section %d order %d, want section %d order 1", moved.SectionID, moved.SortOrder, target.ID)
	}

	// Subtasks follow their parent.
	movedSub, err := database.GetTask(sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if movedSub.SectionID != target.ID {
		t.Errorf("subtask section = %d, want %d", movedSub.SectionID, target.ID)
	}
}

func TestMoveTaskUnknownID(t *testing.T) {
	database := openTestDB(t)
	section := seedSection(t, database)

	if err := database.MoveTask(9999, section.ID, 1); err == nil {
		t.Error("moving an unknown task did not fail")
	}
}

func TestReorderTasks(t *testing.T) {
	database := openTestDB(t)
	section := seedSection(t, database)

	var ids []int64
	for _, title := range []string{"a", "b", "c"} {
		task, err := database.CreateTask(section.ID, title, models.PriorityNone)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, task.ID)
	}

	// Reverse the visual order.
	if err := database.ReorderTasks(section.ID, []int64{ids[2], ids[1], ids[0]}); err != nil {
		t.Fatal(err)
	}

	tasks, err := database.ListTasks(section.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len = %d, want 3", len(tasks))
	}
	wantTitles := []string{"c", "b", "a"}
	for i, task := range tasks {
		if task.Title != wantTitles[i] {
			t.Errorf("tasks[%d] = %q, want %q", i, task.Title, wantTitles[i])
		}
		if task.SortOrder != i+1 {
			t.Errorf("tasks[%d] sort order = %d, want %d", i, task.SortOrder, i+1)
		}
	}
}

func TestMoveSection(t *testing.T) {
	database := openTestDB(t)
	section := seedSection(t, database)

	block, err := database.GetBlock(section.BlockID)
	if err != nil {
		t.Fatal(err)
	}
	other, err := database.CreateBlock(block.ProjectID, "Phase 2")
	if err != nil {
		t.Fatal(err)
	}

	if err := database.MoveSection(section.ID, other.ID, 1); err != nil {
		t.Fatal(err)
	}

	moved, err := database.GetSection(section.ID)
	if err != nil {
		t.Fatal(err)
	}
	if moved.BlockID != other.ID || moved.SortOrder != 1 {
		t.Errorf("moved section = block %d order %d, want block %d order 1", moved.BlockID, moved.SortOrder, other.ID)
	}
}

func TestCommentCounts(t *testing.T) {
	database := openTestDB(t)
	section := seedSection(t, database)

	task, err := database.CreateTask(section.ID, "design review", models.PriorityNone)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := database.CreateComment(task.ID, "looks good"); err != nil {
		t.Fatal(err)
	}
	if _, err := database.CreateComment(task.ID, "one more thing"); err != nil {
		t.Fatal(err)
	}

	total, unread, err := database.CommentCounts(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || unread != 2 {
		t.Errorf("counts = (%d, %d), want (2, 2)", total, unread)
	}

	if err := database.MarkTaskViewed(task.ID); err != nil {
		t.Fatal(err)
	}
	// CURRENT_TIMESTAMP has second resolution; make sure the next
	// comment lands after viewed_at.
	time.Sleep(1100 * time.Millisecond)
	if _, err := database.CreateComment(task.ID, "late addition"); err != nil {
		t.Fatal(err)
	}

	total, unread, err = database.CommentCounts(task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || unread != 1 {
		t.Errorf("counts = (%d, %d), want (3, 1)", total, unread)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	database := openTestDB(t)
	section := seedSection(t, database)

	task, err := database.CreateTask(section.ID, "doomed", models.PriorityNone)
	if err != nil {
		t.Fatal(err)
	}

	block, err := database.GetBlock(section.BlockID)
	if err != nil {
		t.Fatal(err)
	}
	if err := database.DeleteProject(block.ProjectID); err != nil {
		t.Fatal(err)
	}

	if _, err := database.GetTask(task.ID); err == nil {
		t.Error("task survived project deletion")
	}
}
