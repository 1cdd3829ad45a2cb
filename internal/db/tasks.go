package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval85/rdm/internal/models"
	"github.com/dkoval85/rdm/internal/order"
)

// CreateTask creates a new task at the end of the section
func (db *DB) CreateTask(sectionID int64, title string, priority models.Priority) (*models.Task, error) {
	result, err := db.Exec(`
		INSERT INTO tasks (section_id, uuid, title, priority, sort_order)
		VALUES (?, ?, ?, ?,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM tasks WHERE section_id = ?))
	`, sectionID, uuid.New().String(), title, string(priority), sectionID)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTask(id)
}

// CreateSubtask creates a new task nested under a parent task, in the
// same section.
func (db *DB) CreateSubtask(parentTaskID int64, title string) (*models.Task, error) {
	parent, err := db.GetTask(parentTaskID)
	if err != nil {
		return nil, err
	}

	result, err := db.Exec(`
		INSERT INTO tasks (section_id, parent_task_id, uuid, title, sort_order)
		VALUES (?, ?, ?, ?,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM tasks WHERE parent_task_id = ?))
	`, parent.SectionID, parentTaskID, uuid.New().String(), title, parentTaskID)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTask(id)
}

const taskColumns = `id, section_id, parent_task_id, uuid, title, notes, status, priority, deadline, sort_order, created_at, updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (models.Task, error) {
	var t models.Task
	var status, priority string
	err := row.Scan(&t.ID, &t.SectionID, &t.ParentTaskID, &t.UUID, &t.Title, &t.Notes,
		&status, &priority, &t.Deadline, &t.SortOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	t.Status = models.ParseStatus(status)
	t.Priority = models.ParsePriority(priority)
	return t, nil
}

// GetTask retrieves a task by ID with its tags
func (db *DB) GetTask(id int64) (*models.Task, error) {
	row := db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}

	tags, err := db.ListTaskTags(id)
	if err != nil {
		return nil, err
	}
	t.Tags = tags

	return &t, nil
}

// ListTasks returns all top-level tasks of a section in sort order,
// with tags loaded.
func (db *DB) ListTasks(sectionID int64) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE section_id = ? AND parent_task_id IS NULL
		ORDER BY sort_order ASC, id ASC
	`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return db.attachTaskData(tasks)
}

// ListProjectTasks returns every task of a project, subtasks included,
// ordered by section and sort order. This is the flat collection the
// filter engine counts and groups.
func (db *DB) ListProjectTasks(projectID int64) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT t.id, t.section_id, t.parent_task_id, t.uuid, t.title, t.notes,
		       t.status, t.priority, t.deadline, t.sort_order, t.created_at, t.updated_at
		FROM tasks t
		JOIN sections s ON t.section_id = s.id
		JOIN blocks b ON s.block_id = b.id
		WHERE b.project_id = ?
		ORDER BY b.sort_order, s.sort_order, t.sort_order, t.id
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return db.attachTaskData(tasks)
}

// ListSubtasks returns the subtasks of a task in sort order
func (db *DB) ListSubtasks(parentTaskID int64) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT `+taskColumns+`
		FROM tasks
		WHERE parent_task_id = ?
		ORDER BY sort_order ASC, id ASC
	`, parentTaskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// attachTaskData loads tags and comment counters for each task
func (db *DB) attachTaskData(tasks []models.Task) ([]models.Task, error) {
	for i := range tasks {
		tags, err := db.ListTaskTags(tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Tags = tags

		total, unread, err := db.CommentCounts(tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].CommentCount = total
		tasks[i].UnreadComments = unread
	}
	return tasks, nil
}

// UpdateTask updates a task's editable fields
func (db *DB) UpdateTask(id int64, title, notes string, priority models.Priority, deadline *time.Time) error {
	_, err := db.Exec(`
		UPDATE tasks SET title = ?, notes = ?, priority = ?, deadline = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, title, notes, string(priority), deadline, id)
	return err
}

// SetTaskStatus sets a task's status
func (db *DB) SetTaskStatus(id int64, status models.Status) error {
	_, err := db.Exec(`
		UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, string(status), id)
	return err
}

// DeleteTask deletes a task; its subtasks and comments cascade
func (db *DB) DeleteTask(id int64) error {
	_, err := db.Exec("DELETE FROM tasks WHERE id = ?", id)
	return err
}

// MoveTask assigns a task its new section and sort order in one
// transaction. Subtasks follow their parent into the new section.
func (db *DB) MoveTask(taskID, newSectionID int64, newSortOrder int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE tasks SET section_id = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, newSectionID, newSortOrder, taskID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("task not found: %d", taskID)
	}

	if _, err := tx.Exec(`
		UPDATE tasks SET section_id = ? WHERE parent_task_id = ?
	`, newSectionID, taskID); err != nil {
		return err
	}

	return tx.Commit()
}

// ReorderTasks rewrites the sort orders of a section's tasks to match
// the given id order (1..N).
func (db *DB) ReorderTasks(sectionID int64, orderedIDs []int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orders := order.Renumber(len(orderedIDs))
	for i, id := range orderedIDs {
		if _, err := tx.Exec(`
			UPDATE tasks SET sort_order = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND section_id = ?
		`, orders[i], id, sectionID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// MarkTaskViewed records that the task's discussion has been read up
// to now; comments created after this moment count as unread.
func (db *DB) MarkTaskViewed(id int64) error {
	_, err := db.Exec(`
		UPDATE tasks SET viewed_at = CURRENT_TIMESTAMP WHERE id = ?
	`, id)
	return err
}
