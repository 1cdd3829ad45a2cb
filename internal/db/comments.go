package db

import (
	"github.com/dkoval85/rdm/internal/models"
)

// CreateComment creates a new comment on a task
func (db *DB) CreateComment(taskID int64, content string) (*models.Comment, error) {
	result, err := db.Exec(`
		INSERT INTO comments (task_id, content) VALUES (?, ?)
	`, taskID, content)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetComment(id)
}

// GetComment retrieves a comment by ID
func (db *DB) GetComment(id int64) (*models.Comment, error) {
	c := &models.Comment{}
	err := db.QueryRow(`
		SELECT id, task_id, content, created_at
		FROM comments WHERE id = ?
	`, id).Scan(&c.ID, &c.TaskID, &c.Content, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListComments retrieves all comments of a task, oldest first
func (db *DB) ListComments(taskID int64) ([]models.Comment, error) {
	rows, err := db.Query(`
		SELECT id, task_id, content, created_at
		FROM comments
		WHERE task_id = ?
		ORDER BY created_at ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// CommentCounts returns the total and unread comment counts of a task.
// A comment is unread when it was created after the task was last
// viewed; with no viewed_at every comment is unread.
func (db *DB) CommentCounts(taskID int64) (total, unread int, err error) {
	err = db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(CASE WHEN t.viewed_at IS NULL OR c.created_at > t.viewed_at THEN 1 END)
		FROM comments c
		JOIN tasks t ON t.id = c.task_id
		WHERE c.task_id = ?
	`, taskID).Scan(&total, &unread)
	return total, unread, err
}

// DeleteComment deletes a comment
func (db *DB) DeleteComment(id int64) error {
	_, err := db.Exec("DELETE FROM comments WHERE id = ?", id)
	return err
}
