package db

import (
	"github.com/dkoval85/rdm/internal/models"
)

// CreateTag creates a new tag
func (db *DB) CreateTag(name, color, kind string) (*models.Tag, error) {
	result, err := db.Exec("INSERT INTO tags (name, color, kind) VALUES (?, ?, ?)", name, color, kind)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetTag(id)
}

// GetTag retrieves a tag by ID
func (db *DB) GetTag(id int64) (*models.Tag, error) {
	t := &models.Tag{}
	err := db.QueryRow("SELECT id, name, color, kind, created_at FROM tags WHERE id = ?", id).
		Scan(&t.ID, &t.Name, &t.Color, &t.Kind, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByName retrieves a tag by its name (case-insensitive)
func (db *DB) GetTagByName(name string) (*models.Tag, error) {
	t := &models.Tag{}
	err := db.QueryRow("SELECT id, name, color, kind, created_at FROM tags WHERE LOWER(name) = LOWER(?)", name).
		Scan(&t.ID, &t.Name, &t.Color, &t.Kind, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags
func (db *DB) ListTags() ([]models.Tag, error) {
	rows, err := db.Query("SELECT id, name, color, kind, created_at FROM tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Kind, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// UpdateTag updates a tag
func (db *DB) UpdateTag(id int64, name, color, kind string) error {
	_, err := db.Exec("UPDATE tags SET name = ?, color = ?, kind = ? WHERE id = ?", name, color, kind, id)
	return err
}

// DeleteTag deletes a tag and its task associations
func (db *DB) DeleteTag(id int64) error {
	_, err := db.Exec("DELETE FROM tags WHERE id = ?", id)
	return err
}

// ListTaskTags returns all tags of a task
func (db *DB) ListTaskTags(taskID int64) ([]models.Tag, error) {
	rows, err := db.Query(`
		SELECT t.id, t.name, t.color, t.kind, t.created_at
		FROM tags t
		JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id = ?
		ORDER BY t.name
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Kind, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// AddTagToTask adds a tag to a task
func (db *DB) AddTagToTask(taskID, tagID int64) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)
	`, taskID, tagID)
	return err
}

// RemoveTagFromTask removes a tag from a task
func (db *DB) RemoveTagFromTask(taskID, tagID int64) error {
	_, err := db.Exec("DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?", taskID, tagID)
	return err
}
