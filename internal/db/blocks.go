package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/dkoval85/rdm/internal/models"
)

// CreateBlock creates a new block at the end of the project, taking
// the next display number and sort order.
func (db *DB) CreateBlock(projectID int64, title string) (*models.Block, error) {
	result, err := db.Exec(`
		INSERT INTO blocks (project_id, uuid, title, number, sort_order)
		VALUES (?, ?, ?,
			(SELECT COALESCE(MAX(number), 0) + 1 FROM blocks WHERE project_id = ?),
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM blocks WHERE project_id = ?))
	`, projectID, uuid.New().String(), title, projectID, projectID)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetBlock(id)
}

// GetBlock retrieves a block by ID
func (db *DB) GetBlock(id int64) (*models.Block, error) {
	b := &models.Block{}
	err := db.QueryRow(`
		SELECT id, project_id, uuid, title, number, deadline, sort_order, created_at, updated_at
		FROM blocks WHERE id = ?
	`, id).Scan(&b.ID, &b.ProjectID, &b.UUID, &b.Title, &b.Number, &b.Deadline, &b.SortOrder, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBlocks returns all blocks of a project in sort order
func (db *DB) ListBlocks(projectID int64) ([]models.Block, error) {
	rows, err := db.Query(`
		SELECT id, project_id, uuid, title, number, deadline, sort_order, created_at, updated_at
		FROM blocks
		WHERE project_id = ?
		ORDER BY sort_order ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []models.Block
	for rows.Next() {
		var b models.Block
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.UUID, &b.Title, &b.Number, &b.Deadline, &b.SortOrder, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}

// UpdateBlock updates a block's title
func (db *DB) UpdateBlock(id int64, title string) error {
	_, err := db.Exec(`
		UPDATE blocks SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, title, id)
	return err
}

// SetBlockDeadline sets or clears the block deadline. The deadline is
// what makes tasks under the block count as overdue.
func (db *DB) SetBlockDeadline(id int64, deadline *time.Time) error {
	_, err := db.Exec(`
		UPDATE blocks SET deadline = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, deadline, id)
	return err
}

// DeleteBlock deletes a block; its sections and tasks cascade
func (db *DB) DeleteBlock(id int64) error {
	_, err := db.Exec("DELETE FROM blocks WHERE id = ?", id)
	return err
}
