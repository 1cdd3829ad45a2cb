package db

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dkoval85/rdm/internal/models"
	"github.com/dkoval85/rdm/internal/order"
)

// CreateSection creates a new section at the end of the block
func (db *DB) CreateSection(blockID int64, title string) (*models.Section, error) {
	result, err := db.Exec(`
		INSERT INTO sections (block_id, uuid, title, sort_order)
		VALUES (?, ?, ?,
			(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM sections WHERE block_id = ?))
	`, blockID, uuid.New().String(), title, blockID)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetSection(id)
}

// GetSection retrieves a section by ID
func (db *DB) GetSection(id int64) (*models.Section, error) {
	s := &models.Section{}
	err := db.QueryRow(`
		SELECT id, block_id, uuid, title, sort_order, created_at, updated_at
		FROM sections WHERE id = ?
	`, id).Scan(&s.ID, &s.BlockID, &s.UUID, &s.Title, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListSections returns all sections of a block in sort order
func (db *DB) ListSections(blockID int64) ([]models.Section, error) {
	rows, err := db.Query(`
		SELECT id, block_id, uuid, title, sort_order, created_at, updated_at
		FROM sections
		WHERE block_id = ?
		ORDER BY sort_order ASC, id ASC
	`, blockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.BlockID, &s.UUID, &s.Title, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// UpdateSection updates a section's title
func (db *DB) UpdateSection(id int64, title string) error {
	_, err := db.Exec(`
		UPDATE sections SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, title, id)
	return err
}

// DeleteSection deletes a section; its tasks cascade
func (db *DB) DeleteSection(id int64) error {
	_, err := db.Exec("DELETE FROM sections WHERE id = ?", id)
	return err
}

// MoveSection assigns a section its new block and sort order in one
// transaction, so no reader can observe the parent and the position
// disagreeing.
func (db *DB) MoveSection(sectionID, newBlockID int64, newSortOrder int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE sections SET block_id = ?, sort_order = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, newBlockID, newSortOrder, sectionID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("section not found: %d", sectionID)
	}

	return tx.Commit()
}

// ReorderSections rewrites the sort orders of a block's sections to
// match the given id order (1..N).
func (db *DB) ReorderSections(blockID int64, orderedIDs []int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orders := order.Renumber(len(orderedIDs))
	for i, id := range orderedIDs {
		if _, err := tx.Exec(`
			UPDATE sections SET sort_order = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND block_id = ?
		`, orders[i], id, blockID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
