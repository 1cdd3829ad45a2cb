package db

import (
	"github.com/dkoval85/rdm/internal/models"
)

const projectColumns = `id, title, description, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateProject creates an empty roadmap and returns it.
func (db *DB) CreateProject(title, description string) (*models.Project, error) {
	result, err := db.Exec(`
		INSERT INTO projects (title, description) VALUES (?, ?)
	`, title, description)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return db.GetProject(id)
}

// GetProject retrieves a roadmap by id.
func (db *DB) GetProject(id int64) (*models.Project, error) {
	p, err := scanProject(db.QueryRow(
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns all roadmaps, most recently touched first.
func (db *DB) ListProjects() ([]models.Project, error) {
	rows, err := db.Query(
		`SELECT ` + projectColumns + ` FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject renames a roadmap and refreshes its description.
func (db *DB) UpdateProject(id int64, title, description string) error {
	_, err := db.Exec(`
		UPDATE projects SET title = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, title, description, id)
	return err
}

// DeleteProject removes a roadmap; its blocks, sections, tasks and
// discussions cascade away with it.
func (db *DB) DeleteProject(id int64) error {
	_, err := db.Exec("DELETE FROM projects WHERE id = ?", id)
	return err
}

// ProjectCount returns the number of roadmaps in the database.
func (db *DB) ProjectCount() (int, error) {
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count)
	return count, err
}
