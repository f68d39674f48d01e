package store

import (
	"fmt"

	"github.com/dhyhn5012/tccb/internal/model"
)

// SaveEmployee inserts a profile submission and fills its id and timestamp.
func (s *Store) SaveEmployee(p *model.EmployeeProfile) error {
	p.UpdatedAt = s.now().UTC()
	res, err := s.db.Exec(`
		INSERT INTO employees (full_name, age, department, title, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.FullName, p.Age, p.Department, p.Title, p.Status, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get employee id: %w", err)
	}
	p.ID = id
	return nil
}

// ListEmployees returns every submission in insertion order.
func (s *Store) ListEmployees() ([]model.EmployeeProfile, error) {
	rows, err := s.db.Query(`
		SELECT id, full_name, age, department, title, status, updated_at
		FROM employees
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query employees failed: %w", err)
	}
	defer rows.Close()

	out := []model.EmployeeProfile{}
	for rows.Next() {
		var p model.EmployeeProfile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Age, &p.Department, &p.Title, &p.Status, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employee failed: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees failed: %w", err)
	}
	return out, nil
}
