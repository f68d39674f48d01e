package store

import (
	"fmt"

	"github.com/dhyhn5012/tccb/internal/model"
)

// SaveRequest inserts a support request and fills its id and timestamp.
func (s *Store) SaveRequest(r *model.SupportRequest) error {
	r.SentAt = s.now().UTC()
	res, err := s.db.Exec(`INSERT INTO requests (content, sent_at) VALUES (?, ?)`, r.Content, r.SentAt)
	if err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get request id: %w", err)
	}
	r.ID = id
	return nil
}

// CountRequests returns the number of stored support requests.
func (s *Store) CountRequests() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM requests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count requests failed: %w", err)
	}
	return n, nil
}
