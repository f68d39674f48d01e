package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dhyhn5012/tccb/internal/model"
	"github.com/dhyhn5012/tccb/internal/parser"
)

// Import log statuses.
const (
	ImportProcessing = "processing"
	ImportCompleted  = "completed"
	ImportFailed     = "failed"
)

// CreateImportLog records the start of an upload and returns its id.
func (s *Store) CreateImportLog(filename string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (filename, file_size, file_hash, status, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, filename, fileSize, fileHash, ImportProcessing, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog stores the report totals and final status.
func (s *Store) FinishImportLog(id int64, report *parser.ImportReport, status, errorMessage string) error {
	if report == nil {
		report = &parser.ImportReport{}
	}
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			format = ?,
			total_sheets = ?,
			imported_sheets = ?,
			skipped_sheets = ?,
			imported_rows = ?,
			filtered_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, report.Format, report.TotalSheets, report.ImportedSheets, report.SkippedSheets,
		report.ImportedRows, report.FilteredRows, status, errorMessage, s.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs returns the most recent uploads first.
func (s *Store) ListImportLogs(limit int) ([]model.ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, filename, file_size, file_hash, format, total_sheets, imported_sheets,
			skipped_sheets, imported_rows, status, error_message, started_at, completed_at
		FROM import_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import logs failed: %w", err)
	}
	defer rows.Close()

	out := []model.ImportLog{}
	for rows.Next() {
		var (
			it        model.ImportLog
			completed sql.NullTime
		)
		if err := rows.Scan(&it.ID, &it.Filename, &it.FileSize, &it.FileHash, &it.Format,
			&it.TotalSheets, &it.ImportedSheets, &it.SkippedSheets, &it.ImportedRows,
			&it.Status, &it.ErrorMessage, &it.StartedAt, &completed); err != nil {
			return nil, fmt.Errorf("scan import log failed: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			it.CompletedAt = &t
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import logs failed: %w", err)
	}
	return out, nil
}

// LastImportTime returns the completion time of the latest successful upload.
func (s *Store) LastImportTime() (*time.Time, error) {
	var t sql.NullTime
	err := s.db.QueryRow(`
		SELECT completed_at FROM import_logs
		WHERE status = ? AND completed_at IS NOT NULL
		ORDER BY id DESC
		LIMIT 1
	`, ImportCompleted).Scan(&t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last import failed: %w", err)
	}
	if !t.Valid {
		return nil, nil
	}
	return &t.Time, nil
}
