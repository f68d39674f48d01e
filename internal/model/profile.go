package model

import "time"

// EmployeeProfile is one submission of the profile-update form.
type EmployeeProfile struct {
	ID         int64     `json:"id"`
	FullName   string    `json:"fullName" validate:"required,max=200"`
	Age        int       `json:"age" validate:"required,min=18,max=70"`
	Department string    `json:"department" validate:"required"`
	Title      string    `json:"title" validate:"required"`
	Status     string    `json:"status" validate:"required"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SupportRequest is a free-text help request.
type SupportRequest struct {
	ID      int64     `json:"id"`
	Content string    `json:"content" validate:"required,max=4000"`
	SentAt  time.Time `json:"sentAt"`
}

// ImportLog is one roster upload recorded in the import_logs table.
type ImportLog struct {
	ID             int64      `json:"id"`
	Filename       string     `json:"filename"`
	FileSize       int64      `json:"fileSize"`
	FileHash       string     `json:"fileHash"`
	Format         string     `json:"format"`
	TotalSheets    int        `json:"totalSheets"`
	ImportedSheets int        `json:"importedSheets"`
	SkippedSheets  int        `json:"skippedSheets"`
	ImportedRows   int        `json:"importedRows"`
	Status         string     `json:"status"`
	ErrorMessage   string     `json:"errorMessage,omitempty"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}
