// Package session keeps the last imported roster of each client.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dhyhn5012/tccb/internal/model"
	"github.com/dhyhn5012/tccb/internal/parser"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is one client's current roster. A new upload replaces it wholesale.
type Session struct {
	ID         string               `json:"id"`
	Filename   string               `json:"filename"`
	Format     string               `json:"format"`
	UploadedAt time.Time            `json:"uploadedAt"`
	Roster     *model.Roster        `json:"roster"`
	Report     *parser.ImportReport `json:"report"`
	Warnings   []string             `json:"warnings"`
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

// Store persists sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
