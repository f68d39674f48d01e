package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dhyhn5012/tccb/internal/session"
)

// Where clients carry their session ID.
const (
	SessionHeader = "X-Session-ID"
	SessionCookie = "tccb_session"
)

// sessionID returns the client's session ID, "" when none was sent.
func sessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); id != "" {
		return id
	}
	if id, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(id)
	}
	return ""
}

// ensureSessionID reuses the client's ID or issues a new one, and echoes it
// in the header and cookie.
func (h *Handler) ensureSessionID(c *gin.Context) string {
	id := sessionID(c)
	if id == "" {
		id = session.NewID()
	}
	c.Header(SessionHeader, id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, 0, "/", "", h.secureCookie, true)
	return id
}

// currentSession loads the caller's session.
func (h *Handler) currentSession(c *gin.Context) (*session.Session, error) {
	id := sessionID(c)
	if id == "" {
		return nil, session.ErrNotFound
	}
	return h.sessions.Get(c.Request.Context(), id)
}

// optionalSession is currentSession with ErrNotFound mapped to nil.
func (h *Handler) optionalSession(c *gin.Context) (*session.Session, error) {
	s, err := h.currentSession(c)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	return s, err
}
