package api

import (
	"github.com/gin-gonic/gin"

	"github.com/dhyhn5012/tccb/internal/calculator"
	"github.com/dhyhn5012/tccb/internal/model"
)

// RosterResponse is the (optionally filtered) roster of the session.
type RosterResponse struct {
	Filename   string              `json:"filename"`
	Department string              `json:"department,omitempty"`
	Columns    []model.ShiftColumn `json:"columns"`
	Records    []model.ShiftRecord `json:"records"`
	Warnings   []string            `json:"warnings"`
}

// GetRoster returns the roster rows.
// GET /api/roster?department=
func (h *Handler) GetRoster(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}

	department := c.Query("department")
	filtered := sess.Roster.FilterDepartment(department)
	success(c, RosterResponse{
		Filename:   sess.Filename,
		Department: department,
		Columns:    filtered.Columns,
		Records:    filtered.Records,
		Warnings:   sess.Warnings,
	})
}

// GetDepartments lists departments in first-seen order.
// GET /api/roster/departments
func (h *Handler) GetDepartments(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	success(c, sess.Roster.Departments())
}

// GetStats returns the full statistics report.
// GET /api/roster/stats?department=
func (h *Handler) GetStats(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	success(c, calculator.NewCalculator(sess.Roster).Analyze(c.Query("department")))
}

// ClearRoster drops the caller's session.
// DELETE /api/roster
func (h *Handler) ClearRoster(c *gin.Context) {
	if id := sessionID(c); id != "" {
		if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
			h.errorResponse(c, err, nil)
			return
		}
	}
	success(c, nil)
}
