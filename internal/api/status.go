package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusResponse describes the caller's session.
type StatusResponse struct {
	Initialized    bool       `json:"initialized"` // a roster is loaded
	Filename       string     `json:"filename,omitempty"`
	UploadedAt     *time.Time `json:"uploadedAt,omitempty"`
	Departments    int        `json:"departments"`
	Employees      int        `json:"employees"`
	Records        int        `json:"records"`
	Warnings       []string   `json:"warnings"`
	LastImportTime *time.Time `json:"lastImportTime,omitempty"` // any client
}

// GetStatus reports what is loaded.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{Warnings: []string{}}

	sess, err := h.optionalSession(c)
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	if sess != nil && sess.Roster != nil {
		uploaded := sess.UploadedAt
		resp.Initialized = !sess.Roster.Empty()
		resp.Filename = sess.Filename
		resp.UploadedAt = &uploaded
		resp.Departments = len(sess.Roster.Departments())
		resp.Records = len(sess.Roster.Records)
		resp.Employees = countEmployees(sess.Roster.Records)
		if sess.Warnings != nil {
			resp.Warnings = sess.Warnings
		}
	}

	if h.logs != nil {
		last, err := h.logs.LastImportTime()
		if err != nil {
			h.logger.Warn("read last import time", zap.Error(err))
		} else {
			resp.LastImportTime = last
		}
	}

	success(c, resp)
}

// ListImports returns recent uploads.
// GET /api/imports?limit=
func (h *Handler) ListImports(c *gin.Context) {
	if h.logs == nil {
		success(c, []interface{}{})
		return
	}
	limit := queryInt(c, "limit", 20)
	logs, err := h.logs.ListImportLogs(limit)
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	success(c, logs)
}
