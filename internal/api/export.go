package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/dhyhn5012/tccb/internal/calculator"
	"github.com/dhyhn5012/tccb/internal/exporter"
)

// ExportRoster downloads the roster and statistics as xlsx.
// GET /api/roster/export?department=
func (h *Handler) ExportRoster(c *gin.Context) {
	sess, err := h.currentSession(c)
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}

	department := c.Query("department")
	roster := sess.Roster.FilterDepartment(department)
	report := calculator.NewCalculator(roster).Analyze(department)

	f, err := h.exporter.ExportRoster(roster, report, nil)
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	h.sendWorkbook(c, f, exporter.RosterFilename(department, h.now()))
}

// ExportEmployees downloads every profile submission.
// GET /api/employees/export
func (h *Handler) ExportEmployees(c *gin.Context) {
	list, err := h.profiles.List()
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}

	f, err := h.exporter.ExportProfiles(list)
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	h.sendWorkbook(c, f, exporter.ProfileFilename(h.now()))
}

func (h *Handler) sendWorkbook(c *gin.Context, f *excelize.File, filename string) {
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	c.Header("Content-Disposition", contentDisposition(filename))
	c.Data(http.StatusOK, exporter.ContentTypeXLSX, buf.Bytes())
}
