package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dhyhn5012/tccb/internal/apperror"
	"github.com/dhyhn5012/tccb/internal/model"
	"github.com/dhyhn5012/tccb/internal/profile"
)

// EmployeeRequest is the profile form payload.
type EmployeeRequest struct {
	FullName   string `json:"fullName"`
	Age        int    `json:"age"`
	Department string `json:"department"`
	Title      string `json:"title"`
	Status     string `json:"status"`
}

// SupportRequestPayload is the support form payload.
type SupportRequestPayload struct {
	Content string `json:"content"`
}

var errBadJSON = apperror.New(apperror.CodeInvalidInput, "Dữ liệu gửi lên không hợp lệ", http.StatusBadRequest)

// GetOptions returns the selectable form values.
// GET /api/employees/options
func (h *Handler) GetOptions(c *gin.Context) {
	success(c, profile.AllOptions())
}

// CreateEmployee stores a profile submission.
// POST /api/employees
func (h *Handler) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, errBadJSON, nil)
		return
	}

	p := &model.EmployeeProfile{
		FullName:   req.FullName,
		Age:        req.Age,
		Department: req.Department,
		Title:      req.Title,
		Status:     req.Status,
	}
	if err := h.profiles.Submit(p); err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	success(c, p)
}

// ListEmployees returns every stored profile.
// GET /api/employees
func (h *Handler) ListEmployees(c *gin.Context) {
	list, err := h.profiles.List()
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	success(c, list)
}

// EmployeeStats returns the dashboard statistics.
// GET /api/employees/stats
func (h *Handler) EmployeeStats(c *gin.Context) {
	st, err := h.profiles.Stats()
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	success(c, st)
}

// CreateRequest stores a support request.
// POST /api/requests
func (h *Handler) CreateRequest(c *gin.Context) {
	var req SupportRequestPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, errBadJSON, nil)
		return
	}

	r := &model.SupportRequest{Content: req.Content}
	if err := h.profiles.SubmitRequest(r); err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	success(c, r)
}
