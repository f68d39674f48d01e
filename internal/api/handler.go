// Package api exposes the roster importer, statistics and profile forms
// over HTTP.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhyhn5012/tccb/internal/exporter"
	"github.com/dhyhn5012/tccb/internal/importer"
	"github.com/dhyhn5012/tccb/internal/model"
	"github.com/dhyhn5012/tccb/internal/profile"
	"github.com/dhyhn5012/tccb/internal/session"
)

// ImportLogReader lists recorded uploads. *store.Store implements it.
type ImportLogReader interface {
	ListImportLogs(limit int) ([]model.ImportLog, error)
	LastImportTime() (*time.Time, error)
}

// Deps are the collaborators of the handler. ImportLogs may be nil.
type Deps struct {
	Importer     *importer.Coordinator
	Sessions     session.Store
	ImportLogs   ImportLogReader
	Profiles     *profile.Service
	Exporter     *exporter.Exporter
	MaxUploadMB  int64
	SecureCookie bool
}

// Handler serves the /api routes.
type Handler struct {
	importer     *importer.Coordinator
	sessions     session.Store
	logs         ImportLogReader
	profiles     *profile.Service
	exporter     *exporter.Exporter
	maxUpload    int64
	maxUploadMB  int64
	secureCookie bool
	logger       *zap.Logger
	now          func() time.Time
}

// NewHandler creates the API handler.
func NewHandler(d Deps) *Handler {
	maxMB := d.MaxUploadMB
	if maxMB <= 0 {
		maxMB = 20
	}
	exp := d.Exporter
	if exp == nil {
		exp = exporter.NewExporter()
	}
	return &Handler{
		importer:     d.Importer,
		sessions:     d.Sessions,
		logs:         d.ImportLogs,
		profiles:     d.Profiles,
		exporter:     exp,
		maxUpload:    maxMB << 20,
		maxUploadMB:  maxMB,
		secureCookie: d.SecureCookie,
		logger:       zap.L().Named("api"),
		now:          time.Now,
	}
}

// RegisterRoutes mounts every route on router. uploadMiddleware runs in
// front of the upload endpoints only.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, uploadMiddleware ...gin.HandlerFunc) {
	router.GET("/status", h.GetStatus)

	// roster import
	upload := append(append([]gin.HandlerFunc{}, uploadMiddleware...), h.ImportRoster)
	router.POST("/roster/import", upload...)
	uploadStream := append(append([]gin.HandlerFunc{}, uploadMiddleware...), h.ImportRosterStream)
	router.POST("/roster/import/stream", uploadStream...)

	// roster queries
	router.GET("/roster", h.GetRoster)
	router.GET("/roster/departments", h.GetDepartments)
	router.GET("/roster/stats", h.GetStats)
	router.GET("/roster/export", h.ExportRoster)
	router.DELETE("/roster", h.ClearRoster)

	router.GET("/imports", h.ListImports)

	// profile form
	router.GET("/employees/options", h.GetOptions)
	router.POST("/employees", h.CreateEmployee)
	router.GET("/employees", h.ListEmployees)
	router.GET("/employees/stats", h.EmployeeStats)
	router.GET("/employees/export", h.ExportEmployees)
	router.POST("/requests", h.CreateRequest)
}
