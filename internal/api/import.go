package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhyhn5012/tccb/internal/apperror"
	"github.com/dhyhn5012/tccb/internal/importer"
	"github.com/dhyhn5012/tccb/internal/model"
	"github.com/dhyhn5012/tccb/internal/parser"
	"github.com/dhyhn5012/tccb/internal/session"
)

// EventResult is the last SSE event of a streamed import.
const EventResult = "result"

// ImportResponse summarises an upload.
type ImportResponse struct {
	SessionID   string               `json:"sessionId"`
	Filename    string               `json:"filename"`
	Format      string               `json:"format"`
	Report      *parser.ImportReport `json:"report"`
	Warnings    []string             `json:"warnings"`
	Columns     []model.ShiftColumn  `json:"columns"`
	Departments []string             `json:"departments"`
	RecordCount int                  `json:"recordCount"`
}

func newImportResponse(id string, res *importer.Result) ImportResponse {
	return ImportResponse{
		SessionID:   id,
		Filename:    res.Report.Filename,
		Format:      string(res.Format),
		Report:      res.Report,
		Warnings:    res.Warnings,
		Columns:     res.Roster.Columns,
		Departments: res.Roster.Departments(),
		RecordCount: len(res.Roster.Records),
	}
}

type upload struct {
	filename string
	body     io.ReadCloser
}

func (h *Handler) openUpload(c *gin.Context) (*upload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, apperror.New(apperror.CodeInvalidInput, "Không tìm thấy tệp tải lên", http.StatusBadRequest)
	}
	if fh.Size > h.maxUpload {
		return nil, apperror.TooLarge(h.maxUploadMB)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	return &upload{
		filename: filepath.Base(fh.Filename),
		body:     http.MaxBytesReader(c.Writer, f, h.maxUpload),
	}, nil
}

// runImport parses the upload and replaces the session's roster with the
// outcome. A failed import leaves the session with an empty roster.
func (h *Handler) runImport(ctx context.Context, id string, up *upload, notifier importer.Notifier) (*importer.Result, error) {
	defer up.body.Close()

	res, importErr := h.importer.Import(ctx, importer.ImportOptions{
		Filename: up.filename,
		Reader:   up.body,
	}, notifier)

	sess := &session.Session{
		ID:         id,
		Filename:   up.filename,
		Format:     string(res.Format),
		UploadedAt: h.now(),
		Roster:     res.Roster,
		Report:     res.Report,
		Warnings:   res.Warnings,
	}
	if err := h.sessions.Put(ctx, sess); err != nil {
		if importErr != nil {
			h.logger.Warn("store failed session", zap.String("session", id), zap.Error(err))
			return res, importErr
		}
		return res, fmt.Errorf("store session: %w", err)
	}
	return res, importErr
}

// ImportRoster parses an uploaded roster file and answers with the summary.
// POST /api/roster/import
func (h *Handler) ImportRoster(c *gin.Context) {
	up, err := h.openUpload(c)
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}

	id := h.ensureSessionID(c)
	notifier := importer.LogNotifier{Logger: h.logger.With(zap.String("session", id))}
	res, err := h.runImport(c.Request.Context(), id, up, notifier)
	if err != nil {
		h.errorResponse(c, err, newImportResponse(id, res))
		return
	}
	success(c, newImportResponse(id, res))
}

// ImportRosterStream is ImportRoster with progress as server-sent events.
// POST /api/roster/import/stream
func (h *Handler) ImportRosterStream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.errorResponse(c, apperror.New(apperror.CodeInternalError, "Không hỗ trợ phản hồi dạng luồng", http.StatusInternalServerError), nil)
		return
	}

	up, err := h.openUpload(c)
	if err != nil {
		h.errorResponse(c, err, nil)
		return
	}
	id := h.ensureSessionID(c)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	events := make(chan importer.ProgressEvent, 16)
	var (
		res       *importer.Result
		importErr error
	)
	go func() {
		defer close(events)
		res, importErr = h.runImport(c.Request.Context(), id, up, importer.NotifierFunc(func(e importer.ProgressEvent) {
			events <- e
		}))
	}()

	for event := range events {
		writeSSE(c.Writer, event)
		flusher.Flush()
	}

	final := Response{Code: 0, Message: "success", Data: newImportResponse(id, res)}
	if importErr != nil {
		appErr := apperror.From(importErr)
		final = Response{Code: appErr.HTTPStatus, Message: appErr.Message, Error: appErr.Code, Data: final.Data}
	}
	writeSSE(c.Writer, map[string]interface{}{"type": EventResult, "data": final})
	flusher.Flush()
}

// writeSSE writes one "data: {json}" frame.
func writeSSE(w io.Writer, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
