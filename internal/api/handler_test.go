package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dhyhn5012/tccb/internal/exporter"
	"github.com/dhyhn5012/tccb/internal/importer"
	"github.com/dhyhn5012/tccb/internal/profile"
	"github.com/dhyhn5012/tccb/internal/session"
	"github.com/dhyhn5012/tccb/internal/store"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), store.DefaultFilename))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(Deps{
		Importer:   importer.NewCoordinator(st, importer.Config{DefaultDepartment: "Chưa xác định", Workers: 2}),
		Sessions:   session.NewMemoryStore(time.Hour),
		ImportLogs: st,
		Profiles:   profile.NewService(st),
		Exporter:   exporter.NewExporter(),
	})

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func rosterWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	rows := [][]interface{}{
		{"Bộ phận: Khoa Nội"},
		{"STT", "Họ và tên", "1", "2", "3"},
		{"", "", "2024-03-04", "2024-03-05", "T7"},
		{1, "Nguyễn Văn A", "X", "NP", "T7"},
		{2, "Trần Thị B", "", "Nts", ""},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func do(r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestImportThenStats(t *testing.T) {
	r := setupRouter(t)

	rec, env := do(r, uploadRequest(t, "/api/roster/import", "lich-truc.xlsx", rosterWorkbook(t)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, env.Code)

	var imported ImportResponse
	require.NoError(t, json.Unmarshal(env.Data, &imported))
	assert.Equal(t, "xlsx", imported.Format)
	assert.Equal(t, 2, imported.RecordCount)
	assert.Equal(t, []string{"Khoa Nội"}, imported.Departments)

	id := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, id)
	assert.Equal(t, id, imported.SessionID)

	req := httptest.NewRequest(http.MethodGet, "/api/roster/stats", nil)
	req.Header.Set(SessionHeader, id)
	rec, env = do(r, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		OnCall []struct {
			EmployeeName string `json:"employeeName"`
			Count        int    `json:"count"`
		} `json:"onCall"`
		Maternity []struct {
			EmployeeName string `json:"employeeName"`
		} `json:"maternity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	require.Len(t, report.OnCall, 2)
	assert.Equal(t, "Nguyễn Văn A", report.OnCall[0].EmployeeName)
	assert.Equal(t, 2, report.OnCall[0].Count)
	require.Len(t, report.Maternity, 1)
	assert.Equal(t, "Trần Thị B", report.Maternity[0].EmployeeName)

	req = httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set(SessionHeader, id)
	_, env = do(r, req)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.True(t, status.Initialized)
	assert.Equal(t, 2, status.Employees)
	assert.Equal(t, 1, status.Departments)
	assert.NotNil(t, status.LastImportTime)

	req = httptest.NewRequest(http.MethodGet, "/api/imports", nil)
	_, env = do(r, req)
	var logs []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, "completed", logs[0]["status"])
}

func TestRosterWithoutSession(t *testing.T) {
	r := setupRouter(t)

	for _, path := range []string{"/api/roster", "/api/roster/stats", "/api/roster/departments", "/api/roster/export"} {
		rec, env := do(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "NO_SESSION", env.Error, path)
	}
}

func TestImportUnsupportedFormat(t *testing.T) {
	r := setupRouter(t)

	rec, env := do(r, uploadRequest(t, "/api/roster/import", "lich.pdf", []byte("%PDF")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "UNSUPPORTED_FORMAT", env.Error)
}

func TestImportFailureLeavesEmptySession(t *testing.T) {
	r := setupRouter(t)

	rec, env := do(r, uploadRequest(t, "/api/roster/import", "lich.csv", []byte("a,b\n1,2\n")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "UNPARSABLE_SECTION", env.Error)

	id := rec.Header().Get(SessionHeader)
	require.NotEmpty(t, id)

	req := httptest.NewRequest(http.MethodGet, "/api/roster", nil)
	req.Header.Set(SessionHeader, id)
	rec, env = do(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var roster RosterResponse
	require.NoError(t, json.Unmarshal(env.Data, &roster))
	assert.Empty(t, roster.Records)
}

func TestImportMissingFile(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/roster/import", nil)
	rec, env := do(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error)
}

func TestImportStream(t *testing.T) {
	r := setupRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "/api/roster/import/stream", "lich.xlsx", rosterWorkbook(t)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	frames := strings.Split(strings.TrimSpace(rec.Body.String()), "\n\n")
	require.NotEmpty(t, frames)
	last := strings.TrimPrefix(frames[len(frames)-1], "data: ")

	var final struct {
		Type string   `json:"type"`
		Data envelope `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(last), &final))
	assert.Equal(t, EventResult, final.Type)
	assert.Equal(t, 0, final.Data.Code)
}

func TestExportRoster(t *testing.T) {
	r := setupRouter(t)

	rec, _ := do(r, uploadRequest(t, "/api/roster/import", "lich.xlsx", rosterWorkbook(t)))
	id := rec.Header().Get(SessionHeader)

	req := httptest.NewRequest(http.MethodGet, "/api/roster/export", nil)
	req.Header.Set(SessionHeader, id)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exporter.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"LichTruc_")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Contains(t, f.GetSheetList(), "TongHop")
}

func TestClearRoster(t *testing.T) {
	r := setupRouter(t)

	rec, _ := do(r, uploadRequest(t, "/api/roster/import", "lich.xlsx", rosterWorkbook(t)))
	id := rec.Header().Get(SessionHeader)

	req := httptest.NewRequest(http.MethodDelete, "/api/roster", nil)
	req.Header.Set(SessionHeader, id)
	rec, _ = do(r, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/roster", nil)
	req.Header.Set(SessionHeader, id)
	rec, _ = do(r, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func jsonRequest(t *testing.T, method, path string, v interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestEmployeeProfiles(t *testing.T) {
	r := setupRouter(t)

	rec, env := do(r, jsonRequest(t, http.MethodPost, "/api/employees", EmployeeRequest{
		FullName:   "  Phạm Thị D ",
		Age:        34,
		Department: "Khoa Nhi",
		Title:      "Điều dưỡng",
		Status:     "Hoàn tất",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, env.Code)

	rec, env = do(r, jsonRequest(t, http.MethodPost, "/api/employees", EmployeeRequest{
		FullName:   "Võ Văn E",
		Age:        30,
		Department: "Khoa Mắt",
		Title:      "Bác sĩ",
		Status:     "Hoàn tất",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error)

	_, env = do(r, httptest.NewRequest(http.MethodGet, "/api/employees", nil))
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Phạm Thị D", list[0]["fullName"])

	rec, _ = do(r, httptest.NewRequest(http.MethodGet, "/api/employees/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/employees/export", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, exporter.ContentTypeXLSX, rec.Header().Get("Content-Type"))
}

func TestCreateEmployeeBadJSON(t *testing.T) {
	r := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec, env := do(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error)
}

func TestCreateRequest(t *testing.T) {
	r := setupRouter(t)

	rec, _ := do(r, jsonRequest(t, http.MethodPost, "/api/requests", SupportRequestPayload{Content: "Cần sửa ngày sinh"}))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(r, jsonRequest(t, http.MethodPost, "/api/requests", SupportRequestPayload{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", env.Error)
}

func TestGetOptions(t *testing.T) {
	r := setupRouter(t)

	_, env := do(r, httptest.NewRequest(http.MethodGet, "/api/employees/options", nil))
	var opts profile.Options
	require.NoError(t, json.Unmarshal(env.Data, &opts))
	assert.Equal(t, profile.DepartmentOptions, opts.Departments)
}

func TestContentDisposition(t *testing.T) {
	t.Parallel()

	got := contentDisposition("LichTruc_Khoa Nội_20240304_101500.xlsx")
	assert.Equal(t,
		`attachment; filename="LichTruc_Khoa Noi_20240304_101500.xlsx"; filename*=UTF-8''LichTruc_Khoa%20N%E1%BB%99i_20240304_101500.xlsx`,
		got)

	assert.Equal(t, "Dong Thap", asciiFilename("Đồng Tháp"))
	assert.Equal(t, "a_b", asciiFilename(`a"b`))
}
