package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dhyhn5012/tccb/internal/importer"
	"github.com/dhyhn5012/tccb/internal/parser"
	"github.com/dhyhn5012/tccb/internal/session"
	"github.com/dhyhn5012/tccb/internal/workbook"
)

var (
	ErrNotFound = New(CodeNotFound, "Không tìm thấy dữ liệu", http.StatusNotFound)

	ErrInternal = New(CodeInternalError, "Đã có lỗi xảy ra. Vui lòng thử lại.", http.StatusInternalServerError)

	ErrInvalidInput = New(CodeInvalidInput, "Dữ liệu không hợp lệ", http.StatusBadRequest)

	ErrNoSession = New(CodeNoSession, "Chưa có dữ liệu lịch trực. Vui lòng tải tệp lên trước.", http.StatusNotFound)

	ErrRateLimited = New(CodeRateLimited, "Quá nhiều yêu cầu tải lên, vui lòng thử lại sau", http.StatusTooManyRequests)
)

// RequiredField reports a missing field.
func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, "Vui lòng nhập "+field, http.StatusBadRequest)
}

// InvalidField reports a field with an unacceptable value.
func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, field+" không hợp lệ", http.StatusBadRequest)
}

// TooLarge reports an upload over the size limit.
func TooLarge(limitMB int64) *AppError {
	return New(CodeTooLarge, fmt.Sprintf("Tệp vượt quá dung lượng cho phép (%d MB)", limitMB), http.StatusRequestEntityTooLarge)
}

// From maps domain errors to AppErrors. AppErrors pass through; anything
// unknown becomes ErrInternal wrapping err.
func From(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		e := TooLarge(tooLarge.Limit >> 20)
		e.Err = err
		return e
	}

	switch {
	case errors.Is(err, workbook.ErrUnsupportedFormat):
		return Wrap(err, CodeUnsupportedFormat, "Định dạng tệp không được hỗ trợ (chỉ nhận .xlsx, .xls, .csv)", http.StatusUnsupportedMediaType)
	case errors.Is(err, workbook.ErrMalformedContent):
		return Wrap(err, CodeMalformedContent, "Không đọc được nội dung tệp", http.StatusUnprocessableEntity)
	case errors.Is(err, parser.ErrUnparsableSection):
		return Wrap(err, CodeUnparsable, "Không tìm thấy dòng tiêu đề \"STT\" / \"Họ và tên\"", http.StatusUnprocessableEntity)
	case errors.Is(err, importer.ErrEmptyResult):
		return Wrap(err, CodeEmptyResult, "Không có sheet nào đọc được lịch trực", http.StatusUnprocessableEntity)
	case errors.Is(err, session.ErrNotFound):
		return Wrap(err, ErrNoSession.Code, ErrNoSession.Message, ErrNoSession.HTTPStatus)
	default:
		return Wrap(err, ErrInternal.Code, ErrInternal.Message, ErrInternal.HTTPStatus)
	}
}
