package apperror

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Field labels shown to users.
var fieldLabels = map[string]string{
	"fullName":   "Họ và tên",
	"age":        "Tuổi",
	"department": "Khoa/Phòng/Trung tâm",
	"title":      "Chức danh",
	"status":     "Trạng thái cập nhật hồ sơ",
	"content":    "nội dung yêu cầu",
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// MapValidationError converts the first validator failure to an AppError.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		label := fieldLabel(e.Field())

		switch e.Tag() {
		case "required":
			return RequiredField(label)
		default:
			return InvalidField(label)
		}
	}

	return New(CodeInvalidInput, "Dữ liệu không hợp lệ", http.StatusBadRequest)
}
