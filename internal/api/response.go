package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhyhn5012/tccb/internal/apperror"
)

// Response is the JSON envelope of every endpoint. Code is 0 on success and
// the HTTP status otherwise.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"` // apperror code
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// errorResponse answers with the mapped AppError. data, when not nil, is
// returned alongside the error (e.g. the failed import report).
func (h *Handler) errorResponse(c *gin.Context, err error, data interface{}) {
	appErr := apperror.From(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
	}
	c.JSON(appErr.HTTPStatus, Response{
		Code:    appErr.HTTPStatus,
		Message: appErr.Message,
		Error:   appErr.Code,
		Data:    data,
	})
}
