package responses

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/courtside/internal/logging"
)

// AppError is an error that already knows its HTTP status. Controllers
// return these from transactions and hand them to HandleError.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string { return e.Message }

func ErrNotFound(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: resource + " not found"}
}

func ErrForbidden(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message}
}

func ErrConflict(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message}
}

func ErrBadRequest(format string, args ...interface{}) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// HandleError writes err as the standard error body. Anything that isn't an
// AppError is logged and reported as a generic 500.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		SendError(c, appErr.Code, appErr.Message)
		return
	}
	logging.Ctx(c.Request.Context()).Error().Err(err).
		Str("path", c.FullPath()).
		Msg("request failed")
	InternalServerError(c, "")
}
