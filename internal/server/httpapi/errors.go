package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/dmitrijs2005/gopherblog/internal/logging"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Error string `json:"error"`
}

// requestError is a client fault detected by the transport itself
// (malformed JSON, bad query parameters).
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &requestError{status: http.StatusBadRequest, msg: msg}
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{common.ErrorValidation, http.StatusBadRequest},
	{common.ErrorUnauthorized, http.StatusUnauthorized},
	{common.ErrRefreshTokenExpired, http.StatusUnauthorized},
	{common.ErrTokenExpired, http.StatusUnauthorized},
	{common.ErrInvalidToken, http.StatusUnauthorized},
	{common.ErrorForbidden, http.StatusForbidden},
	{common.ErrorNotFound, http.StatusNotFound},
	{common.ErrorConflict, http.StatusConflict},
}

// statusFor maps an error to its HTTP status; unknown errors are 500.
func statusFor(err error) int {
	var re *requestError
	if errors.As(err, &re) {
		return re.status
	}
	for _, m := range statusBySentinel {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err. Server faults are logged with the route and
// reported with a generic message.
func writeError(c *gin.Context, logger logging.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed",
			"operation", c.FullPath(), "method", c.Request.Method, "error", err)
		c.AbortWithStatusJSON(status, errorBody{Error: "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, errorBody{Error: err.Error()})
}
