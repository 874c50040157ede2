package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/dmitrijs2005/gopherblog/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID       = "user_id"
	requestIDHeader = "X-Request-ID"
)

// Authenticator is the credential service: token in, actor ID out.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

// Auth resolves the bearer token into the actor ID stored on the context.
func Auth(a Authenticator, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			writeError(c, logger, fmt.Errorf("%w: missing bearer token", common.ErrorUnauthorized))
			return
		}

		userID, err := a.Authenticate(token)
		if err != nil {
			logger.Debug(c.Request.Context(), "token rejected", "error", err)
			writeError(c, logger, common.ErrorUnauthorized)
			return
		}

		c.Set(ctxUserID, userID)
		c.Request = c.Request.WithContext(logging.ContextWith(c.Request.Context(), "user_id", userID))
		c.Next()
	}
}

// actorID returns the authenticated user set by Auth.
func actorID(c *gin.Context) (string, error) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return "", common.ErrorUnauthorized
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", common.ErrorUnauthorized
	}
	return id, nil
}

// RequestLogger tags the request context with a request ID (taken from
// X-Request-ID when the caller sent one) and logs one line per request once
// it has been served.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(logging.ContextWith(c.Request.Context(), "request_id", reqID))

		c.Next()

		logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

// Recovery turns a handler panic into a logged 500.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error(c.Request.Context(), "panic in handler",
			"path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
	})
}

// handlerFunc is a gin handler that reports failures by returning them.
type handlerFunc func(*gin.Context) error

func wrap(logger logging.Logger, h handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {
			if c.Writer.Written() {
				return
			}
			writeError(c, logger, err)
		}
	}
}
