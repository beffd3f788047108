package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalErrorMessage = "Erro interno do servidor. Tente novamente mais tarde."

// RecoveryMiddleware turns handler panics into a 500 with the site's generic error body.
// http.ErrAbortHandler is re-raised for net/http, and a panic caused by the client going
// away is logged without answering, since nobody is left to read the response.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		panic("RecoveryMiddleware requires a non-nil zap.Logger instance")
	}
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}

			fields := []zap.Field{
				zap.String("method", c.Request.Method),
				zap.String("route", routeOf(c)),
				zap.String("request_id", RequestID(c)),
			}
			err, ok := recovered.(error)
			if !ok {
				err = fmt.Errorf("%v", recovered)
			}
			if isClientGone(err) {
				logger.Warn("Client connection closed while writing response", append(fields, zap.Error(err))...)
				_ = c.Error(err)
				c.Abort()
				return
			}

			logger.Error("Panic recovered",
				append(fields, zap.Error(err), zap.ByteString("stacktrace", debug.Stack()))...)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		}()
		c.Next()
	}
}

func isClientGone(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
