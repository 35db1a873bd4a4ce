package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "clinic/pkg/errors"
	httputil "clinic/pkg/http"
	"clinic/pkg/logger"
)

// Recovery turns a handler panic into a 500 response. http.ErrAbortHandler is
// passed through so the server can drop the connection as intended.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracked := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			defer func() {
				p := recover()
				if p == nil {
					return
				}
				if p == http.ErrAbortHandler {
					panic(p)
				}

				log.Error("Panic recovered",
					"request_id", RequestID(r.Context()),
					"panic", fmt.Sprint(p),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				if tracked.written {
					// Status already on the wire; the client sees a truncated body.
					return
				}
				_ = httputil.WriteError(tracked, apperrors.Internal("Internal server error", fmt.Errorf("panic: %v", p)))
			}()

			next.ServeHTTP(tracked, r)
		})
	}
}
