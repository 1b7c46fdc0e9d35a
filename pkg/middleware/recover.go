package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/etuition/etuition-api/pkg/logger"
	"github.com/etuition/etuition-api/pkg/response"
)

// Recovery catches panics in downstream handlers, logs the stack, and
// answers 500 with the standard error body.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
