package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/pkg/utils"
)

// Timeout bounds the request context. Handlers stop at their next
// context-aware call; if nothing was written by then the client gets 504.
func Timeout(timeout time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
				utils.ErrorResponse(w, http.StatusGatewayTimeout, "request timed out")
			}
		}
		return http.HandlerFunc(fn)
	}
}
