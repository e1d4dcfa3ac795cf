package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/pkg/utils"
)

// RateLimitByIP limits requests per client IP. A non-positive limit
// disables it.
func RateLimitByIP(requests int, window time.Duration) func(next http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.ErrorResponse(w, http.StatusTooManyRequests, "too many requests, try again later")
		}),
	)
}
