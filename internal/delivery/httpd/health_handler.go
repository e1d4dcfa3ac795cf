package httpd

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 2 * time.Second

// HealthCheck is one dependency probed by GET /health. Required
// dependencies turn the response into a 503 when they fail.
type HealthCheck struct {
	Name     string
	Required bool
	Ping     func(ctx context.Context) error
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.health))
	healthy := true
	for _, check := range h.health {
		if err := check.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Str("dependency", check.Name).Msg("Health check failed")
			checks[check.Name] = "down"
			if check.Required {
				healthy = false
			}
			continue
		}
		checks[check.Name] = "up"
	}

	if !healthy {
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	writeSuccess(w, map[string]interface{}{
		"status":       "healthy",
		"service":      "course-portal",
		"dependencies": checks,
		"timestamp":    time.Now().UTC(),
	})
}
