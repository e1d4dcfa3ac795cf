package middleware

import (
	"net/http"
	"strings"

	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/internal/auth"
	"github.com/ITCS333/course-project-itcs333-group-10-project-sec-2/pkg/utils"
)

// TokenValidator is satisfied by *auth.JWTManager.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// RequireRole rejects requests without a valid bearer token carrying one
// of roles. A nil validator disables the check.
func RequireRole(tokens TokenValidator, roles ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if tokens == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				utils.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				log := GetLoggerFromContext(r.Context())
				log.Debug().Err(err).Msg("Token rejected")
				utils.ErrorResponse(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			if !hasRole(claims.Role, roles) {
				utils.ErrorResponse(w, http.StatusUnauthorized, strings.Join(roles, " or ")+" access required")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func RequireAdmin(tokens TokenValidator) func(next http.Handler) http.Handler {
	return RequireRole(tokens, auth.RoleAdmin)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}
