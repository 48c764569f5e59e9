package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// RequireHR requires hr role
func RequireHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Forbidden(w, i18n.T(r.Context(), "forbidden"))
			return
		}

		role, ok := claims[jwt.ClaimRole].(string)
		if !ok {
			response.Forbidden(w, i18n.T(r.Context(), "forbidden"))
			return
		}

		if jwt.Role(role) != jwt.RoleHR {
			response.Forbidden(w, i18n.T(r.Context(), "forbidden"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
