package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type employeeKey struct{}

type Principal struct {
	EmployeeID string
	Role       jwt.Role
}

// RequireEmployee resolves the caller from the verified token claims.
// Requests whose token lacks an employee_id are rejected.
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, "invalid token")
			return
		}

		employeeID, ok := claims[jwt.ClaimEmployeeID].(string)
		if !ok || employeeID == "" {
			response.Unauthorized(w, "token has no employee_id")
			return
		}
		role, _ := claims[jwt.ClaimRole].(string)

		ctx := WithPrincipal(r.Context(), Principal{EmployeeID: employeeID, Role: jwt.Role(role)})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, employeeKey{}, p)
}

// PrincipalFromContext returns the caller stored by RequireEmployee.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(employeeKey{}).(Principal)
	return p, ok
}
