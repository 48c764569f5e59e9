package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/i18n"
)

// Locale stores the best supported language from Accept-Language in the request context.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := i18n.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
		next.ServeHTTP(w, r.WithContext(i18n.WithLocale(r.Context(), locale)))
	})
}
