package middleware

import (
	"fmt"
	"net/http"

	"github.com/fixora/accounts/infrastructure/http/response"
	"github.com/fixora/accounts/infrastructure/service/logger"
)

func Recovery(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error(r.Context(), "Recovered from panic", fmt.Errorf("%v", rec), map[string]interface{}{
						"method": r.Method,
						"path":   r.URL.Path,
					})
					response.BadRequest(w, "unexpected error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
