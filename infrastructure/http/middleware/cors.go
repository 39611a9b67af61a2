package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS answers preflight requests and echoes allowed origins, which must match
// exactly (scheme, host and port).
func CORS(allowedOrigins []string, allowCredentials bool) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", CorrelationIDHeader},
		ExposedHeaders:   []string{CorrelationIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           600,
	})
}
