package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fixora/accounts/infrastructure/service/logger"
)

// RequestObserver receives one call per served request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, start time.Time)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogging logs every request and reports it to observer under its
// route template, so /delete/{id} is a single series.
func RequestLogging(log logger.Logger, observer RequestObserver, enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			if observer != nil {
				observer.ObserveRequest(r.Method, route, rec.status, start)
			}
			if enabled {
				logger.LogRequest(r.Context(), log, r.Method, route, rec.status, time.Since(start))
			}
		})
	}
}
