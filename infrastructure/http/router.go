package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fixora/accounts/infrastructure/http/handler"
	"github.com/fixora/accounts/infrastructure/http/middleware"
	"github.com/fixora/accounts/infrastructure/service/logger"
)

type RouterConfig struct {
	UserHandler     *handler.UserHandler
	AuditLogHandler *handler.AuditLogHandler
	HealthHandler   *handler.HealthHandler
	Auth            *middleware.AuthMiddleware
	RateLimit       *middleware.RateLimitMiddleware
	Observer        middleware.RequestObserver
	MetricsHandler  http.Handler
	Logger          logger.Logger

	CorrelationIDHeader  string
	LogRequests          bool
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

// NewRouter wires every endpoint of the service.
func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogging(cfg.Logger, cfg.Observer, cfg.LogRequests))
	router.Use(middleware.Recovery(cfg.Logger))

	users := cfg.UserHandler
	auth := cfg.Auth
	throttled := func(h http.HandlerFunc) http.Handler {
		if cfg.RateLimit == nil {
			return h
		}
		return cfg.RateLimit.RateLimit(h)
	}

	router.Handle("/register", throttled(func(w http.ResponseWriter, r *http.Request) {
		auth.OptionalAuth(http.HandlerFunc(users.Register)).ServeHTTP(w, r)
	})).Methods(http.MethodPost)
	router.Handle("/login", throttled(users.Login)).Methods(http.MethodPost)

	router.Handle("/update", auth.RequireAuth(http.HandlerFunc(users.Update))).Methods(http.MethodPost)
	router.Handle("/logout", auth.RequireAuth(http.HandlerFunc(users.Logout))).Methods(http.MethodPost)
	router.Handle("/userInfo", auth.RequireAuth(http.HandlerFunc(users.Show))).Methods(http.MethodGet)
	router.Handle("/delete", auth.RequireAuth(http.HandlerFunc(users.Delete))).Methods(http.MethodDelete)
	router.Handle("/delete/{id:[0-9]+}", auth.RequireAuth(http.HandlerFunc(users.Delete))).Methods(http.MethodDelete)
	router.Handle("/viewUserManipulationLog", auth.RequireAuth(http.HandlerFunc(cfg.AuditLogHandler.View))).Methods(http.MethodGet)

	if cfg.HealthHandler != nil {
		router.HandleFunc("/health", cfg.HealthHandler.Health).Methods(http.MethodGet)
	}
	if cfg.MetricsHandler != nil {
		router.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	var h http.Handler = router
	if cfg.CORSEnabled && len(cfg.CORSAllowedOrigins) > 0 {
		h = middleware.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials)(h)
	}
	return middleware.CorrelationID(cfg.CorrelationIDHeader)(h)
}
