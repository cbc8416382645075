package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/configuration"
	"github.com/ZSuraj/abcd-sub000/pkg/httpapi"
	"github.com/ZSuraj/abcd-sub000/pkg/middleware"
	"github.com/ZSuraj/abcd-sub000/pkg/repo"
	"github.com/ZSuraj/abcd-sub000/pkg/server"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	// Pool is nil with the memory backend.
	Pool   repo.Pool
	Tokens session.TokenStore
}

func notFound(w http.ResponseWriter, r *http.Request) {
	_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "route not found", map[string]string{
		"path": r.URL.Path,
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", map[string]string{
		"method": r.Method,
		"path":   r.URL.Path,
	})
}

func rateLimitStore(conf *configuration.Configuration, logger *logrus.Logger) limiter.Store {
	if conf.RateLimit.Storage != "redis" {
		return middleware.NewMemoryStore()
	}
	store, err := middleware.NewRedisStore(conf.RateLimit.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
		return middleware.NewMemoryStore()
	}
	return store
}

// Default assembles the middleware stack shared by every entrypoint and returns the
// HTTP server for app.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	loggerOpts := middleware.DefaultLoggerOptions()
	loggerOpts.RequestIDHeader = conf.RequestIDHeader
	loggerOpts.RealIPHeader = conf.RealIPHeader

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, loggerOpts),

		middleware.TracedMiddleware("database"),
		middleware.ProvidePool(options.Pool),

		middleware.TracedMiddleware("cors"),
		middleware.Cors(conf.CorsOrigins...),
	}

	if conf.RateLimit.Enabled {
		middlewares = append(middlewares,
			middleware.TracedMiddleware("rateLimit"),
			middleware.RateLimit(middleware.RateLimitConfig{
				RequestsPerPeriod: conf.RateLimit.GlobalRPS,
				Store:             rateLimitStore(conf, options.Logger),
				KeyFunc:           middleware.RealIPKey(conf.RealIPHeader),
			}),
		)
	}

	middlewares = append(middlewares,
		middleware.TracedMiddleware("opsGuard"),
		middleware.OpsGuard(conf.OpsGuard, conf.RealIPHeader, conf.Prometheus.Path),

		middleware.TracedMiddleware("session"),
		middleware.WithSession(options.Tokens),
		middleware.ClientScope(conf.ClientScopeHeader),
	)

	app.RegisterMiddleware(middlewares...)

	srv := server.NewHTTPServer(app, http.HandlerFunc(notFound), http.HandlerFunc(methodNotAllowed))
	if conf.ShutdownTimeout > 0 {
		srv.ShutdownTimeout = conf.ShutdownTimeout
	}
	return srv, nil
}
