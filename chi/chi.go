// Package chi provides syringe integration for the Chi router.
//
// ScopeMiddleware gives every request its own child container, so
// ContainerScoped registrations become per-request instances. Handle resolves
// a controller from that container and calls one of its methods.
//
// Example usage:
//
//	root := syringe.New()
//	root.Register(syringe.TypeOf[*UserController](), NewUserController,
//	    syringe.WithLifecycle(syringe.ContainerScoped))
//
//	r := chi.NewRouter()
//	r.Use(syringechi.ScopeMiddleware(root))
//
//	r.Get("/users/{id}", syringechi.Handle((*UserController).GetByID))
package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/junioryono/syringe"
)

// Config holds the configuration for the scope middleware.
type Config struct {
	// ErrorHandler is called when a middleware fails.
	// If nil, a default handler returning 500 Internal Server Error is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Logger receives disposal failures. Defaults to a no-op logger.
	Logger *zap.Logger

	// Middlewares are functions that run after the request container is created.
	// They can register request values, such as the authenticated user.
	Middlewares []func(*syringe.Container, *http.Request) error
}

// Option configures the scope middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for middleware failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithLogger sets the logger used for disposal failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMiddleware adds a function that runs after the request container is created.
// Multiple middlewares are executed in the order they are added.
func WithMiddleware(mw func(*syringe.Container, *http.Request) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		Logger: zap.NewNop(),
	}
}

// RequestToken is the token under which the current *http.Request is
// registered in every request container.
var RequestToken = syringe.NewSymbol("http.Request")

// ScopeMiddleware creates a Chi middleware that gives each request a child
// container of root. The container is stored in the request context, where
// syringe.FromContext finds it, and is disposed when the request completes.
// The request itself is registered under RequestToken.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(syringechi.ScopeMiddleware(root))
func ScopeMiddleware(root *syringe.Container, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if root.IsDisposed() {
				cfg.ErrorHandler(w, r, syringe.ErrContainerDisposed)
				return
			}

			scope := root.CreateChildContainer()
			defer func() {
				if err := scope.Dispose(context.WithoutCancel(r.Context())); err != nil {
					cfg.Logger.Error("failed to dispose request container",
						zap.String("container_id", scope.ID()),
						zap.String("request_id", middleware.GetReqID(r.Context())),
						zap.Error(err),
					)
				}
			}()

			r = r.WithContext(syringe.WithContainer(r.Context(), scope))
			scope.RegisterInstance(RequestToken, r)

			for _, mw := range cfg.Middlewares {
				if err := mw(scope, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(http.ResponseWriter, *http.Request, any)

	// ScopeErrorHandler is called when the request container is missing.
	ScopeErrorHandler func(http.ResponseWriter, *http.Request, error)

	// ResolutionErrorHandler is called when the controller cannot be resolved.
	ResolutionErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Logger is used by the default handlers.
	Logger *zap.Logger
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics.
func WithPanicHandler(h func(http.ResponseWriter, *http.Request, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithScopeErrorHandler sets the error handler for a missing request container.
func WithScopeErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ScopeErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for resolution failures.
func WithResolutionErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

// WithHandlerLogger sets the logger used by the default handlers.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(c *HandlerConfig) {
		c.Logger = logger
	}
}

func defaultHandlerConfig() *HandlerConfig {
	cfg := &HandlerConfig{
		PanicRecovery: false,
		Logger:        zap.NewNop(),
	}

	cfg.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		cfg.Logger.Error("panic in handler", zap.Any("panic", v))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	cfg.ScopeErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		cfg.Logger.Error("failed to get container from context", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	cfg.ResolutionErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		cfg.Logger.Error("failed to resolve controller", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}

	return cfg
}

// Handle wraps a controller method for type-safe resolution from the request
// container. The controller type T is resolved with syringe.Resolve.
//
// The method signature should be: func(T, http.ResponseWriter, *http.Request)
//
// Example:
//
//	r.Get("/users/{id}", syringechi.Handle((*UserController).GetByID))
func Handle[T any](method func(T, http.ResponseWriter, *http.Request), opts ...HandlerOption) http.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(w, r, v)
				}
			}()
		}

		scope, err := syringe.FromContext(r.Context())
		if err != nil {
			cfg.ScopeErrorHandler(w, r, err)
			return
		}

		controller, err := syringe.Resolve[T](scope)
		if err != nil {
			cfg.ResolutionErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}
