// Package router assembles the gin engine and mounts the API handlers.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/auth"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/config"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/logger"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RootRegistrar mounts routes outside the versioned group (probes)
type RootRegistrar interface {
	RegisterRoutes(r gin.IRoutes)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// EngineConfig is everything NewEngine needs to build the middleware chain
type EngineConfig struct {
	Logger      *zap.Logger
	HTTP        config.HTTPConfig
	AuthEnabled bool
	JWTService  *auth.JWTService
	ServiceName string
	Tracing     bool
	Rejections  middleware.RejectionRecorder
}

// NewEngine builds a gin engine with the standard middleware chain:
// recovery, request id, tracing, request logging, CORS, body limit, actor
// resolution, span tagging and rejection metrics.
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.Tracing(cfg.ServiceName, cfg.Tracing),
		logger.GinMiddleware(log),
		middleware.CORS(cfg.HTTP),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.ActorAuth(middleware.DefaultActorConfig(cfg.AuthEnabled, cfg.JWTService, log)),
		middleware.SpanAttributes(),
		middleware.Rejections(cfg.Rejections),
	)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(shared.CodeNotFound, "Route not found", middleware.GetRequestID(c), nil))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse("METHOD_NOT_ALLOWED", "Method not allowed", middleware.GetRequestID(c), nil))
	})
	return engine
}
