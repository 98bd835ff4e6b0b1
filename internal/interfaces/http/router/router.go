package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar registers a handler's routes on an API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// PublicRouteRegistrar registers routes reachable without a session token.
type PublicRouteRegistrar interface {
	RegisterPublicRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration. Public routes are registered on
// the bare API group; protected routes go through the auth middleware
// passed to Setup.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	public     []PublicRouteRegistrar
	protected  []RouteRegistrar
}

// RouterOption is a functional option for Router configuration.
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2").
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance.
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		public:     make([]PublicRouteRegistrar, 0),
		protected:  make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterPublic adds a registrar whose routes skip authentication.
func (r *Router) RegisterPublic(registrar PublicRouteRegistrar) *Router {
	r.public = append(r.public, registrar)
	return r
}

// Register adds a registrar whose routes require a session token.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.protected = append(r.protected, registrar)
	return r
}

// Setup registers all routes with the engine. authMiddleware guards the
// protected group; pass nil to leave the API open (tests only).
func (r *Router) Setup(authMiddleware gin.HandlerFunc) {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.public {
		registrar.RegisterPublicRoutes(api)
	}

	protected := api.Group("")
	if authMiddleware != nil {
		protected.Use(authMiddleware)
	}
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(protected)
	}
}
