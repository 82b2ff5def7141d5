package router

import (
	"net/http"

	"github.com/erp/custadmin/internal/infrastructure/logger"
	"github.com/erp/custadmin/internal/interfaces/http/handler"
	"github.com/erp/custadmin/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under a versioned API prefix
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

// Setup registers every registrar under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one domain under a prefix
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:   name,
		prefix: prefix,
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle registers a route for method
func (dg *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, path, handlers...)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, path, handlers...)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, path, handlers...)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, path, handlers...)
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Deps are the collaborators the HTTP surface is assembled from
type Deps struct {
	Logger    *zap.Logger
	Customers handler.CustomerService
	Gate      middleware.Authenticator
	// DB backs the health check; nil skips the database probe
	DB          handler.Pinger
	CORS        middleware.CORSConfig
	Tracing     middleware.TracingConfig
	MaxBodySize int64
	// Meter records HTTP server metrics; nil disables them
	Meter metric.Meter
}

// NewEngine builds the gin engine: global middleware, the public health
// endpoints and the customer routes behind the access gate.
func NewEngine(d Deps) (*gin.Engine, error) {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}

	httpMetrics, err := middleware.HTTPMetrics(d.Meter)
	if err != nil {
		return nil, err
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		logger.Recovery(log),
		middleware.TracingWithConfig(d.Tracing),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.SpanEnricher(),
		httpMetrics,
		middleware.Secure(),
		middleware.CORSWithConfig(d.CORS),
	)
	if d.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(d.MaxBodySize))
	}

	system := handler.NewSystemHandler(d.DB)
	engine.GET("/health", system.Health)

	customers := handler.NewCustomerHandler(d.Customers)
	customerRoutes := NewDomainGroup("customers", "/customers").
		Use(middleware.AccessGate(d.Gate)).
		POST("", customers.Create).
		GET("", customers.List).
		GET("/:id", customers.GetByID).
		PUT("/:id", customers.Update).
		DELETE("/:id", customers.Delete)

	NewRouter(engine).
		Register(NewDomainGroup("system", "").GET("/ping", system.Ping)).
		Register(customerRoutes).
		Setup()

	return engine, nil
}
