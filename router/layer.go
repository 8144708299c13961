package router

import (
	"net/http"
	"slices"
	"strings"
)

// Handler is one unit of a layer's chain. Wrap returns the handler to serve,
// given the rest of the chain as next. A unit that does not call next ends the
// chain.
type Handler interface {
	Wrap(next http.Handler) http.Handler
}

// Middleware is the standard middleware signature, usable as a chain unit.
type Middleware func(next http.Handler) http.Handler

// Wrap implements Handler.
func (m Middleware) Wrap(next http.Handler) http.Handler { return m(next) }

// HandlerFunc is a terminal chain unit: it never calls the rest of the chain.
type HandlerFunc func(w http.ResponseWriter, r *http.Request)

// Wrap implements Handler.
func (f HandlerFunc) Wrap(http.Handler) http.Handler { return http.HandlerFunc(f) }

// Layer is a node of a router's stack. It is exactly one of *RouteLayer,
// *MountLayer or *UseLayer.
type Layer interface {
	Pattern() *Pattern
	layer()
}

// RouteLayer is a terminal route: an exact-match path bound to per-method
// handler chains.
type RouteLayer struct {
	pattern *Pattern
	route   *Route
}

// Pattern returns the layer's compiled path.
func (l *RouteLayer) Pattern() *Pattern { return l.pattern }

// Route returns the route bound to the layer.
func (l *RouteLayer) Route() *Route { return l.route }

func (*RouteLayer) layer() {}

// MountLayer wraps a nested router under a path prefix.
type MountLayer struct {
	pattern *Pattern
	router  *Router
}

// Pattern returns the layer's compiled path.
func (l *MountLayer) Pattern() *Pattern { return l.pattern }

// Stack returns the nested router's layers.
func (l *MountLayer) Stack() []Layer { return l.router.Stack() }

func (*MountLayer) layer() {}

// UseLayer is a single handler applied to every method at or below its path.
type UseLayer struct {
	pattern *Pattern
	handler Handler
}

// Pattern returns the layer's compiled path.
func (l *UseLayer) Pattern() *Pattern { return l.pattern }

// Handler returns the layer's handler.
func (l *UseLayer) Handler() Handler { return l.handler }

func (*UseLayer) layer() {}

// Route holds the method chains registered for one path.
type Route struct {
	path  string
	stack []routeHandler
}

type routeHandler struct {
	method  string
	handler Handler
}

// Path returns the path the route was registered with.
func (rt *Route) Path() string { return rt.path }

// Methods returns the route's methods, lower-cased, in order of first registration.
func (rt *Route) Methods() []string {
	var methods []string
	for _, rh := range rt.stack {
		if !slices.Contains(methods, rh.method) {
			methods = append(methods, rh.method)
		}
	}
	return methods
}

// Chain returns the handlers registered for method, in order.
func (rt *Route) Chain(method string) []Handler {
	method = strings.ToLower(method)
	var chain []Handler
	for _, rh := range rt.stack {
		if rh.method == method {
			chain = append(chain, rh.handler)
		}
	}
	return chain
}

// Handle appends handlers for method.
func (rt *Route) Handle(method string, handlers ...Handler) *Route {
	method = strings.ToLower(method)
	for _, h := range handlers {
		rt.stack = append(rt.stack, routeHandler{method: method, handler: h})
	}
	return rt
}

// Get appends GET handlers.
func (rt *Route) Get(handlers ...Handler) *Route { return rt.Handle(http.MethodGet, handlers...) }

// Post appends POST handlers.
func (rt *Route) Post(handlers ...Handler) *Route { return rt.Handle(http.MethodPost, handlers...) }

// Put appends PUT handlers.
func (rt *Route) Put(handlers ...Handler) *Route { return rt.Handle(http.MethodPut, handlers...) }

// Patch appends PATCH handlers.
func (rt *Route) Patch(handlers ...Handler) *Route { return rt.Handle(http.MethodPatch, handlers...) }

// Delete appends DELETE handlers.
func (rt *Route) Delete(handlers ...Handler) *Route {
	return rt.Handle(http.MethodDelete, handlers...)
}

// Head appends HEAD handlers.
func (rt *Route) Head(handlers ...Handler) *Route { return rt.Handle(http.MethodHead, handlers...) }

// Options appends OPTIONS handlers.
func (rt *Route) Options(handlers ...Handler) *Route {
	return rt.Handle(http.MethodOptions, handlers...)
}

// chainFor returns the chain serving method. HEAD falls back to GET.
func (rt *Route) chainFor(method string) []Handler {
	chain := rt.Chain(method)
	if len(chain) == 0 && strings.EqualFold(method, http.MethodHead) {
		chain = rt.Chain(http.MethodGet)
	}
	return chain
}
