package router

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"
)

// Router is an ordered stack of layers. Requests walk the stack in
// registration order; each matching layer's chain runs until a unit stops
// calling next. Router implements http.Handler.
//
// Registration is expected to finish before the router starts serving.
type Router struct {
	stack []Layer

	caseSensitive bool
	strict        bool
	errorHandler  ErrorHandler

	mu sync.RWMutex
}

// Option configures a Router.
type Option func(*Router)

// WithCaseSensitive makes path matching case-sensitive.
func WithCaseSensitive() Option {
	return func(r *Router) {
		r.caseSensitive = true
	}
}

// WithStrict disables the optional trailing slash on every path.
func WithStrict() Option {
	return func(r *Router) {
		r.strict = true
	}
}

// WithErrorHandler sets the handler that receives errors raised with Fail.
// It applies when the router is the one serving the request; mounted routers
// use the outermost router's handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Router) {
		r.errorHandler = h
	}
}

// New creates a Router with the given options.
func New(opts ...Option) *Router {
	r := &Router{
		errorHandler: DefaultErrorHandler,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use appends one layer per handler at the root path. Each applies to every
// request.
func (r *Router) Use(handlers ...Handler) {
	r.UseAt("/", handlers...)
}

// UseAt appends one layer per handler, applied to every request at or below path.
func (r *Router) UseAt(path string, handlers ...Handler) {
	for _, h := range handlers {
		r.push(&UseLayer{pattern: r.compile(path, false), handler: h})
	}
}

// Mount appends a layer that dispatches requests at or below path to sub,
// with path stripped from the front.
func (r *Router) Mount(path string, sub *Router) {
	r.push(&MountLayer{pattern: r.compile(path, false), router: sub})
}

// Route appends a terminal layer for path and returns its route, to which
// method chains can be added.
func (r *Router) Route(path string) *Route {
	rt := &Route{path: path}
	r.push(&RouteLayer{pattern: r.compile(path, true), route: rt})
	return rt
}

// Handle appends a terminal layer for path serving method.
func (r *Router) Handle(method, path string, handlers ...Handler) *Route {
	return r.Route(path).Handle(method, handlers...)
}

// Get registers a GET route.
func (r *Router) Get(path string, handlers ...Handler) *Route {
	return r.Handle(http.MethodGet, path, handlers...)
}

// Post registers a POST route.
func (r *Router) Post(path string, handlers ...Handler) *Route {
	return r.Handle(http.MethodPost, path, handlers...)
}

// Put registers a PUT route.
func (r *Router) Put(path string, handlers ...Handler) *Route {
	return r.Handle(http.MethodPut, path, handlers...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(path string, handlers ...Handler) *Route {
	return r.Handle(http.MethodPatch, path, handlers...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(path string, handlers ...Handler) *Route {
	return r.Handle(http.MethodDelete, path, handlers...)
}

// Stack returns the router's layers in registration order.
func (r *Router) Stack() []Layer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.stack)
}

// compile panics on a malformed path, as http.ServeMux does for bad patterns.
func (r *Router) compile(path string, end bool) *Pattern {
	return MustCompile(path, CompileOptions{
		End:           end,
		Strict:        r.strict,
		CaseSensitive: r.caseSensitive,
	})
}

func (r *Router) push(l Layer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = append(r.stack, l)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	req = req.WithContext(withErrorHandler(req.Context(), r.errorHandler))

	notFound := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		Fail(w, req, Errorf(http.StatusNotFound, "cannot %s %s", req.Method, req.URL.Path))
	})

	r.dispatch(w, req, req.URL.Path, nil, notFound)
}

// dispatch walks the stack for path. params holds values captured by
// enclosing mounts; done runs when no layer ends the request.
func (r *Router) dispatch(w http.ResponseWriter, req *http.Request, path string, params map[string]string, done http.Handler) {
	stack := r.Stack()

	var step func(i int, w http.ResponseWriter, req *http.Request)
	step = func(i int, w http.ResponseWriter, req *http.Request) {
		for ; i < len(stack); i++ {
			values, consumed, ok := stack[i].Pattern().match(path)
			if !ok {
				continue
			}

			idx := i
			next := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				step(idx+1, w, req)
			})
			layerParams := mergeParams(params, values)

			switch l := stack[i].(type) {
			case *RouteLayer:
				chain := l.route.chainFor(req.Method)
				if len(chain) == 0 {
					continue
				}
				serveChain(chain, next).ServeHTTP(w, withParams(req, layerParams))
				return

			case *UseLayer:
				l.handler.Wrap(next).ServeHTTP(w, withParams(req, layerParams))
				return

			case *MountLayer:
				rest := path[consumed:]
				if len(rest) == 0 || rest[0] != '/' {
					rest = "/" + rest
				}
				l.router.dispatch(w, req, rest, layerParams, next)
				return
			}
		}
		done.ServeHTTP(w, req)
	}

	step(0, w, req)
}

// serveChain links handlers so each one's next is the following handler, and
// the last one's next is tail.
func serveChain(chain []Handler, tail http.Handler) http.Handler {
	h := tail
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i].Wrap(h)
	}
	return h
}

// ListenAndServe starts an HTTP server on the given address.
// It blocks until the context is cancelled, then shuts down gracefully.
func (r *Router) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
