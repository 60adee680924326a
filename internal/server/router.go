package server

import (
	"net/http"
	"strings"
)

// BasicRouter matches request paths exactly, which is all a callback server needs.
//
// Middleware registered with [BasicRouter.Use] wraps every request, including 404 and 405 responses.
type BasicRouter struct {
	routes      map[string]route
	middlewares []Middleware
}

type route struct {
	method  string
	handler http.Handler
}

// NewBasicRouter creates an empty [BasicRouter].
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{routes: map[string]route{}}
}

// Use appends [Middleware]; the first one added runs outermost.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method on path. A later registration for the same path replaces it.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.routes[path] = route{method: strings.ToUpper(method), handler: handler}
}

// Handler registers every path returned by [Handler.Routes] for GET requests.
func (r *BasicRouter) Handler(handler Handler) {
	for _, path := range handler.Routes() {
		r.Handle(http.MethodGet, path, handler)
	}
}

// ServeHTTP dispatches through the middleware chain.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var h http.Handler = http.HandlerFunc(r.dispatch)
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}
	h.ServeHTTP(w, req)
}

func (r *BasicRouter) dispatch(w http.ResponseWriter, req *http.Request) {
	rt, ok := r.routes[req.URL.Path]
	if !ok {
		http.NotFound(w, req)
		return
	}
	if req.Method != rt.method {
		w.Header().Set("Allow", rt.method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rt.handler.ServeHTTP(w, req)
}
