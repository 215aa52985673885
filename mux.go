package fbind

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/valyala/fasthttp"
)

var _ Router = &Mux{}

// Route describes registered routing pattern.
type Route struct {
	Pattern string
	Methods []string
}

// Mux is a simple HTTP route multiplexer that matches request method and path
// and executes an end handler. It implements the Handler interface.
//
// Patterns are matched exactly, a pattern ending with `/*` matches any path with its prefix.
type Mux struct {
	// The computed mux handler made of the chained middleware stack and
	// the router itself.
	handler Handler

	// Registered endpoints by pattern and method, shared with inline muxes.
	routes *routes

	// Custom method not allowed handler
	methodNotAllowedHandler Handler

	// Controls the behaviour of middleware chain generation when a mux
	// is registered as an inline group inside another mux.
	parent *Mux

	// Custom route not found handler
	notFoundHandler Handler

	// The middleware stack
	middlewares []func(Handler) Handler

	inline bool
}

type routes struct {
	exact  map[string]map[string]Handler
	prefix map[string]map[string]Handler
}

// NewMux returns a newly initialized Mux object that implements the Router
// interface.
func NewMux() *Mux {
	return &Mux{routes: &routes{
		exact:  make(map[string]map[string]Handler),
		prefix: make(map[string]map[string]Handler),
	}}
}

// NewRouter returns a new Mux object that implements the Router interface.
func NewRouter() *Mux {
	return NewMux()
}

// ServeHTTP is the single method of the Handler interface.
func (mx *Mux) ServeHTTP(ctx context.Context, rc *fasthttp.RequestCtx) {
	// Ensure the mux has some routes defined on the mux
	if mx.handler == nil {
		mx.NotFoundHandler().ServeHTTP(ctx, rc)
		return
	}

	mx.handler.ServeHTTP(ctx, rc)
}

// Use appends a middleware handler to the Mux middleware stack.
//
// The middleware stack for any Mux will execute before searching for a matching
// route to a specific handler, which provides opportunity to respond early,
// change the course of the request execution, or set request-scoped values for
// the next Handler.
func (mx *Mux) Use(middlewares ...func(Handler) Handler) {
	if mx.handler != nil {
		panic("fbind: all middlewares must be defined before routes on a mux")
	}
	mx.middlewares = append(mx.middlewares, middlewares...)
}

// Handle adds the route `pattern` that matches any http method to
// execute the `handler` Handler.
func (mx *Mux) Handle(pattern string, handler Handler) {
	mx.handle("*", pattern, handler)
}

// Method adds the route `pattern` that matches `method` http method to
// execute the `handler` Handler.
func (mx *Mux) Method(method, pattern string, handler Handler) {
	if method == "" {
		panic(fmt.Sprintf("fbind: empty http method for '%s'", pattern))
	}
	mx.handle(strings.ToUpper(method), pattern, handler)
}

// Get adds the route `pattern` that matches a GET http method.
func (mx *Mux) Get(pattern string, handler Handler) {
	mx.handle(fasthttp.MethodGet, pattern, handler)
}

// Post adds the route `pattern` that matches a POST http method.
func (mx *Mux) Post(pattern string, handler Handler) {
	mx.handle(fasthttp.MethodPost, pattern, handler)
}

// Put adds the route `pattern` that matches a PUT http method.
func (mx *Mux) Put(pattern string, handler Handler) {
	mx.handle(fasthttp.MethodPut, pattern, handler)
}

// Patch adds the route `pattern` that matches a PATCH http method.
func (mx *Mux) Patch(pattern string, handler Handler) {
	mx.handle(fasthttp.MethodPatch, pattern, handler)
}

// Delete adds the route `pattern` that matches a DELETE http method.
func (mx *Mux) Delete(pattern string, handler Handler) {
	mx.handle(fasthttp.MethodDelete, pattern, handler)
}

// NotFound sets a custom Handler for routing paths that could
// not be found. The default 404 handler responds with plain text.
func (mx *Mux) NotFound(handler Handler) {
	m := mx
	if mx.inline && mx.parent != nil {
		m = mx.parent
		handler = Chain(mx.middlewares...).Handler(handler)
	}

	m.notFoundHandler = handler
}

// MethodNotAllowed sets a custom Handler for routing paths where the
// method is unresolved. The default handler returns a 405 with an empty body.
func (mx *Mux) MethodNotAllowed(handler Handler) {
	m := mx
	if mx.inline && mx.parent != nil {
		m = mx.parent
		handler = Chain(mx.middlewares...).Handler(handler)
	}

	m.methodNotAllowedHandler = handler
}

// With adds inline middlewares for an endpoint handler.
func (mx *Mux) With(middlewares ...func(Handler) Handler) Router {
	// Similarly as in handle(), we must build the mux handler once additional
	// middleware registration isn't allowed for this stack, like now.
	if !mx.inline && mx.handler == nil {
		mx.updateRouteHandler()
	}

	// Copy middlewares from parent inline muxs
	var mws Middlewares
	if mx.inline {
		mws = make(Middlewares, len(mx.middlewares))
		copy(mws, mx.middlewares)
	}
	mws = append(mws, middlewares...)

	root := mx
	if mx.inline && mx.parent != nil {
		root = mx.parent
	}

	return &Mux{
		inline: true, parent: root, routes: mx.routes, middlewares: mws,
	}
}

// Group creates a new inline-Mux with a fresh middleware stack. It's useful
// for a group of handlers along the same routing path that use an additional
// set of middlewares.
func (mx *Mux) Group(fn func(r Router)) Router {
	im := mx.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Routes returns a sorted slice of routing information.
func (mx *Mux) Routes() []Route {
	var res []Route

	add := func(suffix string, byPattern map[string]map[string]Handler) {
		for pattern, byMethod := range byPattern {
			r := Route{Pattern: pattern + suffix}
			for method := range byMethod {
				r.Methods = append(r.Methods, method)
			}
			sort.Strings(r.Methods)
			res = append(res, r)
		}
	}

	add("", mx.routes.exact)
	add("*", mx.routes.prefix)

	sort.Slice(res, func(i, j int) bool {
		return res[i].Pattern < res[j].Pattern
	})

	return res
}

// Middlewares returns a slice of middleware handler functions.
func (mx *Mux) Middlewares() Middlewares {
	return mx.middlewares
}

// NotFoundHandler returns the default Mux 404 responder whenever a route
// cannot be found.
func (mx *Mux) NotFoundHandler() Handler {
	if mx.notFoundHandler != nil {
		return mx.notFoundHandler
	}
	return HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		rc.SetStatusCode(fasthttp.StatusNotFound)
		rc.SetContentType("text/plain; charset=utf-8")
		_, _ = rc.Write([]byte("404 page not found"))
	})
}

// MethodNotAllowedHandler returns the default Mux 405 responder whenever
// a method cannot be resolved for a route.
func (mx *Mux) MethodNotAllowedHandler() Handler {
	if mx.methodNotAllowedHandler != nil {
		return mx.methodNotAllowedHandler
	}

	return HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		rc.SetStatusCode(fasthttp.StatusMethodNotAllowed)
	})
}

// handle registers a Handler for a particular http method and routing pattern.
func (mx *Mux) handle(method, pattern string, handler Handler) {
	if len(pattern) == 0 || pattern[0] != '/' {
		panic(fmt.Sprintf("fbind: routing pattern must begin with '/' in '%s'", pattern))
	}

	// Build the computed routing handler for this routing pattern.
	if !mx.inline && mx.handler == nil {
		mx.updateRouteHandler()
	}

	// Build endpoint handler with inline middlewares for the route
	h := handler
	if mx.inline {
		h = Chain(mx.middlewares...).Handler(handler)
	}

	byPattern := mx.routes.exact
	if strings.HasSuffix(pattern, "/*") {
		byPattern = mx.routes.prefix
		pattern = strings.TrimSuffix(pattern, "*")
	}

	if byPattern[pattern] == nil {
		byPattern[pattern] = make(map[string]Handler)
	}

	byPattern[pattern][method] = h
}

// routeHTTP routes a request through the Mux routes to serve
// the matching handler for a particular http method.
func (mx *Mux) routeHTTP(ctx context.Context, rc *fasthttp.RequestCtx) {
	path := string(rc.Path())
	if path == "" {
		path = "/"
	}

	byMethod, ok := mx.routes.exact[path]
	if !ok {
		longest := ""
		for prefix, bm := range mx.routes.prefix {
			if strings.HasPrefix(path, prefix) && len(prefix) > len(longest) {
				longest = prefix
				byMethod = bm
			}
		}
	}

	if byMethod == nil {
		mx.NotFoundHandler().ServeHTTP(ctx, rc)
		return
	}

	if h, ok := byMethod[string(rc.Method())]; ok {
		h.ServeHTTP(ctx, rc)
		return
	}

	if h, ok := byMethod["*"]; ok {
		h.ServeHTTP(ctx, rc)
		return
	}

	mx.MethodNotAllowedHandler().ServeHTTP(ctx, rc)
}

// updateRouteHandler builds the single mux handler that is a chain of the middleware
// stack, as defined by calls to Use(), and the router itself. After this
// point, no other middlewares can be registered on this Mux's stack. But you can still
// compose additional middlewares via Group()'s or using a chained middleware handler.
func (mx *Mux) updateRouteHandler() {
	mx.handler = chain(mx.middlewares, HandlerFunc(mx.routeHTTP))
}
