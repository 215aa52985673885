// Package route wraps fbind.Router to pre-process handlers at registration.
package route

import (
	"net/http"
	"reflect"
	"runtime"
	"strings"

	"github.com/swaggest/fbind"
)

// HandlerWithRoute exposes HTTP method and path pattern of a registered handler.
type HandlerWithRoute interface {
	RouteMethod() string
	RoutePattern() string
}

// NewWrapper creates router wrapper with handler pre-processor callback.
func NewWrapper(r fbind.Router) *Wrapper {
	return &Wrapper{
		Router: r,
	}
}

// Wrapper wraps Router to pre-process Handler with registration middlewares.
//
// Middlewares added with Use are applied once to every handler at the moment of route registration,
// so they can inspect and configure handler (for example set up request decoder).
type Wrapper struct {
	fbind.Router
	basePattern string

	middlewares []func(fbind.Handler) fbind.Handler
}

var _ fbind.Router = &Wrapper{}

func (r *Wrapper) copy(router fbind.Router, pattern string) *Wrapper {
	mws := make([]func(fbind.Handler) fbind.Handler, len(r.middlewares))
	copy(mws, r.middlewares)

	return &Wrapper{
		Router:      router,
		basePattern: r.basePattern + pattern,
		middlewares: mws,
	}
}

// Use appends one of more middlewares onto the Router stack.
func (r *Wrapper) Use(middlewares ...func(fbind.Handler) fbind.Handler) {
	r.middlewares = append(r.middlewares, middlewares...)
}

// With adds inline middlewares for an endpoint handler.
func (r *Wrapper) With(middlewares ...func(fbind.Handler) fbind.Handler) fbind.Router {
	c := r.copy(r.Router, "")
	c.Use(middlewares...)

	return c
}

// Group adds a new inline-router along the current routing path, with a fresh middleware stack for the inline-router.
func (r *Wrapper) Group(fn func(r fbind.Router)) fbind.Router {
	im := r.With()

	if fn != nil {
		fn(im)
	}

	return im
}

// Method adds routes for `pattern` that matches the `method` HTTP method.
func (r *Wrapper) Method(method, pattern string, h fbind.Handler) {
	r.Router.Method(method, pattern, r.prepareHandler(method, pattern, h))
}

// Delete adds the route `pattern` that matches a DELETE http method to execute the `handler` Handler.
func (r *Wrapper) Delete(pattern string, handler fbind.Handler) {
	r.Method(http.MethodDelete, pattern, handler)
}

// Get adds the route `pattern` that matches a GET http method to execute the `handler` Handler.
func (r *Wrapper) Get(pattern string, handler fbind.Handler) {
	r.Method(http.MethodGet, pattern, handler)
}

// Head adds the route `pattern` that matches a HEAD http method to execute the `handler` Handler.
func (r *Wrapper) Head(pattern string, handler fbind.Handler) {
	r.Method(http.MethodHead, pattern, handler)
}

// Options adds the route `pattern` that matches a OPTIONS http method to execute the `handler` Handler.
func (r *Wrapper) Options(pattern string, handler fbind.Handler) {
	r.Method(http.MethodOptions, pattern, handler)
}

// Patch adds the route `pattern` that matches a PATCH http method to execute the `handler` Handler.
func (r *Wrapper) Patch(pattern string, handler fbind.Handler) {
	r.Method(http.MethodPatch, pattern, handler)
}

// Post adds the route `pattern` that matches a POST http method to execute the `handler` Handler.
func (r *Wrapper) Post(pattern string, handler fbind.Handler) {
	r.Method(http.MethodPost, pattern, handler)
}

// Put adds the route `pattern` that matches a PUT http method to execute the `handler` Handler.
func (r *Wrapper) Put(pattern string, handler fbind.Handler) {
	r.Method(http.MethodPut, pattern, handler)
}

func (r *Wrapper) resolvePattern(pattern string) string {
	return r.basePattern + strings.ReplaceAll(pattern, "/*/", "/")
}

func (r *Wrapper) prepareHandler(method, pattern string, h fbind.Handler) fbind.Handler {
	mw := make([]func(fbind.Handler) fbind.Handler, 0, len(r.middlewares)+1)
	mw = append(mw, r.middlewares...)
	mw = append(mw, HandlerWithRouteMiddleware(method, r.resolvePattern(pattern)))

	return WrapHandler(h, mw...)
}

type handlerWithRoute struct {
	fbind.Handler
	method      string
	pathPattern string
}

func (h handlerWithRoute) RouteMethod() string {
	return h.method
}

func (h handlerWithRoute) RoutePattern() string {
	return h.pathPattern
}

// HandlerWithRouteMiddleware wraps handler with routing information.
func HandlerWithRouteMiddleware(method, pathPattern string) func(fbind.Handler) fbind.Handler {
	return func(handler fbind.Handler) fbind.Handler {
		return handlerWithRoute{
			Handler:     handler,
			pathPattern: pathPattern,
			method:      method,
		}
	}
}

// WrapHandler wraps handler with middlewares keeping a chain of wrapped handlers available for HandlerAs.
func WrapHandler(h fbind.Handler, mw ...func(fbind.Handler) fbind.Handler) fbind.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		w := mw[i](h)
		if w == nil {
			panic("nil handler returned from middleware: " + runtime.FuncForPC(reflect.ValueOf(mw[i]).Pointer()).Name())
		}

		h = &wrappedHandler{
			Handler: w,
			wrapped: h,
		}
	}

	return h
}

// HandlerAs finds the first fbind.Handler in handlers chain that matches target, and if so, sets
// target to that handler value and returns true.
//
// A handler matches target if its concrete value is assignable to the value
// pointed to by target.
//
// HandlerAs will panic if target is not a non-nil pointer to either a type that implements
// fbind.Handler, or to any interface type.
func HandlerAs(handler fbind.Handler, target interface{}) bool {
	if target == nil {
		panic("target cannot be nil")
	}

	val := reflect.ValueOf(target)
	typ := val.Type()

	if typ.Kind() != reflect.Ptr || val.IsNil() {
		panic("target must be a non-nil pointer")
	}

	if e := typ.Elem(); e.Kind() != reflect.Interface && !e.Implements(handlerType) {
		panic("*target must be interface or implement fbind.Handler")
	}

	targetType := typ.Elem()

	for {
		wrap, isWrap := handler.(*wrappedHandler)

		if isWrap {
			handler = wrap.Handler
		}

		if reflect.TypeOf(handler).AssignableTo(targetType) {
			val.Elem().Set(reflect.ValueOf(handler))

			return true
		}

		if !isWrap {
			break
		}

		handler = wrap.wrapped
	}

	return false
}

var handlerType = reflect.TypeOf((*fbind.Handler)(nil)).Elem()

type wrappedHandler struct {
	fbind.Handler
	wrapped fbind.Handler
}
