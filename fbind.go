// Package fbind provides fasthttp handler contract, middleware chains and a route multiplexer
// for handlers with typed request parameters.
package fbind

import (
	"context"

	"github.com/valyala/fasthttp"
)

// Handler serves fasthttp request with context.
type Handler interface {
	ServeHTTP(ctx context.Context, rc *fasthttp.RequestCtx)
}

// HandlerFunc is an adapter to use ordinary functions as Handler.
type HandlerFunc func(ctx context.Context, rc *fasthttp.RequestCtx)

// ServeHTTP calls f(ctx, rc).
func (f HandlerFunc) ServeHTTP(ctx context.Context, rc *fasthttp.RequestCtx) {
	f(ctx, rc)
}

// RequestHandler converts Handler to fasthttp.RequestHandler.
//
// Handler receives request context as context.Context.
func RequestHandler(h Handler) fasthttp.RequestHandler {
	return func(rc *fasthttp.RequestCtx) {
		h.ServeHTTP(rc, rc)
	}
}

// Middlewares type is a slice of standard middleware handlers with methods
// to compose middleware chains and Handler's.
type Middlewares []func(Handler) Handler

// Router consisting of the core routing methods.
type Router interface {
	Handler

	// Use appends one or more middlewares onto the Router stack.
	Use(middlewares ...func(Handler) Handler)

	// With adds inline middlewares for an endpoint handler.
	With(middlewares ...func(Handler) Handler) Router

	// Method adds routes for `pattern` that matches the `method` HTTP method.
	Method(method, pattern string, h Handler)

	Get(pattern string, h Handler)
	Post(pattern string, h Handler)
	Put(pattern string, h Handler)
	Patch(pattern string, h Handler)
	Delete(pattern string, h Handler)

	// NotFound defines a handler to respond whenever a route could not be found.
	NotFound(h Handler)

	// MethodNotAllowed defines a handler to respond whenever a method is not allowed.
	MethodNotAllowed(h Handler)
}

type ctxKey struct{ name string }

var (
	requestIDKey = ctxKey{"requestID"}
	clientIPKey  = ctxKey{"clientIP"}
)

// WithRequestID puts request id into context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns request id from context, empty if not available.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)

	return id
}

// WithClientIP puts resolved client address into context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns client address from context, empty if not resolved.
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)

	return ip
}
