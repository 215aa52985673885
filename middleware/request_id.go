package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/swaggest/fbind"
	"github.com/valyala/fasthttp"
)

// RequestIDHeader is a name of header with request id.
const RequestIDHeader = "X-Request-Id"

// RequestID is a middleware that puts request id into context and response header.
//
// Incoming X-Request-Id header is reused, a random UUID is generated otherwise.
func RequestID(next fbind.Handler) fbind.Handler {
	return fbind.HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
		id := string(rc.Request.Header.Peek(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}

		rc.Response.Header.Set(RequestIDHeader, id)

		next.ServeHTTP(fbind.WithRequestID(ctx, id), rc)
	})
}
