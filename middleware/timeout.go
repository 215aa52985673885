package middleware

import (
	"context"
	"time"

	"github.com/swaggest/fbind"
	"github.com/valyala/fasthttp"
)

// Timeout is a middleware that cancels ctx after a given timeout and returns
// a 504 Gateway Timeout status to the client.
//
// Handler has to select on ctx.Done() to stop early, otherwise the timeout
// signal is ignored and only the status code is replaced.
func Timeout(timeout time.Duration) func(next fbind.Handler) fbind.Handler {
	return func(next fbind.Handler) fbind.Handler {
		return fbind.HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer func() {
				cancel()

				if ctx.Err() == context.DeadlineExceeded {
					rc.ResetBody()
					rc.SetStatusCode(fasthttp.StatusGatewayTimeout)
				}
			}()

			next.ServeHTTP(ctx, rc)
		})
	}
}
