package middleware

import (
	"context"
	"time"

	"github.com/swaggest/fbind"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Logger is a middleware that writes access log entry for every request.
func Logger(logger *zap.Logger) func(fbind.Handler) fbind.Handler {
	return func(next fbind.Handler) fbind.Handler {
		return fbind.HandlerFunc(func(ctx context.Context, rc *fasthttp.RequestCtx) {
			start := time.Now()

			next.ServeHTTP(ctx, rc)

			fields := []zap.Field{
				zap.ByteString("method", rc.Method()),
				zap.ByteString("path", rc.Path()),
				zap.Int("status", rc.Response.StatusCode()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("remoteAddr", rc.RemoteAddr().String()),
			}

			if id := fbind.RequestID(ctx); id != "" {
				fields = append(fields, zap.String("requestId", id))
			}

			if ip := fbind.ClientIP(ctx); ip != "" {
				fields = append(fields, zap.String("clientIp", ip))
			}

			if rc.Response.StatusCode() >= fasthttp.StatusInternalServerError {
				logger.Error("request served", fields...)
			} else {
				logger.Info("request served", fields...)
			}
		})
	}
}
